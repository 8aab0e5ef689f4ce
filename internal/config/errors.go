package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrRedisAddrEmpty error if redis is enabled without an address.
	ErrRedisAddrEmpty = errors.New("toml config redis.addr can not be empty when redis is enabled")
)
