package config

import (
	"time"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Redis     Redis
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	CacheEnabled   bool    // true = enable cache, false = disable cache
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// LocalDBAuth enables username/password authentication against the local database.
type LocalDBAuth struct {
	Enabled bool
}

// Auth groups the available authentication methods.
type Auth struct {
	LocalDB LocalDBAuth
	LDAP    auth.LDAPConfig
	OIDC    auth.OIDCConfig
}

// Redis holds the change-notification broker settings.
type Redis struct {
	Enabled bool
	Addr    string
}
