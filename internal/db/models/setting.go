// Package models contains database model definitions.
package models

import "time"

// Setting represents a named configuration blob stored in the database.
// Typed wrappers (e.g. the site settings) marshal themselves into Value.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}
