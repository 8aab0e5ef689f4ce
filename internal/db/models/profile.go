package models

import "time"

// Profile represents an administrative user of the content management system.
// A profile pairs exactly one identity with a role and an active flag.
// The role stored here is authoritative: guards re-read it on every request,
// so a demotion takes effect on the demoted user's very next action.
type Profile struct {
	// ID is the unique identifier for the profile.
	ID uint64 `gorm:"primaryKey"`
	// IdentityID is the identity this profile belongs to.
	// Enforced unique so an identity resolves to at most one role.
	IdentityID uint64 `gorm:"column:identity_id;not null;uniqueIndex"`
	// Identity is the associated identity (loaded via foreign key).
	Identity Identity `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE"`
	// FullName is the display name shown in the admin area and on authored content.
	FullName string `gorm:"size:150"`
	// Email mirrors the identity email for listing without a join.
	Email string `gorm:"size:255;not null"`
	// Role is the access level granted to this profile.
	Role Role `gorm:"type:varchar(30);not null"`
	// Active indicates whether the profile may use the admin area.
	// Inactive profiles resolve to no role.
	Active bool
	// CreatedAt is the timestamp when the profile was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the profile was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
