package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for an identity.
// It indicates how the account authenticates (local database, LDAP, or OIDC).
type AuthSource string

const (
	// AuthSourceLocal indicates the identity authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the identity authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
	// AuthSourceLDAP indicates the identity authenticates via LDAP or Active Directory.
	AuthSourceLDAP AuthSource = "ldap"
)

// Identity represents an authenticatable account.
// It carries only what is needed to establish who the caller is; everything
// the application knows about that person (display name, role, active flag)
// lives on the paired Profile row. An identity without a profile can log in
// but never resolves a role, so it is effectively locked out.
type Identity struct {
	// ID is the unique identifier for the identity.
	ID uint64 `gorm:"primaryKey"`
	// Email is the unique login email address.
	Email string `gorm:"unique;size:255;not null"`
	// Password is the Argon2id hashed password (only used for local authentication).
	Password string `gorm:"size:255"`
	// AuthSource indicates how this identity authenticates (local, oidc, or ldap).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the external identifier for OIDC (sub claim) or LDAP (DN) identities.
	ExternalID string `gorm:"size:255"`
	// CreatedAt is the timestamp when the identity was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the identity was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Identity model.
func (Identity) TableName() string {
	return "identities"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating local passwords.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the identity's stored hash.
// It uses constant-time comparison to prevent timing attacks.
func (i *Identity) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, i.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
