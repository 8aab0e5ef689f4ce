package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates an identity against the local database.
// A deactivated profile blocks login; a missing profile does not (such an
// identity signs in but resolves no role, so every guard denies it).
func (p *LocalProvider) Authenticate(email, password string) (*models.Identity, error) {
	var identity models.Identity

	err := p.db.Where("email = ? AND auth_source = ?", email, models.AuthSourceLocal).
		First(&identity).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIdentityNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}

	if !identity.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	var profile models.Profile

	err = p.db.Where("identity_id = ?", identity.ID).First(&profile).Error
	if err == nil && !profile.Active {
		return nil, ErrAccountDisabled
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &identity, nil
}

// ChangePassword changes a local identity's password after verifying the old one.
func (p *LocalProvider) ChangePassword(identityID uint64, oldPassword, newPassword string) error {
	var identity models.Identity

	err := p.db.Where("id = ? AND auth_source = ?", identityID, models.AuthSourceLocal).
		First(&identity).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrIdentityNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to query identity: %w", err)
	}

	if !identity.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	identity.Password = models.HashPassword(newPassword)

	return p.db.Save(&identity).Error
}
