package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// ProvisionInput describes a new administrative user.
type ProvisionInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
	Active   bool
	// Source defaults to local when empty. LDAP/OIDC identities carry no
	// local password; ExternalID holds the directory DN or the OIDC subject.
	Source     models.AuthSource
	ExternalID string
}

// ProvisionUser creates the identity and profile rows for a new admin user.
//
// The two inserts are not transactional: the identity must exist before the
// profile can reference it, and an identity without a profile authenticates
// but never resolves a role. On profile-insert failure the just-created
// identity is deleted as best-effort compensation. A crash between the two
// steps can still leave an orphaned identity; that is an accepted limitation,
// cleaned up by re-provisioning or deleting the identity.
func (s *Service) ProvisionUser(in ProvisionInput) (*models.Profile, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var existing models.Identity

	err := s.db.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing identity: %w", err)
	}

	source := in.Source
	if source == "" {
		source = models.AuthSourceLocal
	}

	identity := models.Identity{
		Email:      in.Email,
		AuthSource: source,
		ExternalID: in.ExternalID,
	}

	if source == models.AuthSourceLocal {
		identity.Password = models.HashPassword(in.Password)
	}

	if err := s.db.Create(&identity).Error; err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	profile := models.Profile{
		IdentityID: identity.ID,
		FullName:   in.FullName,
		Email:      in.Email,
		Role:       in.Role,
		Active:     in.Active,
	}

	if err := s.db.Create(&profile).Error; err != nil {
		// Roll back the identity so no orphan is left behind.
		if delErr := s.db.Delete(&models.Identity{}, identity.ID).Error; delErr != nil {
			log.Error().Err(delErr).Uint64("identity_id", identity.ID).
				Msg("failed to roll back identity after profile creation failure")
		}

		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &profile, nil
}

// DeprovisionUser removes an admin user: profile first, then identity.
// Deleting the profile first guarantees the account loses its role even if
// the identity delete fails.
func (s *Service) DeprovisionUser(profileID uint64) error {
	var profile models.Profile

	err := s.db.First(&profile, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.db.Delete(&models.Profile{}, profile.ID).Error; err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.db.Delete(&models.Identity{}, profile.IdentityID).Error; err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	return nil
}

// UpdateRole changes a profile's role. Only callers already holding
// manage_users reach this through the admin handlers.
func (s *Service) UpdateRole(profileID uint64, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	return s.db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("role", role).Error
}

// SetActive toggles a profile's active flag.
func (s *Service) SetActive(profileID uint64, active bool) error {
	return s.db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("active", active).Error
}
