// Package profile provides read and listing operations for admin profiles.
//
// Creation and deletion go through the auth provisioning service, which
// pairs a profile with its identity. This package only covers lookups and
// field updates that do not touch the identity.
package profile

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a profile by its ID, with the identity preloaded.
func GetByID(db *gorm.DB, id uint64) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Profile
	result := db.Preload("Identity").First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetByIdentityID retrieves the profile belonging to an identity.
func GetByIdentityID(db *gorm.DB, identityID uint64) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Profile
	result := db.Where("identity_id = ?", identityID).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetAll retrieves all profiles ordered by full name, identities preloaded.
func GetAll(db *gorm.DB) ([]models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var profiles []models.Profile
	result := db.Preload("Identity").Order("full_name asc").Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}

	return profiles, nil
}

// CountByRole returns how many profiles hold each role.
func CountByRole(db *gorm.DB) (map[models.Role]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	type row struct {
		Role  models.Role
		Count int64
	}

	var rows []row
	result := db.Model(&models.Profile{}).
		Select("role, count(*) as count").Group("role").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Count
	}

	return counts, nil
}

// UpdateFullName updates the display name of a profile.
func UpdateFullName(db *gorm.DB, id uint64, fullName string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Profile{}).Where("id = ?", id).Update("full_name", fullName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
