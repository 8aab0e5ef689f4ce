// Package treatment provides CRUD operations for treatment pages.
package treatment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

const (
	slugQueryPattern = "slug = ?"
)

var (
	// ErrTreatmentNotFound is returned when a treatment is not found.
	ErrTreatmentNotFound = errors.New("treatment not found")
	// ErrSlugEmpty is returned when attempting to create/update a treatment with an empty slug.
	ErrSlugEmpty = errors.New("treatment slug cannot be empty")
	// ErrNameEmpty is returned when attempting to create/update a treatment with an empty name.
	ErrNameEmpty = errors.New("treatment name cannot be empty")
	// ErrSlugAlreadyExists is returned when the slug is already taken by another treatment.
	ErrSlugAlreadyExists = errors.New("treatment slug already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a treatment by its slug, with its department preloaded.
func Get(db *gorm.DB, slug string) (*models.Treatment, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrSlugEmpty
	}

	var tr models.Treatment
	result := db.Preload("Department").Where(slugQueryPattern, slug).First(&tr)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTreatmentNotFound
		}
		return nil, result.Error
	}

	return &tr, nil
}

// GetByID retrieves a treatment by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Treatment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tr models.Treatment
	result := db.First(&tr, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTreatmentNotFound
		}
		return nil, result.Error
	}

	return &tr, nil
}

// GetAll retrieves all treatments ordered by name.
func GetAll(db *gorm.DB) ([]models.Treatment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var trs []models.Treatment
	result := db.Preload("Department").Order("name asc").Find(&trs)
	if result.Error != nil {
		return nil, result.Error
	}

	return trs, nil
}

// GetPublished retrieves published treatments for the public directory.
func GetPublished(db *gorm.DB) ([]models.Treatment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var trs []models.Treatment
	result := db.Preload("Department").Where("published = ?", true).Order("name asc").Find(&trs)
	if result.Error != nil {
		return nil, result.Error
	}

	return trs, nil
}

// GetByDepartment retrieves published treatments belonging to a department.
func GetByDepartment(db *gorm.DB, departmentID uint64) ([]models.Treatment, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var trs []models.Treatment
	result := db.Where("department_id = ? AND published = ?", departmentID, true).
		Order("name asc").Find(&trs)
	if result.Error != nil {
		return nil, result.Error
	}

	return trs, nil
}

// Create creates a new treatment.
func Create(db *gorm.DB, tr *models.Treatment) error {
	if db == nil {
		return ErrDBNil
	}
	if tr.Slug == "" {
		return ErrSlugEmpty
	}
	if tr.Name == "" {
		return ErrNameEmpty
	}

	var existing models.Treatment
	result := db.Where(slugQueryPattern, tr.Slug).First(&existing)
	if result.Error == nil {
		return ErrSlugAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(tr).Error
}

// Update updates an existing treatment by ID.
func Update(db *gorm.DB, tr *models.Treatment) error {
	if db == nil {
		return ErrDBNil
	}
	if tr.Slug == "" {
		return ErrSlugEmpty
	}
	if tr.Name == "" {
		return ErrNameEmpty
	}

	var current models.Treatment
	result := db.First(&current, tr.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrTreatmentNotFound
		}
		return result.Error
	}

	if current.Slug != tr.Slug {
		var existing models.Treatment
		result = db.Where(slugQueryPattern, tr.Slug).First(&existing)
		if result.Error == nil {
			return ErrSlugAlreadyExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
	}

	return db.Omit("Department").Save(tr).Error
}

// Delete deletes a treatment by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Treatment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTreatmentNotFound
	}

	return nil
}
