// Package department provides CRUD operations for hospital departments.
package department

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

const (
	slugQueryPattern = "slug = ?"
)

var (
	// ErrDepartmentNotFound is returned when a department is not found.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrSlugEmpty is returned when attempting to create/update a department with an empty slug.
	ErrSlugEmpty = errors.New("department slug cannot be empty")
	// ErrNameEmpty is returned when attempting to create/update a department with an empty name.
	ErrNameEmpty = errors.New("department name cannot be empty")
	// ErrSlugAlreadyExists is returned when the slug is already taken by another department.
	ErrSlugAlreadyExists = errors.New("department slug already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a department by its slug.
func Get(db *gorm.DB, slug string) (*models.Department, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrSlugEmpty
	}

	var dep models.Department
	result := db.Where(slugQueryPattern, slug).First(&dep)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, result.Error
	}

	return &dep, nil
}

// GetByID retrieves a department by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Department, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dep models.Department
	result := db.First(&dep, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, result.Error
	}

	return &dep, nil
}

// GetAll retrieves all departments ordered by sort order then name.
func GetAll(db *gorm.DB) ([]models.Department, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var deps []models.Department
	result := db.Order("sort_order asc, name asc").Find(&deps)
	if result.Error != nil {
		return nil, result.Error
	}

	return deps, nil
}

// GetPublished retrieves published departments for the public directory.
func GetPublished(db *gorm.DB) ([]models.Department, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var deps []models.Department
	result := db.Where("published = ?", true).Order("sort_order asc, name asc").Find(&deps)
	if result.Error != nil {
		return nil, result.Error
	}

	return deps, nil
}

// Create creates a new department.
func Create(db *gorm.DB, dep *models.Department) error {
	if db == nil {
		return ErrDBNil
	}
	if dep.Slug == "" {
		return ErrSlugEmpty
	}
	if dep.Name == "" {
		return ErrNameEmpty
	}

	// Check the slug is free
	var existing models.Department
	result := db.Where(slugQueryPattern, dep.Slug).First(&existing)
	if result.Error == nil {
		return ErrSlugAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(dep).Error
}

// Update updates an existing department by ID.
func Update(db *gorm.DB, dep *models.Department) error {
	if db == nil {
		return ErrDBNil
	}
	if dep.Slug == "" {
		return ErrSlugEmpty
	}
	if dep.Name == "" {
		return ErrNameEmpty
	}

	var current models.Department
	result := db.First(&current, dep.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return result.Error
	}

	// Slug changes must not collide with another department
	if current.Slug != dep.Slug {
		var existing models.Department
		result = db.Where(slugQueryPattern, dep.Slug).First(&existing)
		if result.Error == nil {
			return ErrSlugAlreadyExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
	}

	return db.Save(dep).Error
}

// Delete deletes a department by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDepartmentNotFound
	}

	return nil
}
