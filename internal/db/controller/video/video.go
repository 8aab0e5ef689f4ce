// Package video provides CRUD operations for the video gallery.
package video

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

var (
	// ErrVideoNotFound is returned when a video is not found.
	ErrVideoNotFound = errors.New("video not found")
	// ErrTitleEmpty is returned when attempting to create/update a video with an empty title.
	ErrTitleEmpty = errors.New("video title cannot be empty")
	// ErrURLEmpty is returned when attempting to create/update a video with an empty URL.
	ErrURLEmpty = errors.New("video url cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a video by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Video, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var v models.Video
	result := db.First(&v, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, result.Error
	}

	return &v, nil
}

// GetAll retrieves all videos ordered by sort order then newest first.
func GetAll(db *gorm.DB) ([]models.Video, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var videos []models.Video
	result := db.Order("sort_order asc, created_at desc").Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}

	return videos, nil
}

// GetPublished retrieves published videos for the public gallery.
func GetPublished(db *gorm.DB) ([]models.Video, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var videos []models.Video
	result := db.Where("published = ?", true).
		Order("sort_order asc, created_at desc").Find(&videos)
	if result.Error != nil {
		return nil, result.Error
	}

	return videos, nil
}

// Create creates a new video.
func Create(db *gorm.DB, v *models.Video) error {
	if db == nil {
		return ErrDBNil
	}
	if v.Title == "" {
		return ErrTitleEmpty
	}
	if v.VideoURL == "" {
		return ErrURLEmpty
	}

	return db.Create(v).Error
}

// Update updates an existing video by ID.
func Update(db *gorm.DB, v *models.Video) error {
	if db == nil {
		return ErrDBNil
	}
	if v.Title == "" {
		return ErrTitleEmpty
	}
	if v.VideoURL == "" {
		return ErrURLEmpty
	}

	var current models.Video
	result := db.First(&current, v.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return result.Error
	}

	return db.Save(v).Error
}

// Delete deletes a video by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}

	return nil
}
