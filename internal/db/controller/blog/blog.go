// Package blog provides CRUD operations for blog posts.
package blog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

const (
	slugQueryPattern = "slug = ?"
)

var (
	// ErrPostNotFound is returned when a blog post is not found.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrSlugEmpty is returned when attempting to create/update a post with an empty slug.
	ErrSlugEmpty = errors.New("blog post slug cannot be empty")
	// ErrTitleEmpty is returned when attempting to create/update a post with an empty title.
	ErrTitleEmpty = errors.New("blog post title cannot be empty")
	// ErrSlugAlreadyExists is returned when the slug is already taken by another post.
	ErrSlugAlreadyExists = errors.New("blog post slug already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a blog post by its slug.
func Get(db *gorm.DB, slug string) (*models.BlogPost, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrSlugEmpty
	}

	var post models.BlogPost
	result := db.Where(slugQueryPattern, slug).First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, result.Error
	}

	return &post, nil
}

// GetByID retrieves a blog post by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.BlogPost, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var post models.BlogPost
	result := db.First(&post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, result.Error
	}

	return &post, nil
}

// GetAll retrieves all blog posts, newest first.
func GetAll(db *gorm.DB) ([]models.BlogPost, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var posts []models.BlogPost
	result := db.Order("created_at desc").Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

// GetPublished retrieves published posts for the public blog, newest first.
func GetPublished(db *gorm.DB) ([]models.BlogPost, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var posts []models.BlogPost
	result := db.Where("published = ?", true).Order("published_at desc").Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

// Create creates a new blog post.
// When the post is created already published, PublishedAt is stamped.
func Create(db *gorm.DB, post *models.BlogPost) error {
	if db == nil {
		return ErrDBNil
	}
	if post.Slug == "" {
		return ErrSlugEmpty
	}
	if post.Title == "" {
		return ErrTitleEmpty
	}

	var existing models.BlogPost
	result := db.Where(slugQueryPattern, post.Slug).First(&existing)
	if result.Error == nil {
		return ErrSlugAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if post.Published && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	return db.Create(post).Error
}

// Update updates an existing blog post by ID.
// Flipping Published on for the first time stamps PublishedAt.
func Update(db *gorm.DB, post *models.BlogPost) error {
	if db == nil {
		return ErrDBNil
	}
	if post.Slug == "" {
		return ErrSlugEmpty
	}
	if post.Title == "" {
		return ErrTitleEmpty
	}

	var current models.BlogPost
	result := db.First(&current, post.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return result.Error
	}

	if current.Slug != post.Slug {
		var existing models.BlogPost
		result = db.Where(slugQueryPattern, post.Slug).First(&existing)
		if result.Error == nil {
			return ErrSlugAlreadyExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
	}

	if post.Published && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	return db.Save(post).Error
}

// Delete deletes a blog post by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}
