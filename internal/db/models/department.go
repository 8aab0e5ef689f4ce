package models

import "time"

// Department represents a hospital department shown on the public site.
type Department struct {
	// ID is the unique identifier for the department.
	ID uint64 `gorm:"primaryKey"`
	// Slug is the URL segment for the department page.
	Slug string `gorm:"unique;size:150;not null"`
	// Name is the display name of the department.
	Name string `gorm:"size:150;not null"`
	// Summary is a short teaser shown in the department directory.
	Summary string `gorm:"size:500"`
	// Body is the full page content (HTML).
	Body string `gorm:"type:text"`
	// SEOTitle overrides the page title for search engines when set.
	SEOTitle string `gorm:"size:200"`
	// SEODescription is the meta description for the department page.
	SEODescription string `gorm:"size:300"`
	// Published controls visibility on the public site.
	Published bool
	// SortOrder orders departments in the directory (ascending).
	SortOrder int `gorm:"default:0"`
	// CreatedAt is the timestamp when the department was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the department was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Department model.
func (Department) TableName() string {
	return "departments"
}
