package models

import "time"

// BlogPost represents an article on the public blog.
type BlogPost struct {
	// ID is the unique identifier for the post.
	ID uint64 `gorm:"primaryKey"`
	// Slug is the URL segment for the post.
	Slug string `gorm:"unique;size:200;not null"`
	// Title is the post headline.
	Title string `gorm:"size:200;not null"`
	// Excerpt is a short teaser shown in the blog listing.
	Excerpt string `gorm:"size:500"`
	// Body is the full article content (HTML).
	Body string `gorm:"type:text"`
	// CoverImageURL is the header image for the post.
	CoverImageURL string `gorm:"size:500"`
	// AuthorProfileID is the profile that authored the post, zero when unknown.
	AuthorProfileID uint64 `gorm:"column:author_profile_id;index"`
	// SEOTitle overrides the page title for search engines when set.
	SEOTitle string `gorm:"size:200"`
	// SEODescription is the meta description for the post.
	SEODescription string `gorm:"size:300"`
	// Published controls visibility on the public site.
	Published bool
	// PublishedAt is when the post went live, nil while in draft.
	PublishedAt *time.Time
	// CreatedAt is the timestamp when the post was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the post was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the BlogPost model.
func (BlogPost) TableName() string {
	return "blog_posts"
}
