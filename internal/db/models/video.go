package models

import "time"

// Video represents an entry in the public video gallery.
type Video struct {
	// ID is the unique identifier for the video.
	ID uint64 `gorm:"primaryKey"`
	// Title is the display title of the video.
	Title string `gorm:"size:200;not null"`
	// VideoURL is the external video location (e.g. a YouTube watch URL).
	VideoURL string `gorm:"size:500;not null"`
	// ThumbnailURL is the preview image shown in the gallery.
	ThumbnailURL string `gorm:"size:500"`
	// Description is an optional caption for the video.
	Description string `gorm:"size:500"`
	// Published controls visibility on the public site.
	Published bool
	// SortOrder orders videos in the gallery (ascending).
	SortOrder int `gorm:"default:0"`
	// CreatedAt is the timestamp when the video was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the video was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Video model.
func (Video) TableName() string {
	return "videos"
}
