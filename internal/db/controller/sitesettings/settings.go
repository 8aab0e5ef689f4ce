// Package sitesettings stores the public site configuration as a JSON blob
// in the settings table.
package sitesettings

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/setting"
)

const (
	// SettingKeySite is the key used to store the public site settings in the database.
	SettingKeySite = "site"
)

type (
	// Settings represents the hospital site configuration shown on public pages.
	Settings struct {
		SiteName       string `form:"site_name"       json:"siteName"      validate:"required"`
		Tagline        string `form:"tagline"         json:"tagline"`
		ContactEmail   string `form:"contact_email"   json:"contactEmail"  validate:"required,email"`
		ContactPhone   string `form:"contact_phone"   json:"contactPhone"  validate:"required"`
		EmergencyPhone string `form:"emergency_phone" json:"emergencyPhone"`
		Address        string `form:"address"         json:"address"`
		OpeningHours   string `form:"opening_hours"   json:"openingHours"`
		FacebookURL    string `form:"facebook_url"    json:"facebookUrl"   validate:"omitempty,url"`
		InstagramURL   string `form:"instagram_url"   json:"instagramUrl"  validate:"omitempty,url"`
		YoutubeURL     string `form:"youtube_url"     json:"youtubeUrl"    validate:"omitempty,url"`
		SEOTitle       string `form:"seo_title"       json:"seoTitle"`
		SEODescription string `form:"seo_description" json:"seoDescription"`
	}
)

// Load loads the site settings from the database.
func (s *Settings) Load(db *gorm.DB) error {
	// Retrieve the setting from the database
	row, err := setting.Get(db, SettingKeySite)
	if err != nil {
		return err
	}

	// Unmarshal the JSON blob into the struct
	return json.Unmarshal(row.Value, s)
}

// Save saves the site settings to the database.
func (s *Settings) Save(db *gorm.DB) error {
	// Marshal the struct to JSON
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// Save or update the setting in the database
	_, err = setting.Set(db, SettingKeySite, data)

	return err
}
