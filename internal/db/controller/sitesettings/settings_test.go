package sitesettings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/setting"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestSettingsSaveLoad(t *testing.T) {
	db := setupTestDB(t)

	in := Settings{
		SiteName:       "St. Mary General Hospital",
		Tagline:        "Care you can trust",
		ContactEmail:   "info@stmary.example",
		ContactPhone:   "+1 555 0100",
		EmergencyPhone: "+1 555 0911",
		Address:        "1 Hospital Drive",
		OpeningHours:   "Mon-Fri 08:00-18:00",
		FacebookURL:    "https://facebook.com/stmary",
		SEOTitle:       "St. Mary General Hospital",
		SEODescription: "A general hospital.",
	}

	require.NoError(t, in.Save(db))

	var out Settings
	require.NoError(t, out.Load(db))
	assert.Equal(t, in, out)
}

func TestSettingsSaveUpdatesExisting(t *testing.T) {
	db := setupTestDB(t)

	first := Settings{SiteName: "Old Name", ContactEmail: "a@b.example", ContactPhone: "1"}
	require.NoError(t, first.Save(db))

	second := Settings{SiteName: "New Name", ContactEmail: "a@b.example", ContactPhone: "1"}
	require.NoError(t, second.Save(db))

	var out Settings
	require.NoError(t, out.Load(db))
	assert.Equal(t, "New Name", out.SiteName)

	// still a single row under the site key
	all, err := setting.GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingsLoadMissing(t *testing.T) {
	db := setupTestDB(t)

	var out Settings
	err := out.Load(db)
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}
