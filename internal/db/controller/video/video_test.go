package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Video{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedVideos inserts test data into the database.
func seedVideos(t *testing.T, db *gorm.DB, videos []models.Video) {
	t.Helper()
	for _, v := range videos {
		err := db.Create(&v).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)

	seedVideos(t, db, []models.Video{
		{Title: "Hospital Tour", VideoURL: "https://youtube.com/watch?v=abc123"},
	})

	_, err := GetByID(nil, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = GetByID(db, 9999)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	v, err := GetByID(db, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hospital Tour", v.Title)
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	err := Create(db, &models.Video{Title: "Hospital Tour", VideoURL: "https://youtube.com/watch?v=abc123"})
	require.NoError(t, err)

	// missing fields rejected
	assert.ErrorIs(t, Create(db, &models.Video{VideoURL: "https://youtube.com/watch?v=def456"}), ErrTitleEmpty)
	assert.ErrorIs(t, Create(db, &models.Video{Title: "No URL"}), ErrURLEmpty)
	assert.ErrorIs(t, Create(nil, &models.Video{Title: "X", VideoURL: "https://example.com"}), ErrDBNil)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	seedVideos(t, db, []models.Video{
		{Title: "Hospital Tour", VideoURL: "https://youtube.com/watch?v=abc123"},
	})

	v, err := GetByID(db, 1)
	require.NoError(t, err)

	v.Title = "Hospital Tour 2026"
	v.Published = true
	require.NoError(t, Update(db, v))

	got, err := GetByID(db, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hospital Tour 2026", got.Title)
	assert.True(t, got.Published)

	// validation on update
	v.Title = ""
	assert.ErrorIs(t, Update(db, v), ErrTitleEmpty)

	// unknown id
	err = Update(db, &models.Video{ID: 9999, Title: "X", VideoURL: "https://example.com"})
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestGetPublished(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now()
	seedVideos(t, db, []models.Video{
		{Title: "Second", VideoURL: "https://youtube.com/watch?v=b", Published: true, SortOrder: 2, CreatedAt: now},
		{Title: "First", VideoURL: "https://youtube.com/watch?v=a", Published: true, SortOrder: 1, CreatedAt: now},
		{Title: "Draft", VideoURL: "https://youtube.com/watch?v=c", Published: false, SortOrder: 0},
	})

	videos, err := GetPublished(db)
	require.NoError(t, err)
	// the draft stays out of the public gallery
	require.Len(t, videos, 2)
	// ordered by sort order
	assert.Equal(t, "First", videos[0].Title)
	assert.Equal(t, "Second", videos[1].Title)
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	seedVideos(t, db, []models.Video{
		{Title: "Published", VideoURL: "https://youtube.com/watch?v=a", Published: true, SortOrder: 1},
		{Title: "Draft", VideoURL: "https://youtube.com/watch?v=b", Published: false, SortOrder: 0},
	})

	videos, err := GetAll(db)
	require.NoError(t, err)
	// the admin list sees drafts too
	require.Len(t, videos, 2)
	assert.Equal(t, "Draft", videos[0].Title)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedVideos(t, db, []models.Video{
		{Title: "Hospital Tour", VideoURL: "https://youtube.com/watch?v=abc123"},
	})

	require.NoError(t, Delete(db, 1))
	assert.ErrorIs(t, Delete(db, 1), ErrVideoNotFound)

	_, err := GetByID(db, 1)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
