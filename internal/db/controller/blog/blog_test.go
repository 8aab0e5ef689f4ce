package blog

import (
	"testing"

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

	err = db.AutoMigrate(&models.BlogPost{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		post          models.BlogPost
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			post:          models.BlogPost{Slug: "a", Title: "A"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty slug",
			dbParam:       db,
			post:          models.BlogPost{Title: "A"},
			expectedError: ErrSlugEmpty,
		},
		{
			name:          "empty title",
			dbParam:       db,
			post:          models.BlogPost{Slug: "a"},
			expectedError: ErrTitleEmpty,
		},
		{
			name:    "valid draft",
			dbParam: db,
			post:    models.BlogPost{Slug: "flu-season", Title: "Flu Season Tips"},
		},
		{
			name:          "duplicate slug",
			dbParam:       db,
			post:          models.BlogPost{Slug: "flu-season", Title: "Another"},
			expectedError: ErrSlugAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Create(tc.dbParam, &tc.post)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateStampsPublishedAt(t *testing.T) {
	db := setupTestDB(t)

	post := models.BlogPost{Slug: "opening", Title: "New Wing Opening", Published: true}
	require.NoError(t, Create(db, &post))
	require.NotNil(t, post.PublishedAt)

	draft := models.BlogPost{Slug: "draft", Title: "Draft"}
	require.NoError(t, Create(db, &draft))
	assert.Nil(t, draft.PublishedAt)
}

func TestUpdatePublishStampsOnce(t *testing.T) {
	db := setupTestDB(t)

	post := models.BlogPost{Slug: "checkup", Title: "Annual Checkups"}
	require.NoError(t, Create(db, &post))
	require.Nil(t, post.PublishedAt)

	// publish
	post.Published = true
	require.NoError(t, Update(db, &post))
	require.NotNil(t, post.PublishedAt)
	first := *post.PublishedAt

	// editing a published post keeps the original publish time
	post.Title = "Annual Checkups Matter"
	require.NoError(t, Update(db, &post))
	assert.Equal(t, first, *post.PublishedAt)
}

func TestGetPublished(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.BlogPost{Slug: "one", Title: "One", Published: true}))
	require.NoError(t, Create(db, &models.BlogPost{Slug: "two", Title: "Two", Published: true}))
	require.NoError(t, Create(db, &models.BlogPost{Slug: "draft", Title: "Draft"}))

	posts, err := GetPublished(db)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetAndDelete(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.BlogPost{Slug: "one", Title: "One"}))

	post, err := Get(db, "one")
	require.NoError(t, err)
	assert.Equal(t, "One", post.Title)

	_, err = Get(db, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, Delete(db, post.ID))
	assert.ErrorIs(t, Delete(db, post.ID), ErrPostNotFound)
}
