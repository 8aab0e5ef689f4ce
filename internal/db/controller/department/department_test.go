package department

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

	err = db.AutoMigrate(&models.Department{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedDepartments inserts test data into the database.
func seedDepartments(t *testing.T, db *gorm.DB, deps []models.Department) {
	t.Helper()
	for _, dep := range deps {
		err := db.Create(&dep).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		slug          string
		seedData      []models.Department
		expectedError error
		expectedName  string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			slug:          "cardiology",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty slug",
			dbParam:       db,
			slug:          "",
			expectedError: ErrSlugEmpty,
		},
		{
			name:          "not found",
			dbParam:       db,
			slug:          "no-such-department",
			expectedError: ErrDepartmentNotFound,
		},
		{
			name:    "found",
			dbParam: db,
			slug:    "cardiology",
			seedData: []models.Department{
				{Slug: "cardiology", Name: "Cardiology", Published: true},
			},
			expectedName: "Cardiology",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seedDepartments(t, db, tc.seedData)

			dep, err := Get(tc.dbParam, tc.slug)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, dep.Name)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	err := Create(db, &models.Department{Slug: "oncology", Name: "Oncology"})
	require.NoError(t, err)

	// duplicate slug rejected
	err = Create(db, &models.Department{Slug: "oncology", Name: "Oncology 2"})
	assert.ErrorIs(t, err, ErrSlugAlreadyExists)

	// missing fields rejected
	assert.ErrorIs(t, Create(db, &models.Department{Name: "No Slug"}), ErrSlugEmpty)
	assert.ErrorIs(t, Create(db, &models.Department{Slug: "no-name"}), ErrNameEmpty)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	seedDepartments(t, db, []models.Department{
		{Slug: "cardiology", Name: "Cardiology"},
		{Slug: "oncology", Name: "Oncology"},
	})

	dep, err := Get(db, "cardiology")
	require.NoError(t, err)

	// rename keeps slug free check out of the way
	dep.Name = "Cardiology and Vascular"
	require.NoError(t, Update(db, dep))

	got, err := Get(db, "cardiology")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology and Vascular", got.Name)

	// slug collision on update rejected
	dep.Slug = "oncology"
	assert.ErrorIs(t, Update(db, dep), ErrSlugAlreadyExists)

	// unknown id
	err = Update(db, &models.Department{ID: 9999, Slug: "x", Name: "X"})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestGetPublished(t *testing.T) {
	db := setupTestDB(t)

	seedDepartments(t, db, []models.Department{
		{Slug: "cardiology", Name: "Cardiology", Published: true, SortOrder: 2},
		{Slug: "oncology", Name: "Oncology", Published: true, SortOrder: 1},
		{Slug: "draft", Name: "Draft", Published: false},
	})

	deps, err := GetPublished(db)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	// ordered by sort order
	assert.Equal(t, "oncology", deps[0].Slug)
	assert.Equal(t, "cardiology", deps[1].Slug)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedDepartments(t, db, []models.Department{
		{Slug: "cardiology", Name: "Cardiology"},
	})

	dep, err := Get(db, "cardiology")
	require.NoError(t, err)

	require.NoError(t, Delete(db, dep.ID))
	assert.ErrorIs(t, Delete(db, dep.ID), ErrDepartmentNotFound)

	_, err = Get(db, "cardiology")
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}
