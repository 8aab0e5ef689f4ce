package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil

	return nil
}

func (s *testStorage) Close() error { return nil }

// setupTestDB creates an in-memory SQLite database with the auth schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Identity{}, &models.Profile{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// newSession writes a session blob for the given identity and returns its ID.
func newSession(t *testing.T, identity models.Identity) string {
	t.Helper()

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{Identity: identity}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

// seedUser provisions an identity + profile pair directly and returns a session ID.
func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role, active bool) (models.Profile, string) {
	t.Helper()

	identity := models.Identity{Email: email, AuthSource: models.AuthSourceLocal}
	require.NoError(t, db.Create(&identity).Error)

	profile := models.Profile{
		IdentityID: identity.ID,
		FullName:   "Test User",
		Email:      email,
		Role:       role,
		Active:     active,
	}
	require.NoError(t, db.Create(&profile).Error)

	return profile, newSession(t, identity)
}

func TestMain(m *testing.M) {
	session.Init(&testStorage{})
	m.Run()
}

func TestResolveRole_NoSession(t *testing.T) {
	svc := NewService(setupTestDB(t))

	assert.Equal(t, models.RoleNone, svc.ResolveRole(""))
	assert.Equal(t, models.RoleNone, svc.ResolveRole("unknown-session-id"))
}

func TestResolveRole_IdentityWithoutProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	identity := models.Identity{Email: "orphan@clinic.example", AuthSource: models.AuthSourceLocal}
	require.NoError(t, db.Create(&identity).Error)

	sessionID := newSession(t, identity)

	assert.Equal(t, models.RoleNone, svc.ResolveRole(sessionID))
}

func TestResolveRole_ResolvesProfileRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, sessionID := seedUser(t, db, "editor@clinic.example", models.RoleEditor, true)

	assert.Equal(t, models.RoleEditor, svc.ResolveRole(sessionID))
}

func TestResolveRole_InactiveProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, sessionID := seedUser(t, db, "gone@clinic.example", models.RoleAdmin, false)

	assert.Equal(t, models.RoleNone, svc.ResolveRole(sessionID))
}

func TestResolveRole_UnrecognizedStoredRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	profile, sessionID := seedUser(t, db, "odd@clinic.example", models.RoleAdmin, true)
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Update("role", "director").Error)

	assert.Equal(t, models.RoleNone, svc.ResolveRole(sessionID))
}

func TestResolveRole_ReResolvedEveryCall(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	profile, sessionID := seedUser(t, db, "demoted@clinic.example", models.RoleAdmin, true)
	require.Equal(t, models.RoleAdmin, svc.ResolveRole(sessionID))

	// A demotion must be visible on the very next resolution, same session.
	require.NoError(t, svc.UpdateRole(profile.ID, models.RoleEditor))
	assert.Equal(t, models.RoleEditor, svc.ResolveRole(sessionID))

	require.NoError(t, svc.SetActive(profile.ID, false))
	assert.Equal(t, models.RoleNone, svc.ResolveRole(sessionID))
}

func TestAssertPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, editorSession := seedUser(t, db, "editor2@clinic.example", models.RoleEditor, true)
	_, superSession := seedUser(t, db, "root@clinic.example", models.RoleSuperAdmin, true)

	testCases := []struct {
		name           string
		sessionID      string
		permission     Permission
		expectAllowed  bool
		expectedRole   models.Role
		expectedReason string
	}{
		{
			name:           "no session",
			sessionID:      "",
			permission:     PermManageSettings,
			expectedReason: ReasonUnauthorized,
		},
		{
			name:           "editor lacks manage_settings",
			sessionID:      editorSession,
			permission:     PermManageSettings,
			expectedRole:   models.RoleEditor,
			expectedReason: ReasonForbidden,
		},
		{
			name:          "editor holds create_blog",
			sessionID:     editorSession,
			permission:    PermCreateBlog,
			expectAllowed: true,
			expectedRole:  models.RoleEditor,
		},
		{
			name:          "super admin holds manage_settings via wildcard",
			sessionID:     superSession,
			permission:    PermManageSettings,
			expectAllowed: true,
			expectedRole:  models.RoleSuperAdmin,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := svc.AssertPermission(tc.sessionID, tc.permission)

			assert.Equal(t, tc.expectAllowed, decision.Allowed)
			assert.Equal(t, tc.expectedRole, decision.Role)
			assert.Equal(t, tc.expectedReason, decision.Reason)
		})
	}
}

func TestCurrentProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	profile, sessionID := seedUser(t, db, "me@clinic.example", models.RoleAdmin, true)

	got := svc.CurrentProfile(sessionID)
	require.NotNil(t, got)
	assert.Equal(t, profile.ID, got.ID)

	assert.Nil(t, svc.CurrentProfile(""))
}
