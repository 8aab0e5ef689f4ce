package user

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	profilectl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/profile"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	websess "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["Error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

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

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Identity{}, &models.Profile{}))

	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	cfg := &config.Config{Webserver: config.Webserver{Session: config.Session{ExpiryTime: time.Minute}}}
	authService := auth.NewService(db)

	var s Service
	s.Init(app, cfg, db, authService)

	return app, db
}

// signIn provisions a user with the given role and returns the session cookie
// plus the created profile.
func signIn(t *testing.T, db *gorm.DB, email string, role models.Role) (*http.Cookie, *models.Profile) {
	t.Helper()

	svc := auth.NewService(db)
	profile, err := svc.ProvisionUser(auth.ProvisionInput{
		Email:    email,
		Password: "secret",
		FullName: "Test User",
		Role:     role,
		Active:   true,
		Source:   models.AuthSourceLocal,
	})
	require.NoError(t, err)

	var identity models.Identity
	require.NoError(t, db.First(&identity, profile.IdentityID).Error)

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	sessData := websess.Data{Identity: identity}
	require.NoError(t, sessData.Write(sessionID, time.Minute))

	return &http.Cookie{Name: "session", Value: sessionID}, profile
}

func postForm(t *testing.T, app *fiber.App, cookie *http.Cookie, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestCreate_SuperAdminProvisionsUser(t *testing.T) {
	app, db := setupTestApp(t)
	cookie, _ := signIn(t, db, "root@hospital.example", models.RoleSuperAdmin)

	form := url.Values{
		"email":     {"new.editor@hospital.example"},
		"full_name": {"New Editor"},
		"role":      {string(models.RoleEditor)},
		"source":    {"local"},
		"password":  {"initialpass"},
		"active":    {"true"},
	}
	resp := postForm(t, app, cookie, Path, form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var p models.Profile
	require.NoError(t, db.Where("email = ?", "new.editor@hospital.example").First(&p).Error)
	assert.Equal(t, models.RoleEditor, p.Role)
	assert.True(t, p.Active)
}

func TestCreate_AdminLacksManageUsers(t *testing.T) {
	app, db := setupTestApp(t)
	cookie, _ := signIn(t, db, "admin@hospital.example", models.RoleAdmin)

	form := url.Values{
		"email":     {"sneaky@hospital.example"},
		"full_name": {"Sneaky"},
		"role":      {string(models.RoleSuperAdmin)},
		"source":    {"local"},
		"password":  {"x"},
	}
	resp := postForm(t, app, cookie, Path, form)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreate_NoSessionUnauthorized(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDelete_BlocksSelfDeletion(t *testing.T) {
	app, db := setupTestApp(t)
	cookie, me := signIn(t, db, "root@hospital.example", models.RoleSuperAdmin)

	resp := postForm(t, app, cookie, Path+"/"+strconv.FormatUint(me.ID, 10)+"/delete", url.Values{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "cannot delete your own account")

	// still provisioned
	_, err := profilectl.GetByID(db, me.ID)
	require.NoError(t, err)
}

func TestDelete_RemovesOtherUser(t *testing.T) {
	app, db := setupTestApp(t)
	cookie, _ := signIn(t, db, "root@hospital.example", models.RoleSuperAdmin)

	svc := auth.NewService(db)
	victim, err := svc.ProvisionUser(auth.ProvisionInput{
		Email:    "leaver@hospital.example",
		Password: "secret",
		FullName: "Leaver",
		Role:     models.RoleEditor,
		Active:   true,
		Source:   models.AuthSourceLocal,
	})
	require.NoError(t, err)

	resp := postForm(t, app, cookie, Path+"/"+strconv.FormatUint(victim.ID, 10)+"/delete", url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, err = profilectl.GetByID(db, victim.ID)
	assert.ErrorIs(t, err, profilectl.ErrProfileNotFound)

	// the identity must be gone too, or the account could still sign in
	var count int64
	db.Model(&models.Identity{}).Where("email = ?", "leaver@hospital.example").Count(&count)
	assert.Zero(t, count)
}

func TestUpdate_ChangesRoleAndActive(t *testing.T) {
	app, db := setupTestApp(t)
	cookie, _ := signIn(t, db, "root@hospital.example", models.RoleSuperAdmin)

	svc := auth.NewService(db)
	target, err := svc.ProvisionUser(auth.ProvisionInput{
		Email:    "promote@hospital.example",
		Password: "secret",
		FullName: "Promote Me",
		Role:     models.RoleEditor,
		Active:   true,
		Source:   models.AuthSourceLocal,
	})
	require.NoError(t, err)

	form := url.Values{
		"email":     {"promote@hospital.example"},
		"full_name": {"Promoted"},
		"role":      {string(models.RoleAdmin)},
		"source":    {"local"},
	}
	resp := postForm(t, app, cookie, Path+"/"+strconv.FormatUint(target.ID, 10), form)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	got, err := profilectl.GetByID(db, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, "Promoted", got.FullName)
	assert.False(t, got.Active)
}
