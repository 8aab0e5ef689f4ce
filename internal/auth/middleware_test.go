package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

func guardedApp(svc *Service, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/admin/secret", guard, func(c *fiber.Ctx) error {
		role := RoleFromLocals(c)
		return c.SendString(string(role))
	})

	return app
}

func request(t *testing.T, app *fiber.App, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin/secret", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestRequireRole_RedirectsWithoutSession(t *testing.T) {
	svc := NewService(setupTestDB(t))
	app := guardedApp(svc, RequireSuperAdmin(svc))

	resp := request(t, app, "")

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireRole_RedirectsRoleOutsideAllowedSet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := guardedApp(svc, RequireSuperAdmin(svc))

	_, adminSession := seedUser(t, db, "admin@clinic.example", models.RoleAdmin, true)

	resp := request(t, app, adminSession)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireRole_AllowsRoleInSet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := guardedApp(svc, RequireSuperAdmin(svc))

	_, superSession := seedUser(t, db, "root2@clinic.example", models.RoleSuperAdmin, true)

	resp := request(t, app, superSession)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAnyRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := guardedApp(svc, RequireAnyRole(svc))

	_, seoSession := seedUser(t, db, "seo@clinic.example", models.RoleSEOManager, true)

	resp := request(t, app, seoSession)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestRequirePermission_StatusCodes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	app := guardedApp(svc, RequirePermission(svc, PermManageUsers))

	_, editorSession := seedUser(t, db, "editor3@clinic.example", models.RoleEditor, true)
	_, superSession := seedUser(t, db, "root3@clinic.example", models.RoleSuperAdmin, true)

	resp := request(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, editorSession)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, superSession)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
