package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/login"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

// AuthMiddleware gates the admin area behind a signed-in session.
// Public site pages pass through untouched, the role checks for the admin
// pages themselves happen in the per-route guards.
func AuthMiddleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = IsLoginPage(c)
		sessDataValid bool
	)

	path := strings.ToLower(c.Path())

	// check session validity
	sessData := new(session.Data)
	_ = sessData.Read(c.Cookies("session"))

	if sessData.Identity.ID > 0 {
		sessDataValid = true
	}

	// a signed-in user has no business on the login page
	if sessDataValid && isLoginPage {
		return c.Redirect(dashboard.Path)
	}

	if !isAdminArea(path) {
		return c.Next()
	}

	if !sessDataValid {
		return c.Redirect(login.Path)
	}

	return c.Next()
}

// isAdminArea reports whether the path belongs to the signed-in admin area.
func isAdminArea(path string) bool {
	return strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, dashboard.Path)
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), login.Path)
}
