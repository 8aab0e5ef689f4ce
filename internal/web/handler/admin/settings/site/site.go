// Package site provides the admin form for site-wide settings.
package site

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/setting"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/sitesettings"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the path for the site settings form.
	Path = handler.RootPath + "admin/settings/site"

	// TemplateName is the template for the settings form.
	TemplateName = "admin/settings/site"

	entityName = "settings"
)

// Service serves the site settings form.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	broker    *realtime.Broker
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, broker *realtime.Broker) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.broker = broker
	s.validator = validator.New()

	guard := auth.RequirePermission(authService, auth.PermManageSettings)

	app.Get(Path, guard, s.Get)
	app.Post(Path, guard, s.Post)
}

func nav() *navigation.Context {
	return navigation.NewContext("Site Settings", "settings", "site").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Site Settings", Path, true)
}

// Get shows the current settings. A site that was never configured
// renders an empty form, not an error.
func (s *Service) Get(c *fiber.Ctx) error {
	var settings sitesettings.Settings

	if err := settings.Load(s.db); err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to load site settings")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Navigation": nav(),
			"Error":      "Failed to load site settings",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav(),
		"Settings":   settings,
	}, handler.BaseLayout)
}

// Post validates and persists the settings.
func (s *Service) Post(c *fiber.Ctx) error {
	var in sitesettings.Settings

	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Navigation": nav(),
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Navigation": nav(),
			"Settings":   in,
			"Error":      "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	if err := in.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save site settings")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Navigation": nav(),
			"Settings":   in,
			"Error":      "Failed to save site settings",
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, sitesettings.SettingKeySite, realtime.ActionUpdated)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav(),
		"Settings":   in,
		"Success":    "Site settings saved.",
	}, handler.BaseLayout)
}
