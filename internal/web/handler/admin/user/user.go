// Package user provides handlers for provisioning admin users (CRUD).
package user

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/profile"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/user"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"
)

// Service provides CRUD operations for admin users.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.List,
	)
	app.Get(Path+"/new",
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.New,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.Create,
	)
	app.Get(Path+"/:id/edit",
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.Edit,
	)
	app.Post(Path+"/:id",
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.Update,
	)
	app.Post(Path+"/:id/delete",
		auth.RequirePermission(authService, auth.PermManageUsers),
		s.Delete,
	)
}

// listNav builds the navigation context for the list page.
func listNav() *navigation.Context {
	return navigation.NewContext("Users", "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, true)
}

// List shows all profiles.
func (s *Service) List(c *fiber.Ctx) error {
	profiles, err := profile.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load profiles")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load users",
		}, handler.BaseLayout)
	}

	// current profile to block self-deletion in the template
	var currentProfileID uint64

	if current := s.authService.CurrentProfile(c.Cookies("session")); current != nil {
		currentProfileID = current.ID
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation":       listNav(),
		"Profiles":         profiles,
		"CurrentProfileID": currentProfileID,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New User", "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Profile":    models.Profile{Active: true},
		"IsCreate":   true,
		"Roles":      models.AllRoles(),
	}, handler.BaseLayout)
}

type formInput struct {
	Email    string `form:"email"     validate:"required,email,max=255"`
	FullName string `form:"full_name" validate:"required,max=150"`
	Role     string `form:"role"      validate:"required"`
	Source   string `form:"source"    validate:"required,oneof=local oidc ldap"`
	Password string `form:"password"`
	Active   bool   `form:"active"`
}

// Create provisions a new identity/profile pair.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput

	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if in.Source != string(models.AuthSourceLocal) {
		in.Password = "" // ignore for non-local
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	_, err := s.authService.ProvisionUser(auth.ProvisionInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Role:     models.Role(in.Role),
		Active:   in.Active,
		Source:   models.AuthSource(in.Source),
	})
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("failed to provision user")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create user: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Edit shows the edit form for a profile.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	p, err := profile.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	nav := navigation.NewContext("Edit User", "admin", "user").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Profile":    p,
		"IsCreate":   false,
		"Roles":      models.AllRoles(),
	}, handler.BaseLayout)
}

// Update changes role, activity and display name of a profile.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in struct {
		FullName string `form:"full_name" validate:"required,max=150"`
		Role     string `form:"role"      validate:"required"`
		Active   bool   `form:"active"`
	}

	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	profileID := uint64(id)

	if err := s.authService.UpdateRole(profileID, models.Role(in.Role)); err != nil {
		log.Error().Err(err).Uint64("profile_id", profileID).Msg("failed to update role")

		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update user: " + err.Error(),
		}, handler.BaseLayout)
	}

	if err := s.authService.SetActive(profileID, in.Active); err != nil {
		log.Error().Err(err).Uint64("profile_id", profileID).Msg("failed to update active flag")

		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update user: " + err.Error(),
		}, handler.BaseLayout)
	}

	if err := profile.UpdateFullName(s.db, profileID, in.FullName); err != nil {
		log.Error().Err(err).Uint64("profile_id", profileID).Msg("failed to update name")
	}

	return c.Redirect(Path)
}

// Delete deprovisions a profile and its identity.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	// a user must not delete their own account
	if current := s.authService.CurrentProfile(c.Cookies("session")); current != nil && current.ID == uint64(id) {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "You cannot delete your own account.",
		}, handler.BaseLayout)
	}

	if err := s.authService.DeprovisionUser(uint64(id)); err != nil {
		log.Error().Err(err).Int("profile_id", id).Msg("failed to deprovision user")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete user: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}
