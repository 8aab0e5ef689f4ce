// Package department provides the admin CRUD for hospital departments.
package department

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	deptctl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/department"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the base path for department management.
	Path = handler.RootPath + "admin/department"

	// TemplateList is the template for listing departments.
	TemplateList = "admin/department/list"
	// TemplateForm is the template for creating/updating a department.
	TemplateForm = "admin/department/form"

	entityName = "department"
)

// Service provides CRUD operations for departments.
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

	guard := auth.RequirePermission(authService, auth.PermManageDepartments)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Departments", "content", "department").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Departments", Path, true)
}

type formInput struct {
	Slug           string `form:"slug"            validate:"required,max=150"`
	Name           string `form:"name"            validate:"required,max=150"`
	Summary        string `form:"summary"         validate:"max=500"`
	Body           string `form:"body"`
	SEOTitle       string `form:"seo_title"       validate:"max=200"`
	SEODescription string `form:"seo_description" validate:"max=300"`
	Published      bool   `form:"published"`
	SortOrder      int    `form:"sort_order"`
}

// List shows all departments.
func (s *Service) List(c *fiber.Ctx) error {
	deps, err := deptctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load departments")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load departments",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation":  listNav(),
		"Departments": deps,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Department", "content", "department").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Departments", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Department": models.Department{},
		"IsCreate":   true,
	}, handler.BaseLayout)
}

// Create creates a new department.
func (s *Service) Create(c *fiber.Ctx) error {
	var in formInput

	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	dep := models.Department{
		Slug:           in.Slug,
		Name:           in.Name,
		Summary:        in.Summary,
		Body:           in.Body,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Published:      in.Published,
		SortOrder:      in.SortOrder,
	}

	if err := deptctl.Create(s.db, &dep); err != nil {
		log.Error().Err(err).Str("slug", in.Slug).Msg("failed to create department")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create department: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, dep.Slug, realtime.ActionCreated)

	return c.Redirect(Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	dep, err := deptctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	nav := navigation.NewContext("Edit Department", "content", "department").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Departments", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Department": dep,
		"IsCreate":   false,
	}, handler.BaseLayout)
}

// Update updates a department.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in formInput

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

	dep, err := deptctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	dep.Slug = in.Slug
	dep.Name = in.Name
	dep.Summary = in.Summary
	dep.Body = in.Body
	dep.SEOTitle = in.SEOTitle
	dep.SEODescription = in.SEODescription
	dep.Published = in.Published
	dep.SortOrder = in.SortOrder

	if err := deptctl.Update(s.db, dep); err != nil {
		log.Error().Err(err).Uint64("department_id", dep.ID).Msg("failed to update department")

		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update department: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, dep.Slug, realtime.ActionUpdated)

	return c.Redirect(Path)
}

// Delete removes a department.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	dep, err := deptctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	if err := deptctl.Delete(s.db, dep.ID); err != nil {
		log.Error().Err(err).Uint64("department_id", dep.ID).Msg("failed to delete department")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete department: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, dep.Slug, realtime.ActionDeleted)

	return c.Redirect(Path)
}
