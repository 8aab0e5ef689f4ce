// Package treatment provides the admin CRUD for treatment pages.
package treatment

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	deptctl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/department"
	treatctl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/treatment"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the base path for treatment management.
	Path = handler.RootPath + "admin/treatment"

	// TemplateList is the template for listing treatments.
	TemplateList = "admin/treatment/list"
	// TemplateForm is the template for creating/updating a treatment.
	TemplateForm = "admin/treatment/form"

	entityName = "treatment"
)

// Service provides CRUD operations for treatments.
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

	guard := auth.RequirePermission(authService, auth.PermManageTreatments)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Treatments", "content", "treatment").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Treatments", Path, true)
}

type formInput struct {
	Slug           string `form:"slug"            validate:"required,max=150"`
	Name           string `form:"name"            validate:"required,max=150"`
	Summary        string `form:"summary"         validate:"max=500"`
	Body           string `form:"body"`
	DepartmentID   uint64 `form:"department_id"`
	SEOTitle       string `form:"seo_title"       validate:"max=200"`
	SEODescription string `form:"seo_description" validate:"max=300"`
	Published      bool   `form:"published"`
}

// departmentRef converts the submitted department id to a nullable FK,
// zero meaning unassigned.
func (in formInput) departmentRef() *uint64 {
	if in.DepartmentID == 0 {
		return nil
	}

	return &in.DepartmentID
}

// List shows all treatments.
func (s *Service) List(c *fiber.Ctx) error {
	treatments, err := treatctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load treatments")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load treatments",
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Treatments": treatments,
	}, handler.BaseLayout)
}

// formData collects common data for the form template.
func (s *Service) formData(nav *navigation.Context, tr interface{}, isCreate bool) fiber.Map {
	deps, err := deptctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load departments for form")
	}

	return fiber.Map{
		"Navigation":  nav,
		"Treatment":   tr,
		"IsCreate":    isCreate,
		"Departments": deps,
	}
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Treatment", "content", "treatment").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Treatments", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, s.formData(nav, models.Treatment{}, true), handler.BaseLayout)
}

// Create creates a new treatment.
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

	tr := models.Treatment{
		Slug:           in.Slug,
		Name:           in.Name,
		Summary:        in.Summary,
		Body:           in.Body,
		DepartmentID:   in.departmentRef(),
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Published:      in.Published,
	}

	if err := treatctl.Create(s.db, &tr); err != nil {
		log.Error().Err(err).Str("slug", in.Slug).Msg("failed to create treatment")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create treatment: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, tr.Slug, realtime.ActionCreated)

	return c.Redirect(Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	tr, err := treatctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	nav := navigation.NewContext("Edit Treatment", "content", "treatment").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Treatments", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, s.formData(nav, tr, false), handler.BaseLayout)
}

// Update updates a treatment.
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

	tr, err := treatctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	tr.Slug = in.Slug
	tr.Name = in.Name
	tr.Summary = in.Summary
	tr.Body = in.Body
	tr.DepartmentID = in.departmentRef()
	tr.SEOTitle = in.SEOTitle
	tr.SEODescription = in.SEODescription
	tr.Published = in.Published

	if err := treatctl.Update(s.db, tr); err != nil {
		log.Error().Err(err).Uint64("treatment_id", tr.ID).Msg("failed to update treatment")

		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update treatment: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, tr.Slug, realtime.ActionUpdated)

	return c.Redirect(Path)
}

// Delete removes a treatment.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	tr, err := treatctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	if err := treatctl.Delete(s.db, tr.ID); err != nil {
		log.Error().Err(err).Uint64("treatment_id", tr.ID).Msg("failed to delete treatment")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete treatment: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, tr.Slug, realtime.ActionDeleted)

	return c.Redirect(Path)
}
