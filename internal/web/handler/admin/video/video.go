// Package video provides the admin CRUD for the video gallery.
//
// Like the blog handler, mutations are checked per operation: editors may
// add and edit videos without holding the full manage grant.
package video

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	videoctl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/video"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the base path for video management.
	Path = handler.RootPath + "admin/video"

	// TemplateList is the template for listing videos.
	TemplateList = "admin/video/list"
	// TemplateForm is the template for creating/updating a video.
	TemplateForm = "admin/video/form"

	entityName = "video"
)

// Service provides CRUD operations for gallery videos.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	broker      *realtime.Broker
	validator   *validator.Validate
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
	s.authService = authService
	s.broker = broker
	s.validator = validator.New()

	guard := auth.RequireAnyRole(authService)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

func listNav() *navigation.Context {
	return navigation.NewContext("Videos", "content", "video").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Videos", Path, true)
}

type formInput struct {
	Title        string `form:"title"         validate:"required,max=200"`
	VideoURL     string `form:"video_url"     validate:"required,url,max=500"`
	ThumbnailURL string `form:"thumbnail_url" validate:"omitempty,url,max=500"`
	Description  string `form:"description"   validate:"max=500"`
	Published    bool   `form:"published"`
	SortOrder    int    `form:"sort_order"`
}

func (s *Service) renderForbidden(c *fiber.Ctx, decision auth.Decision) error {
	return c.Status(fiber.StatusForbidden).Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Error":      decision.Reason,
	}, handler.BaseLayout)
}

// List shows all videos.
func (s *Service) List(c *fiber.Ctx) error {
	videos, err := videoctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load videos")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load videos",
		}, handler.BaseLayout)
	}

	role := auth.RoleFromLocals(c)

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Videos":     videos,
		"CanCreate":  auth.HasPermission(role, auth.PermCreateVideo),
		"CanDelete":  auth.HasPermission(role, auth.PermManageVideos),
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Video", "content", "video").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Videos", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Video":      models.Video{},
		"IsCreate":   true,
	}, handler.BaseLayout)
}

// Create adds a video to the gallery.
func (s *Service) Create(c *fiber.Ctx) error {
	decision := s.authService.AssertPermission(c.Cookies("session"), auth.PermCreateVideo)
	if !decision.Allowed {
		return s.renderForbidden(c, decision)
	}

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

	vid := models.Video{
		Title:        in.Title,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Description:  in.Description,
		Published:    in.Published,
		SortOrder:    in.SortOrder,
	}

	if err := videoctl.Create(s.db, &vid); err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("failed to create video")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create video: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, strconv.FormatUint(vid.ID, 10), realtime.ActionCreated)

	return c.Redirect(Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	vid, err := videoctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	nav := navigation.NewContext("Edit Video", "content", "video").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Videos", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Video":      vid,
		"IsCreate":   false,
	}, handler.BaseLayout)
}

// Update updates a video.
func (s *Service) Update(c *fiber.Ctx) error {
	decision := s.authService.AssertPermission(c.Cookies("session"), auth.PermEditVideo)
	if !decision.Allowed {
		return s.renderForbidden(c, decision)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

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

	vid, err := videoctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	vid.Title = in.Title
	vid.VideoURL = in.VideoURL
	vid.ThumbnailURL = in.ThumbnailURL
	vid.Description = in.Description
	vid.Published = in.Published
	vid.SortOrder = in.SortOrder

	if err := videoctl.Update(s.db, vid); err != nil {
		log.Error().Err(err).Uint64("video_id", vid.ID).Msg("failed to update video")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to update video: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, strconv.FormatUint(vid.ID, 10), realtime.ActionUpdated)

	return c.Redirect(Path)
}

// Delete removes a video. Only roles holding manage_videos may delete.
func (s *Service) Delete(c *fiber.Ctx) error {
	decision := s.authService.AssertPermission(c.Cookies("session"), auth.PermManageVideos)
	if !decision.Allowed {
		return s.renderForbidden(c, decision)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	vid, err := videoctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	if err := videoctl.Delete(s.db, vid.ID); err != nil {
		log.Error().Err(err).Uint64("video_id", vid.ID).Msg("failed to delete video")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete video: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, strconv.FormatUint(vid.ID, 10), realtime.ActionDeleted)

	return c.Redirect(Path)
}
