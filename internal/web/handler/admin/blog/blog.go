// Package blog provides the admin CRUD for blog posts.
//
// Unlike the department and treatment handlers, which gate every route on a
// single manage permission, blog mutations are checked per operation so that
// editors can write posts and the SEO manager can touch metadata without
// either holding the full manage grant.
package blog

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	blogctl "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/blog"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the base path for blog management.
	Path = handler.RootPath + "admin/blog"

	// TemplateList is the template for listing posts.
	TemplateList = "admin/blog/list"
	// TemplateForm is the template for creating/updating a post.
	TemplateForm = "admin/blog/form"

	entityName = "blog"
)

// Service provides CRUD operations for blog posts.
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

// Init registers routes. Read routes only require a signed-in role, the
// per-operation permission check happens inside each mutation.
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
	return navigation.NewContext("Blog", "content", "blog").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Blog", Path, true)
}

type formInput struct {
	Slug           string `form:"slug"            validate:"required,max=200"`
	Title          string `form:"title"           validate:"required,max=200"`
	Excerpt        string `form:"excerpt"         validate:"max=500"`
	Body           string `form:"body"`
	CoverImageURL  string `form:"cover_image_url" validate:"omitempty,url,max=500"`
	SEOTitle       string `form:"seo_title"       validate:"max=200"`
	SEODescription string `form:"seo_description" validate:"max=300"`
	Published      bool   `form:"published"`
}

func (s *Service) renderForbidden(c *fiber.Ctx, decision auth.Decision) error {
	return c.Status(fiber.StatusForbidden).Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Error":      decision.Reason,
	}, handler.BaseLayout)
}

// List shows all posts, drafts included.
func (s *Service) List(c *fiber.Ctx) error {
	posts, err := blogctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load blog posts")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to load blog posts",
		}, handler.BaseLayout)
	}

	role := auth.RoleFromLocals(c)

	return c.Render(TemplateList, fiber.Map{
		"Navigation": listNav(),
		"Posts":      posts,
		"CanCreate":  auth.HasPermission(role, auth.PermCreateBlog),
		"CanDelete":  auth.HasPermission(role, auth.PermManageBlogs),
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Post", "content", "blog").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Blog", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Post":       models.BlogPost{},
		"IsCreate":   true,
	}, handler.BaseLayout)
}

// Create creates a new post. The author is stamped from the caller's profile.
func (s *Service) Create(c *fiber.Ctx) error {
	decision := s.authService.AssertPermission(c.Cookies("session"), auth.PermCreateBlog)
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

	post := models.BlogPost{
		Slug:           in.Slug,
		Title:          in.Title,
		Excerpt:        in.Excerpt,
		Body:           in.Body,
		CoverImageURL:  in.CoverImageURL,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Published:      in.Published,
	}

	if author := s.authService.CurrentProfile(c.Cookies("session")); author != nil {
		post.AuthorProfileID = author.ID
	}

	if err := blogctl.Create(s.db, &post); err != nil {
		log.Error().Err(err).Str("slug", in.Slug).Msg("failed to create blog post")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to create post: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, post.Slug, realtime.ActionCreated)

	return c.Redirect(Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	post, err := blogctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	role := auth.RoleFromLocals(c)

	nav := navigation.NewContext("Edit Post", "content", "blog").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Blog", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Post":       post,
		"IsCreate":   false,
		// The SEO manager gets the same form with the content fields locked.
		"SEOOnly": !auth.HasPermission(role, auth.PermEditBlog) &&
			auth.HasPermission(role, auth.PermEditSEO),
	}, handler.BaseLayout)
}

// Update updates a post. Callers holding edit_blog may change everything,
// callers holding only edit_seo may change SEO metadata and nothing else.
func (s *Service) Update(c *fiber.Ctx) error {
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

	post, err := blogctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	sessionID := c.Cookies("session")

	decision := s.authService.AssertPermission(sessionID, auth.PermEditBlog)
	switch {
	case decision.Allowed:
		if err := s.validator.Struct(in); err != nil {
			return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
				"Navigation": listNav(),
				"Error":      "Please correct the highlighted errors",
			}, handler.BaseLayout)
		}

		post.Slug = in.Slug
		post.Title = in.Title
		post.Excerpt = in.Excerpt
		post.Body = in.Body
		post.CoverImageURL = in.CoverImageURL
		post.SEOTitle = in.SEOTitle
		post.SEODescription = in.SEODescription
		post.Published = in.Published
	default:
		seoDecision := s.authService.AssertPermission(sessionID, auth.PermEditSEO)
		if !seoDecision.Allowed {
			return s.renderForbidden(c, decision)
		}

		// the metadata-only path still enforces the field limits
		if err := s.validator.StructPartial(in, "SEOTitle", "SEODescription"); err != nil {
			return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
				"Navigation": listNav(),
				"Error":      "Please correct the highlighted errors",
			}, handler.BaseLayout)
		}

		post.SEOTitle = in.SEOTitle
		post.SEODescription = in.SEODescription
	}

	if err := blogctl.Update(s.db, post); err != nil {
		log.Error().Err(err).Uint64("post_id", post.ID).Msg("failed to update blog post")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to update post: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, post.Slug, realtime.ActionUpdated)

	return c.Redirect(Path)
}

// Delete removes a post. Only roles holding manage_blogs may delete.
func (s *Service) Delete(c *fiber.Ctx) error {
	decision := s.authService.AssertPermission(c.Cookies("session"), auth.PermManageBlogs)
	if !decision.Allowed {
		return s.renderForbidden(c, decision)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	post, err := blogctl.GetByID(s.db, uint64(id))
	if err != nil {
		return c.Redirect(Path)
	}

	if err := blogctl.Delete(s.db, post.ID); err != nil {
		log.Error().Err(err).Uint64("post_id", post.ID).Msg("failed to delete blog post")

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": listNav(),
			"Error":      "Failed to delete post: " + err.Error(),
		}, handler.BaseLayout)
	}

	s.broker.Publish(c.UserContext(), entityName, post.Slug, realtime.ActionDeleted)

	return c.Redirect(Path)
}
