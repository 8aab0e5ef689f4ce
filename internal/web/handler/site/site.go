// Package site renders the public hospital pages. No authentication applies
// here; only published content is shown.
package site

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/blog"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/department"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/setting"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/sitesettings"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/treatment"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/controller/video"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
)

const (
	// DepartmentsPath is the public department directory.
	DepartmentsPath = handler.RootPath + "departments"

	// TreatmentsPath is the public treatment directory.
	TreatmentsPath = handler.RootPath + "treatments"

	// BlogPath is the public blog listing.
	BlogPath = handler.RootPath + "blog"

	// VideosPath is the public video gallery.
	VideosPath = handler.RootPath + "videos"

	// HomeRecentPosts caps the recent posts teaser on the home page.
	HomeRecentPosts = 3
)

// Service renders the public pages.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public site handler.
var Handler = Service{}

// Init registers the public routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.cfg = cfg

	app.Get(handler.RootPath, s.Home)
	app.Get(DepartmentsPath, s.Departments)
	app.Get(DepartmentsPath+"/:slug", s.Department)
	app.Get(TreatmentsPath, s.Treatments)
	app.Get(TreatmentsPath+"/:slug", s.Treatment)
	app.Get(BlogPath, s.Blog)
	app.Get(BlogPath+"/:slug", s.BlogPost)
	app.Get(VideosPath, s.Videos)

	return nil
}

// siteData loads the stored site settings, falling back to defaults.
func (s *Service) siteData() sitesettings.Settings {
	var site sitesettings.Settings

	if err := site.Load(s.db); err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Msg("failed to load site settings")
		}

		site.SiteName = s.cfg.Title
	}

	return site
}

// Home renders the landing page.
func (s *Service) Home(c *fiber.Ctx) error {
	deps, err := department.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load departments")
	}

	posts, err := blog.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load blog posts")
	}

	if len(posts) > HomeRecentPosts {
		posts = posts[:HomeRecentPosts]
	}

	return c.Render("site/home", fiber.Map{
		"Site":        s.siteData(),
		"Departments": deps,
		"RecentPosts": posts,
	}, handler.SiteLayout)
}

// Departments renders the department directory.
func (s *Service) Departments(c *fiber.Ctx) error {
	deps, err := department.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load departments")
		return fiber.ErrInternalServerError
	}

	return c.Render("site/departments", fiber.Map{
		"Site":        s.siteData(),
		"Departments": deps,
	}, handler.SiteLayout)
}

// Department renders a single department page with its treatments.
func (s *Service) Department(c *fiber.Ctx) error {
	dep, err := department.Get(s.db, c.Params("slug"))
	if err != nil || !dep.Published {
		return fiber.ErrNotFound
	}

	treatments, err := treatment.GetByDepartment(s.db, dep.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load department treatments")
	}

	return c.Render("site/department", fiber.Map{
		"Site":       s.siteData(),
		"Department": dep,
		"Treatments": treatments,
	}, handler.SiteLayout)
}

// Treatments renders the treatment directory.
func (s *Service) Treatments(c *fiber.Ctx) error {
	treatments, err := treatment.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load treatments")
		return fiber.ErrInternalServerError
	}

	return c.Render("site/treatments", fiber.Map{
		"Site":       s.siteData(),
		"Treatments": treatments,
	}, handler.SiteLayout)
}

// Treatment renders a single treatment page.
func (s *Service) Treatment(c *fiber.Ctx) error {
	tr, err := treatment.Get(s.db, c.Params("slug"))
	if err != nil || !tr.Published {
		return fiber.ErrNotFound
	}

	return c.Render("site/treatment", fiber.Map{
		"Site":      s.siteData(),
		"Treatment": tr,
	}, handler.SiteLayout)
}

// Blog renders the blog listing.
func (s *Service) Blog(c *fiber.Ctx) error {
	posts, err := blog.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load blog posts")
		return fiber.ErrInternalServerError
	}

	return c.Render("site/blog", fiber.Map{
		"Site":  s.siteData(),
		"Posts": posts,
	}, handler.SiteLayout)
}

// BlogPost renders a single article.
func (s *Service) BlogPost(c *fiber.Ctx) error {
	post, err := blog.Get(s.db, c.Params("slug"))
	if err != nil || !post.Published {
		return fiber.ErrNotFound
	}

	return c.Render("site/blog_post", fiber.Map{
		"Site": s.siteData(),
		"Post": post,
	}, handler.SiteLayout)
}

// Videos renders the video gallery.
func (s *Service) Videos(c *fiber.Ctx) error {
	videos, err := video.GetPublished(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load videos")
		return fiber.ErrInternalServerError
	}

	return c.Render("site/videos", fiber.Map{
		"Site":   s.siteData(),
		"Videos": videos,
	}, handler.SiteLayout)
}
