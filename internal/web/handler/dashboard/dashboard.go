// Package dashboard renders the admin landing page with content statistics.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// RecentPostsLimit caps the recent posts list on the dashboard.
	RecentPostsLimit = 5
)

// ContentStats summarizes the published/total state of one content type.
type ContentStats struct {
	Total     int64
	Published int64
}

// Data represents the complete dashboard data.
type Data struct {
	Departments ContentStats
	Treatments  ContentStats
	BlogPosts   ContentStats
	Videos      ContentStats
	RecentPosts []models.BlogPost
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// any resolved role may see the dashboard
	app.Get(Path,
		auth.RequireAnyRole(authService),
		s.Get,
	)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	data := Data{
		Departments: s.countStats(&models.Department{}),
		Treatments:  s.countStats(&models.Treatment{}),
		BlogPosts:   s.countStats(&models.BlogPost{}),
		Videos:      s.countStats(&models.Video{}),
	}

	if err := s.db.Order("created_at desc").Limit(RecentPostsLimit).Find(&data.RecentPosts).Error; err != nil {
		log.Error().Err(err).Msg("failed to load recent posts")
	}

	log.Debug().
		Int64("departments", data.Departments.Total).
		Int64("treatments", data.Treatments.Total).
		Int64("blog_posts", data.BlogPosts.Total).
		Int64("videos", data.Videos.Total).
		Msg("dashboard stats retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
		"Role":       auth.RoleFromLocals(c),
	}, handler.BaseLayout)
}

// countStats counts total and published rows of one model.
func (s *Service) countStats(model interface{}) ContentStats {
	var stats ContentStats

	if err := s.db.Model(model).Count(&stats.Total).Error; err != nil {
		log.Error().Err(err).Msg("failed to count rows")
		return stats
	}

	if err := s.db.Model(model).Where("published = ?", true).Count(&stats.Published).Error; err != nil {
		log.Error().Err(err).Msg("failed to count published rows")
	}

	return stats
}
