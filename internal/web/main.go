package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	adapterfiber "github.com/MediCMS-Admin/MediCMS-Admin/internal/logger/adapter/fiber"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	adminblog "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/blog"
	admindepartment "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/department"
	adminsite "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/settings/site"
	admintreatment "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/treatment"
	adminuser "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/user"
	adminvideo "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/admin/video"
	oidchandler "github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/auth/oidc"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/dashboard"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/login"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/logout"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler/site"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	broker       *realtime.Broker
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, broker *realtime.Broker) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "MediCMS-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// http access logging
	app.Use(adapterfiber.New(adapterfiber.Config{
		Config: cfg.Log,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// session middleware for the admin area
	app.Use(AuthMiddleware)

	// Initialize auth service
	authService := auth.NewService(db)

	// Expose the resolved role to templates (after auth)
	app.Use(auth.AddRoleToLocals(authService))

	// Content version header for downstream caches on public pages
	app.Use(contentVersionHeader(broker))

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
		broker:      broker,
	}

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	oidchandler.Handler.Init(app, cfg, db)
	logout.Handler.Init(app, cfg)
	dashboard.Handler.Init(app, cfg, db, authService)
	adminuser.Handler.Init(app, cfg, db, authService)
	admindepartment.Handler.Init(app, cfg, db, authService, broker)
	admintreatment.Handler.Init(app, cfg, db, authService, broker)
	adminblog.Handler.Init(app, cfg, db, authService, broker)
	adminvideo.Handler.Init(app, cfg, db, authService, broker)
	adminsite.Handler.Init(app, cfg, db, authService, broker)

	// public site last, it owns the root path
	if err := site.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init site handler")
	}

	return service
}

// contentVersionHeader stamps every public response with the current content
// version so downstream caches can revalidate after an admin edit.
func contentVersionHeader(broker *realtime.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if broker != nil && !isAdminArea(c.Path()) {
			c.Set("X-Content-Version", strconv.FormatInt(broker.CurrentVersion(), 10))
		}

		return c.Next()
	}
}
