package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory"
	sessionmysql "github.com/gofiber/storage/mysql"
	sessionpostgres "github.com/gofiber/storage/postgres"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/dsn"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/realtime"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	broker     *realtime.Broker
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDatabase(cfg)

	if err := db.AutoMigrate(
		&models.Identity{},
		&models.Profile{},
		&models.Department{},
		&models.Treatment{},
		&models.BlogPost{},
		&models.Video{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	broker := newBroker(cfg)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, broker),
		broker:     broker,
	}
}

// openDatabase opens the configured gorm backend.
func openDatabase(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		dialector = gormsqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.GormEngine).Msg("failed to connect database")
	}

	return db
}

// sessionStorage picks the fiber session backend matching the db engine.
// The sqlite engine keeps sessions in process memory, which is fine for the
// single-node deployments that engine is meant for.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case "sqlite":
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}

// newBroker creates the change-notification broker. With redis disabled the
// broker still tracks a process-local content version.
func newBroker(cfg *config.Config) *realtime.Broker {
	if !cfg.Redis.Enabled {
		log.Info().Msg("redis disabled: content change notifications stay process-local")

		return realtime.NewBroker(nil)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	broker := realtime.NewBroker(client)

	// keep the local content version in sync with edits from other nodes
	err := broker.Subscribe(context.Background(), func(ev realtime.Event) {
		log.Debug().
			Str("entity", ev.Entity).
			Str("slug", ev.Slug).
			Str("action", ev.Action).
			Int64("version", ev.Version).
			Msg("content changed")
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to content events")
	}

	return broker
}
