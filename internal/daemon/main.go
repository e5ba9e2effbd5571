// Package daemon assembles the database, the session store, the image disk,
// the caches and the web service from the configuration.
package daemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/cache"
	"github.com/ecc24clmk/clmk-site/internal/config"
	"github.com/ecc24clmk/clmk-site/internal/db/dsn"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/homepage"
	"github.com/ecc24clmk/clmk-site/internal/logger/adapter/stdlogger"
	"github.com/ecc24clmk/clmk-site/internal/settings"
	"github.com/ecc24clmk/clmk-site/internal/storage"
	"github.com/ecc24clmk/clmk-site/internal/web"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

const sessionTable = "sessions"

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	deps       *handler.Deps
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until it is shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration. The
// schema is migrated and the initial data seeded before it returns.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	ctx := context.Background()

	sessionStorage, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(session.Config{
		Storage:    sessionStorage,
		Expiration: cfg.Webserver.Session.ExpiryTime,
		Secure:     !cfg.DevMode,
	})

	disk, err := newDisk(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	c, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	assets := asset.NewManager(disk, cfg.Storage.MaxImageWidth)
	settingsService := settings.New(db, c, assets, cfg.Cache.TTL)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Auth:     auth.NewService(db),
		Assets:   assets,
		Settings: settingsService,
		Homepage: homepage.New(db, settingsService, assets, cfg.Site.NewsLimit),
	}

	if err = seed(ctx, cfg, deps); err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	webService, err := web.New(cfg, deps, web.Views(cfg))
	if err != nil {
		return nil, err
	}

	return &Daemon{cfg: cfg, db: db, deps: deps, webService: webService}, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.CreatePostgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(cfg.DB.Name)
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(cfg.DB.LogLevel)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DB.GormEngine == config.EngineSQLite {
		// sqlite allows a single writer
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, errors.Wrap(errDB, "failed to configure sqlite pool")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database connected")

	return db, nil
}

func newGormLogger(level string) gormlogger.Interface {
	levels := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
	}

	gormLevel, ok := levels[strings.ToLower(level)]
	if !ok {
		gormLevel = gormlogger.Warn
	}

	return gormlogger.New(
		stdlogger.NewComponent("gorm", zerolog.DebugLevel),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// newSessionStorage keeps sessions next to the data. sqlite has no fiber
// storage driver in the stack, sessions are then kept in memory.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		}), nil
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.CreatePostgres(cfg),
			Table:         sessionTable,
		}), nil
	case config.EngineSQLite:
		log.Warn().Msg("sqlite engine: sessions are kept in memory and lost on restart")

		return sessionmemory.New(), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}
}

func newDisk(ctx context.Context, cfg config.Storage) (storage.Disk, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		disk, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			PublicURL:    cfg.S3.PublicURL,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open s3 storage")
		}

		return disk, nil
	default:
		disk, err := storage.NewLocal(cfg.Local.Root, cfg.Local.URLPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open local storage")
		}

		return disk, nil
	}
}

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	c, err := cache.New(cfg)
	if err != nil {
		return nil, err
	}

	if r, ok := c.(*cache.Redis); ok {
		if errPing := r.Ping(ctx); errPing != nil {
			// the site stays up on the database alone
			log.Warn().Err(errPing).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, settings cache disabled")

			return cache.Noop{}, nil
		}
	}

	return c, nil
}
