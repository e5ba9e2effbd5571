package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/config"
	fiberlogger "github.com/ecc24clmk/clmk-site/internal/logger/adapter/fiber"
	"github.com/ecc24clmk/clmk-site/internal/storage"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/bibleverse"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/gallery"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/heroslide"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/news"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/service"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/sitesettings"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/team"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/user"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/dashboard"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/home"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/language"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/login"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/logout"
	authmiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/auth"
	localemiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/locale"
)

const (
	// HealthPath answers 200 while the service accepts traffic.
	HealthPath = "/healthz"

	// LocalsSite holds the shared settings map for the layouts.
	LocalsSite = "Site"

	// LocalsTitle holds the configured site title.
	LocalsTitle = "AppTitle"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
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

	// Wait interrupt or shutdown request through /shutdown
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

// Views returns the template engine. In dev mode templates are read from
// the working tree and reloaded on every render.
func Views(cfg *config.Config) *html.Engine {
	httpFS := http.FS(TemplateFS())
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFuncMap(Funcs())

	return templateEngine
}

// Handlers lists every route group in registration order.
func Handlers() []handler.Service {
	return []handler.Service{
		&login.Handler,
		&logout.Handler,
		&home.Handler,
		&language.Handler,
		&dashboard.Handler,
		heroslide.Handler,
		bibleverse.Handler,
		team.Handler,
		news.Handler,
		service.Handler,
		gallery.Handler,
		&user.Handler,
		&sitesettings.Handler,
	}
}

// New creates a new web service. views is the template engine, usually
// Views(cfg).
func New(cfg *config.Config, deps *handler.Deps, views fiber.Views) (*Service, error) {
	if cfg == nil || deps == nil {
		return nil, handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return nil, err
	}

	bodyLimit := cfg.Webserver.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             views,
			PassLocalsToViews: true,
			BodyLimit:         bodyLimit,
			ErrorHandler:      handler.ErrorHandler,
		},
	)

	s := &Service{
		cfg: cfg,
		App: app,
	}
	s.alive.Store(true)

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log, HealthCheckURI: HealthPath}))

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		if !s.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("ok")
	})

	if cfg.Webserver.MetricsPath != "" {
		app.Get(cfg.Webserver.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:   http.FS(StaticFS()),
				Browse: cfg.Webserver.BrowseStatic,
				MaxAge: 3600,
			},
		),
	)

	// uploaded images of the local disk
	if local, ok := localDisk(deps); ok {
		app.Static(local.Prefix, local.Root, fiber.Static{
			Browse:         false,
			MaxAge:         86400,
			ModifyResponse: uploadHeaders,
		})
	}

	app.Use(localemiddleware.New(cfg.Site.DefaultLocale))
	app.Use(shared(cfg, deps))

	authmiddleware.Guard(app, deps.Auth)

	// init handlers (they register their own routes with permission checks)
	for _, h := range Handlers() {
		if err := h.Init(app, deps); err != nil {
			return nil, fmt.Errorf("init handler %T: %w", h, err)
		}
	}

	return s, nil
}

// shared exposes the site settings and title to every layout.
func shared(cfg *config.Config, deps *handler.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalsTitle, cfg.Title)

		if deps.Settings == nil {
			return c.Next()
		}

		site, err := deps.Settings.All(c.UserContext())
		if err != nil {
			log.Warn().Err(err).Msg("failed to load shared settings")

			site = map[string]string{}
		}

		c.Locals(LocalsSite, site)

		return c.Next()
	}
}

// uploadHeaders keeps scripts inside uploaded svg files from running with
// the site's origin.
func uploadHeaders(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentSecurityPolicy, "sandbox")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	return nil
}

func localDisk(deps *handler.Deps) (*storage.Local, bool) {
	if deps.Assets == nil {
		return nil, false
	}

	local, ok := deps.Assets.Disk().(*storage.Local)

	return local, ok
}
