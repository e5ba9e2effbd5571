// Package home serves the public homepage and the JSON payload its script
// re-polls.
package home

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/homepage"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	localemiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/locale"
)

const (
	// Path is the homepage.
	Path = handler.RootPath

	// APIPath serves the homepage payload as JSON.
	APIPath = "/api/homepage"

	// Template renders the homepage.
	Template = "home/index"
)

// Service is the homepage handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if deps.Homepage == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	app.Get(Path, s.Get)
	app.Get(APIPath, s.API)

	return nil
}

func (s *Service) build(c *fiber.Ctx) (*homepage.Payload, error) {
	p, err := s.deps.Homepage.Build(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to build homepage")
		return nil, fiber.ErrInternalServerError
	}

	return p, nil
}

// Get renders the homepage in the locale of the visitor.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := s.build(c)
	if err != nil {
		return err
	}

	return c.Render(Template, fiber.Map{
		"Page":            p,
		"Locale":          localemiddleware.From(c),
		"APIPath":         APIPath,
		"RefreshInterval": s.deps.Cfg.Site.RefreshInterval.Milliseconds(),
	}, handler.BaseLayout)
}

// API returns the payload. Both bilingual sides are sent; the script picks
// the one of the page.
func (s *Service) API(c *fiber.Ctx) error {
	p, err := s.build(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.JSON(p)
}
