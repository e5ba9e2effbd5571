// Package dashboard provides the back office landing page: one card per
// content family the user may manage, with the number of records.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.AdminPath + "/dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"
)

// Card is one family tile.
type Card struct {
	Title string
	URL   string
	Count int64
	// Counted is false for families without records, e.g. settings.
	Counted bool
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Get)
	app.Get(handler.AdminPath, func(c *fiber.Ctx) error { return c.Redirect(Path) })

	return nil
}

func counts(c content.Counts) map[string]int64 {
	return map[string]int64{
		auth.FamilyHero:     c.HeroSlides,
		auth.FamilyBible:    c.BibleVerses,
		auth.FamilyTeam:     c.TeamMembers,
		auth.FamilyNews:     c.News,
		auth.FamilyServices: c.Services,
		auth.FamilyGallery:  c.Gallery,
		auth.FamilyUsers:    c.Users,
	}
}

// Get handles the dashboard page rendering. The auth guard has already put
// the families of the user in the locals.
func (s *Service) Get(c *fiber.Ctx) error {
	families, _ := c.Locals(auth.LocalsFamilies).(map[string]bool)

	totals, err := content.CountAll(s.deps.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to count records")
		return fiber.ErrInternalServerError
	}

	byFamily := counts(totals)
	items := navigation.Menu(families)
	cards := make([]Card, 0, len(items))

	for _, item := range items {
		n, counted := byFamily[item.Page]
		cards = append(cards, Card{Title: item.Title, URL: item.URL, Count: n, Counted: counted})
	}

	return handler.Admin(c, TemplateName, fiber.Map{
		"Navigation": navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard").
			AddBreadcrumb("Dashboard", Path, true),
		"Cards": cards,
	})
}
