// Package language switches the locale of the visitor.
package language

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/locale"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// Path is the locale switch route.
const Path = "/language/:locale"

// Service is the language handler service.
type Service struct {
	handler.Service
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the route.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	app.Get(Path, s.Switch)

	return nil
}

// Switch stores a supported locale in the session and sends the visitor
// back. Unsupported values are ignored.
func (s *Service) Switch(c *fiber.Ctx) error {
	l := c.Params("locale")

	if locale.IsSupported(l) {
		err := session.Update(c, func(d *session.Data) { d.Locale = l })
		if err != nil {
			log.Error().Err(err).Str("locale", l).Msg("failed to store locale")
		}
	}

	return c.Redirect(back(c), fiber.StatusFound)
}

// back returns the path of the Referer when it points at this site, else /.
func back(c *fiber.Ctx) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return handler.RootPath
	}

	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Hostname()) {
		return handler.RootPath
	}

	target := u.EscapedPath()
	if target == "" || target[0] != '/' {
		return handler.RootPath
	}

	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}

	return target
}
