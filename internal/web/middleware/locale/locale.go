// Package locale resolves the language of every request from the session.
package locale

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/locale"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// LocalsKey is the Locals key holding the resolved locale.
const LocalsKey = "locale"

// New returns the middleware. fallback is used for visitors that never
// picked a language.
func New(fallback string) fiber.Handler {
	if !locale.IsSupported(fallback) {
		fallback = locale.Default
	}

	return func(c *fiber.Ctx) error {
		l := fallback

		d, err := session.Load(c)
		if err != nil {
			log.Warn().Err(err).Msg("failed to read session locale")
		} else if locale.IsSupported(d.Locale) {
			l = d.Locale
		}

		c.Locals(LocalsKey, l)

		return c.Next()
	}
}

// From returns the locale set by the middleware, or locale.Default.
func From(c *fiber.Ctx) string {
	if l, ok := c.Locals(LocalsKey).(string); ok && l != "" {
		return l
	}

	return locale.Default
}
