package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/navigation"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// LocalsCurrentUser is the Locals key of the signed in session.User.
const LocalsCurrentUser = "CurrentUser"

// LocalsMenu is the Locals key of the sidebar entries of the user.
const LocalsMenu = "Menu"

// Middleware is a Fiber middleware that checks for user authentication.
// Anonymous requests are redirected to the login page.
func Middleware(c *fiber.Ctx) error {
	sessData, err := session.Load(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to read session")
		return c.Redirect(auth.LoginPath)
	}

	if !sessData.Authenticated() {
		return c.Redirect(auth.LoginPath)
	}

	// Add the current user to locals for template access
	c.Locals(LocalsCurrentUser, sessData.User)

	return c.Next()
}

// menu exposes the sidebar entries. It runs after auth.AddPermissionsToLocals.
func menu(c *fiber.Ctx) error {
	families, _ := c.Locals(auth.LocalsFamilies).(map[string]bool)
	c.Locals(LocalsMenu, navigation.Menu(families))

	return c.Next()
}

// Guard protects every route under handler.AdminPath: the session must be
// signed in, and the permissions, families and menu of the user are added
// to the locals.
func Guard(router fiber.Router, authService *auth.Service) {
	router.Use(handler.AdminPath, Middleware, auth.AddPermissionsToLocals(authService), menu)
}

// CurrentUser returns the signed in user set by Middleware.
func CurrentUser(c *fiber.Ctx) (session.User, bool) {
	u, ok := c.Locals(LocalsCurrentUser).(session.User)
	return u, ok
}
