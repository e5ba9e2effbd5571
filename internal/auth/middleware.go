package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// LoginPath is where unauthenticated back office requests are sent.
const LoginPath = "/login"

// Locals keys filled by AddPermissionsToLocals.
const (
	LocalsPermissions   = "permissions"
	LocalsHasPermission = "hasPermission"
	LocalsFamilies      = "families"
)

// RequireFamily guards the routes of a content family with the permission
// listed for it in Families. It panics for a family missing from the table
// so a typo fails at startup.
func RequireFamily(authService *Service, family string) fiber.Handler {
	perm, ok := PermissionFor(family)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownFamily, family))
	}

	return RequirePermission(authService, perm)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// Anonymous requests are redirected to the login page, signed in users
// lacking the permission get 403.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, err := session.Load(c)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read session")
			return c.Redirect(LoginPath)
		}

		if !sessionData.Authenticated() {
			return c.Redirect(LoginPath)
		}

		hasPermission, err := authService.HasPermission(sessionData.User.ID, permission)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("Failed to check permission")

			return fiber.ErrInternalServerError
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("User lacks required permission")

			return fiber.NewError(fiber.StatusForbidden, "Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds user permissions to fiber.Locals.
// This allows templates to access permissions for conditional rendering.
func AddPermissionsToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, err := session.Load(c)
		if err != nil || !sessionData.Authenticated() {
			// Not authenticated, continue without permissions
			return c.Next()
		}

		permissions, err := authService.GetUserPermissions(sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).
				Msg("Failed to get user permissions")

			return c.Next()
		}

		held := make(map[string]bool, len(permissions))
		for _, p := range permissions {
			held[p] = true
		}

		// Add permissions to locals for template access
		c.Locals(LocalsPermissions, permissions)
		c.Locals(LocalsFamilies, FamiliesOf(permissions))
		c.Locals(LocalsHasPermission, func(perm string) bool {
			return held[perm]
		})

		return c.Next()
	}
}
