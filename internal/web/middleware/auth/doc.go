// Package auth provides authentication middleware for the back office.
//
// The middleware performs the following tasks:
//   - Redirects anonymous requests under /admin to the login page
//   - Adds the current user to fiber.Locals for handlers and templates
//   - Adds the sidebar menu filtered by the families the user may manage
//
// Usage:
//
//	authmiddleware.Guard(app, authService)
//
// Per family permission checks are done by auth.RequireFamily on the routes
// of each family.
package auth
