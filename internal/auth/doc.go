// Package auth provides authentication and authorization functionality for the application.
//
// Accounts are local: users sign in with their email and a password hashed
// with Argon2id. LocalProvider also holds the account management used by the
// back office.
//
// # Authorization System
//
// Every content family of the back office (services, news, team, hero,
// bible, gallery, users, settings) is guarded by one permission, listed in
// the Families table:
//   - Users hold roles, roles hold permissions
//   - Permissions can also be granted to a user directly
//   - The admin role holds every permission without explicit grants
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequireFamily: Protect the routes of a family with its permission
//   - RequirePermission: Protect routes requiring a specific permission
//   - AddPermissionsToLocals: Add user permissions to template context
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	news := app.Group("/admin/news", auth.RequireFamily(authService, auth.FamilyNews))
//	news.Get("/", list)
package auth
