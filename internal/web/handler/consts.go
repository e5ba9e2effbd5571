package handler

const (
	// BaseLayout is the layout of the public pages.
	BaseLayout = "layouts/base"

	// AdminLayout is the layout of the back office pages.
	AdminLayout = "layouts/admin"

	// AuthLayout is the layout of the sign in page.
	AuthLayout = "layouts/auth"

	// RootPath is the root path the route group.
	RootPath = "/"

	// AdminPath is the prefix of every back office route.
	AdminPath = "/admin"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// MsgInternalError is shown when a request fails for a reason the user cannot fix.
	MsgInternalError = "Something went wrong, please try again."
)
