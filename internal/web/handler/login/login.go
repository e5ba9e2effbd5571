package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = auth.LoginPath

	// Template is the name of the login template.
	Template = "login"

	// RedirectPath is where a signed in user lands.
	RedirectPath = handler.AdminPath + "/dashboard"
)

// Form is the login form.
type Form struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	local *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.local = auth.NewLocalProvider(deps.DB)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

func render(c *fiber.Ctx, status int, f *Form, errs form.Errors, msg string) error {
	data := fiber.Map{
		"Form":   f,
		"Errors": errs,
	}

	if msg != "" {
		data["Error"] = msg
	}

	return c.Status(status).Render(Template, data, handler.AuthLayout)
}

// Get renders the login page. A signed in user goes straight to the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	if d, err := session.Load(c); err == nil && d.Authenticated() {
		return c.Redirect(RedirectPath)
	}

	return render(c, fiber.StatusOK, &Form{}, nil, "")
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	f := new(Form)

	if err := c.BodyParser(f); err != nil {
		return render(c, fiber.StatusBadRequest, f, nil, ErrInvalidFormData.Error())
	}

	if errs := form.Validate(f); len(errs) > 0 {
		f.Password = ""
		return render(c, fiber.StatusBadRequest, f, errs, "")
	}

	user, err := s.authenticate(f.Email, f.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		log.Info().Str("email", f.Email).Msg("failed login attempt")

		f.Password = ""

		return render(c, fiber.StatusUnauthorized, f, nil, ErrInvalidCredentials.Error())
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to authenticate user")
		return render(c, fiber.StatusInternalServerError, f, nil, ErrInternalServerError.Error())
	}

	if err = session.Login(c, user); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return render(c, fiber.StatusInternalServerError, f, nil, ErrInternalServerError.Error())
	}

	log.Info().Uint64("user_id", user.ID).Msg("user signed in")

	return c.Redirect(RedirectPath)
}

// authenticate maps unknown emails and wrong passwords to one error so the
// page never tells which one was wrong.
func (s *Service) authenticate(email, password string) (*models.User, error) {
	user, err := s.local.Authenticate(email, password)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	default:
		return nil, err
	}
}
