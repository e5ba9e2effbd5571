// Package user provides handlers for managing users (CRUD) in admin area.
package user

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	authmiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/auth"
	"github.com/ecc24clmk/clmk-site/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.AdminPath + "/users"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"

	// MsgSelfDelete is shown when a user tries to delete their own account.
	MsgSelfDelete = "You cannot delete your own account."

	fieldEmail = "email"
	fieldRoles = "roles"
	fieldPerms = "permissions"
)

// Form is the user form. Roles and Permissions hold role and permission names.
type Form struct {
	Name                 string   `form:"name"                  validate:"required,max=255"`
	Email                string   `form:"email"                 validate:"required,email,max=255"`
	Password             string   `form:"password"              validate:"omitempty,min=8,max=255"`
	PasswordConfirmation string   `form:"password_confirmation" validate:"eqfield=Password"`
	Roles                []string `form:"roles"                 validate:"min=1"`
	Permissions          []string `form:"permissions"`
}

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	deps  *handler.Deps
	local *auth.LocalProvider
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps
	s.local = auth.NewLocalProvider(deps.DB)

	guard := auth.RequireFamily(deps.Auth, auth.FamilyUsers)

	// Routes
	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)

	return nil
}

func nav(page, url string) *navigation.Context {
	ctx := navigation.Admin("Users", navigation.SectionAdmin, auth.FamilyUsers)

	if page == "" {
		return ctx.AddBreadcrumb("Users", Path, true)
	}

	return ctx.AddBreadcrumb("Users", Path, false).AddBreadcrumb(page, url, true)
}

// List shows every account with its roles.
func (s *Service) List(c *fiber.Ctx) error {
	return s.list(c, fiber.StatusOK, "")
}

func (s *Service) list(c *fiber.Ctx, status int, errMsg string) error {
	users, err := s.local.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return fiber.ErrInternalServerError
	}

	var currentUserID uint64
	if u, ok := authmiddleware.CurrentUser(c); ok {
		currentUserID = u.ID
	}

	data := fiber.Map{
		"Navigation":    nav("", ""),
		"Users":         users,
		"CurrentUserID": currentUserID,
	}

	if errMsg != "" {
		data["Error"] = errMsg
	}

	return handler.AdminStatus(c, status, TemplateList, data)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.form(c, fiber.StatusOK, &Form{}, 0, nil)
}

// Edit shows the edit form for a user.
func (s *Service) Edit(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	f := &Form{
		Name:        user.Name,
		Email:       user.Email,
		Roles:       user.RoleNames(),
		Permissions: user.PermissionNames(),
	}

	return s.form(c, fiber.StatusOK, f, user.ID, nil)
}

func (s *Service) form(c *fiber.Ctx, status int, f *Form, id uint64, errs form.Errors) error {
	roles, err := s.deps.Auth.ListRoles()
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")
		return fiber.ErrInternalServerError
	}

	perms, err := s.deps.Auth.ListPermissions()
	if err != nil {
		log.Error().Err(err).Msg("failed to load permissions")
		return fiber.ErrInternalServerError
	}

	action := Path
	ctx := nav("New", Path+"/new")

	if id != 0 {
		action = Path + "/" + strconv.FormatUint(id, 10)
		ctx = nav("Edit", action+"/edit")
	}

	return handler.AdminStatus(c, status, TemplateForm, fiber.Map{
		"Navigation":  ctx,
		"Action":      action,
		"IsCreate":    id == 0,
		"Form":        f,
		"Errors":      errs,
		"Roles":       roles,
		"Permissions": perms,
		"HasRole":     contains(f.Roles),
		"HasPerm":     contains(f.Permissions),
	})
}

func contains(list []string) func(string) bool {
	return func(v string) bool {
		for _, item := range list {
			if item == v {
				return true
			}
		}

		return false
	}
}

func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id, err := handler.ParamID(c)
	if err != nil {
		return nil, err
	}

	user, err := s.local.GetUserByID(id)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to load user")
		return nil, fiber.ErrInternalServerError
	}

	return user, nil
}

// bind parses the form and resolves roles and permissions. The password is
// mandatory on create only.
func (s *Service) bind(c *fiber.Ctx, create bool) (*Form, auth.UserInput, form.Errors) {
	f := new(Form)
	if err := c.BodyParser(f); err != nil {
		return f, auth.UserInput{}, form.Errors{form.KeyForm: form.MsgInvalid}
	}

	f.Roles = form.Values(c, fieldRoles)
	f.Permissions = form.Values(c, fieldPerms)

	errs := form.Validate(f)
	if create && f.Password == "" {
		errs = errs.Merge(form.Errors{"password": "This field is required."})
	}

	in := auth.UserInput{
		Name:     strings.TrimSpace(f.Name),
		Email:    f.Email,
		Password: f.Password,
	}

	roles, err := s.deps.Auth.RolesByName(f.Roles)
	if err != nil {
		errs = errs.Merge(form.Errors{fieldRoles: "Select existing roles."})
	}

	in.Roles = roles

	// no checked box sends no field at all, which means revoke every grant
	in.Permissions = []models.Permission{}

	if len(f.Permissions) > 0 {
		perms, errPerms := s.deps.Auth.PermissionsByName(f.Permissions)
		if errPerms != nil {
			errs = errs.Merge(form.Errors{fieldPerms: "Select existing permissions."})
		}

		in.Permissions = perms
	}

	return f, in, errs
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	f, in, errs := s.bind(c, true)
	if len(errs) > 0 {
		return s.form(c, fiber.StatusBadRequest, f, 0, errs)
	}

	user, err := s.local.CreateUser(in)
	if errors.Is(err, auth.ErrUserEmailExists) {
		return s.form(c, fiber.StatusBadRequest, f, 0, form.Errors{fieldEmail: "This email is already taken."})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return fiber.ErrInternalServerError
	}

	log.Info().Uint64("user_id", user.ID).Strs("roles", user.RoleNames()).Msg("user created")

	return handler.Redirect(c, Path, "User created successfully.")
}

// Update updates a user. An empty password keeps the current one.
func (s *Service) Update(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	f, in, errs := s.bind(c, false)
	if len(errs) > 0 {
		return s.form(c, fiber.StatusBadRequest, f, user.ID, errs)
	}

	_, err = s.local.UpdateUser(user.ID, in)
	if errors.Is(err, auth.ErrUserEmailExists) {
		return s.form(c, fiber.StatusBadRequest, f, user.ID, form.Errors{fieldEmail: "This email is already taken."})
	}

	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to update user")
		return fiber.ErrInternalServerError
	}

	return handler.Redirect(c, Path, "User updated successfully.")
}

// Delete removes a user. Deleting one's own account is refused.
func (s *Service) Delete(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	current, _ := authmiddleware.CurrentUser(c)

	err = s.local.DeleteUser(current.ID, user.ID)
	if errors.Is(err, auth.ErrSelfDelete) {
		log.Warn().Uint64("user_id", user.ID).Msg("refused self delete")
		return s.list(c, fiber.StatusBadRequest, MsgSelfDelete)
	}

	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to delete user")
		return fiber.ErrInternalServerError
	}

	log.Info().Uint64("user_id", user.ID).Uint64("by", current.ID).Msg("user deleted")

	return handler.Redirect(c, Path, "User deleted successfully.")
}
