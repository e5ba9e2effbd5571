// Package sitesettings serves the back office page editing the site wide
// settings (name, contact details, social links, about texts, logo).
package sitesettings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/navigation"
)

const (
	// Path is the settings page.
	Path = handler.AdminPath + "/settings"

	// Template renders the settings form.
	Template = "admin/settings/index"
)

// ImageRule applies to every file field of the form.
var ImageRule = asset.Rule{MaxBytes: asset.SmallImage} //nolint:gochecknoglobals

// Service is the settings handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if deps.Settings == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	guard := auth.RequireFamily(deps.Auth, auth.FamilySettings)

	app.Get(Path, guard, s.Get)
	app.Post(Path, guard, s.Post)

	return nil
}

func (s *Service) render(c *fiber.Ctx, status int, submitted map[string]string, errs form.Errors) error {
	views, err := s.deps.Settings.Views()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return fiber.ErrInternalServerError
	}

	return handler.AdminStatus(c, status, Template, fiber.Map{
		"Navigation": navigation.Admin("Settings", navigation.SectionAdmin, auth.FamilySettings).
			AddBreadcrumb("Settings", Path, true),
		"Settings":  views,
		"Submitted": submitted,
		"Errors":    errs,
	})
}

// Get shows every stored setting.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, nil, nil)
}

// Post applies the submission. Every posted field is a setting key; file
// fields replace the image of their key.
func (s *Service) Post(c *fiber.Ctx) error {
	values, files, errs := s.parse(c)
	if len(errs) > 0 {
		return s.render(c, fiber.StatusBadRequest, values, errs)
	}

	fieldErrors, err := s.deps.Settings.Update(c.UserContext(), values, files)
	if err != nil {
		log.Error().Err(err).Msg("failed to update settings")
		return fiber.ErrInternalServerError
	}

	if len(fieldErrors) > 0 {
		return s.render(c, fiber.StatusBadRequest, values, fieldErrors)
	}

	log.Info().Int("values", len(values)).Int("files", len(files)).Msg("settings updated")

	return handler.Redirect(c, Path, "Settings updated successfully.")
}

// parse collects the literal values and the checked uploads of the body.
func (s *Service) parse(c *fiber.Ctx) (map[string]string, map[string]*asset.Upload, form.Errors) {
	values := map[string]string{}
	files := map[string]*asset.Upload{}

	var errs form.Errors

	mf, err := c.MultipartForm()
	if err != nil {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = string(v)
		})

		return values, files, nil
	}

	for k, vs := range mf.Value {
		if len(vs) > 0 {
			values[k] = vs[len(vs)-1]
		}
	}

	for k, fhs := range mf.File {
		if len(fhs) == 0 {
			continue
		}

		up, errCheck := ImageRule.Check(fhs[0])
		if errCheck != nil {
			errs = errs.Merge(form.Errors{k: form.ImageMessage(errCheck, ImageRule)})

			continue
		}

		if up != nil {
			files[k] = up
		}
	}

	return values, files, errs
}
