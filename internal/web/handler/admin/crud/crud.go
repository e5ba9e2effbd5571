// Package crud implements the back office contract shared by the content
// families: list, create, edit, update and delete of one record type, with
// the image of the record following the asset lifecycle.
package crud

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/navigation"
)

// FieldImage is the name of the file input of every family form.
const FieldImage = "image"

// Resource describes one family. T is the model, F the form it is edited
// through. F carries the form and validate tags.
type Resource[T any, F any] struct {
	// Family is the entry of auth.Families guarding the routes.
	Family string
	// Path is the route prefix, e.g. /admin/news.
	Path string
	// Title is the plural page title, Singular names one record in notices.
	Title    string
	Singular string
	// Templates render the list and the form.
	TemplateList string
	TemplateForm string
	// Order is the natural ordering of the list.
	Order string

	// Bucket and Rule configure the image. An empty Bucket means the family
	// has no image. Rule.Required applies on create only.
	Bucket asset.Bucket
	Rule   asset.Rule

	// ID returns the primary key of a record.
	ID func(*T) uint64
	// Pic returns the picture of a record. Nil when Bucket is empty.
	Pic func(*T) *models.Picture
	// Blank returns the form shown by the new page.
	Blank func() *F
	// Fill returns the form of an existing record for the edit page.
	Fill func(*T) *F
	// Apply copies a valid form onto the record. It returns field errors it
	// detects itself, in which case nothing is persisted.
	Apply func(f *F, record *T) form.Errors

	deps *handler.Deps
}

// Init registers the routes of the family behind auth.RequireFamily.
func (r *Resource[T, F]) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	if r.Bucket != "" && (r.Pic == nil || deps.Assets == nil) {
		return handler.ErrMissingDeps
	}

	r.deps = deps

	guard := auth.RequireFamily(deps.Auth, r.Family)

	app.Get(r.Path, guard, r.List)
	app.Get(r.Path+"/new", guard, r.New)
	app.Post(r.Path, guard, r.Create)
	app.Get(r.Path+"/:id/edit", guard, r.Edit)
	app.Post(r.Path+"/:id", guard, r.Update)
	app.Post(r.Path+"/:id/delete", guard, r.Delete)

	return nil
}

func (r *Resource[T, F]) nav(page string, active string) *navigation.Context {
	ctx := navigation.Admin(r.Title, navigation.SectionContent, r.Family)

	if page == "" {
		return ctx.AddBreadcrumb(r.Title, r.Path, true)
	}

	return ctx.AddBreadcrumb(r.Title, r.Path, false).AddBreadcrumb(page, active, true)
}

func (r *Resource[T, F]) resolve(records ...*T) {
	if r.Pic == nil {
		return
	}

	for _, rec := range records {
		p := r.Pic(rec)
		p.ImageURL = r.deps.Assets.URL(p.Image)
	}
}

// List shows every record in natural order.
func (r *Resource[T, F]) List(c *fiber.Ctx) error {
	records, err := content.List[T](r.deps.DB, r.Order)
	if err != nil {
		log.Error().Err(err).Str("family", r.Family).Msg("failed to list records")
		return fiber.ErrInternalServerError
	}

	for i := range records {
		r.resolve(&records[i])
	}

	return handler.Admin(c, r.TemplateList, fiber.Map{
		"Navigation": r.nav("", ""),
		"Title":      r.Title,
		"Path":       r.Path,
		"Records":    records,
		"HasImage":   r.Bucket != "",
	})
}

// New shows the empty form.
func (r *Resource[T, F]) New(c *fiber.Ctx) error {
	return r.form(c, fiber.StatusOK, r.Blank(), nil, nil)
}

// Edit shows the form of an existing record.
func (r *Resource[T, F]) Edit(c *fiber.Ctx) error {
	record, err := r.load(c)
	if err != nil {
		return err
	}

	return r.form(c, fiber.StatusOK, r.Fill(record), record, nil)
}

func (r *Resource[T, F]) form(c *fiber.Ctx, status int, f *F, record *T, errs form.Errors) error {
	action := r.Path
	page, pageURL := "New", r.Path+"/new"

	if record != nil {
		id := strconv.FormatUint(r.ID(record), 10)
		action = r.Path + "/" + id
		page, pageURL = "Edit", r.Path+"/"+id+"/edit"

		r.resolve(record)
	}

	return handler.AdminStatus(c, status, r.TemplateForm, fiber.Map{
		"Navigation":    r.nav(page, pageURL),
		"Title":         r.Title,
		"Path":          r.Path,
		"Action":        action,
		"IsCreate":      record == nil,
		"Form":          f,
		"Record":        record,
		"Errors":        errs,
		"HasImage":      r.Bucket != "",
		"ImageRequired": r.Rule.Required,
	})
}

// load returns the record of the :id parameter. Unknown and malformed ids
// are a 404.
func (r *Resource[T, F]) load(c *fiber.Ctx) (*T, error) {
	id, err := handler.ParamID(c)
	if err != nil {
		return nil, err
	}

	record, err := content.Get[T](r.deps.DB, id)
	if errors.Is(err, content.ErrNotFound) {
		return nil, fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Str("family", r.Family).Uint64("id", id).Msg("failed to load record")
		return nil, fiber.ErrInternalServerError
	}

	return record, nil
}

// bind parses and validates the submission. The image is checked with
// required set as given.
func (r *Resource[T, F]) bind(c *fiber.Ctx, required bool) (*F, *asset.Upload, form.Errors) {
	f := new(F)
	if err := c.BodyParser(f); err != nil {
		log.Debug().Err(err).Str("family", r.Family).Msg("failed to parse form")
		return f, nil, form.Errors{form.KeyForm: form.MsgInvalid}
	}

	errs := form.Validate(f)

	if r.Bucket == "" {
		return f, nil, errs
	}

	up, msg := form.Image(c, FieldImage, r.Rule.WithRequired(required && r.Rule.Required))
	if msg != "" {
		errs = errs.Merge(form.Errors{FieldImage: msg})
	}

	return f, up, errs
}

// save persists record and runs the image swap when up is set.
func (r *Resource[T, F]) save(c *fiber.Ctx, record *T, up *asset.Upload) error {
	if r.Bucket == "" {
		return content.Save(r.deps.DB, record)
	}

	pic := r.Pic(record)

	_, err := r.deps.Assets.Swap(c.UserContext(), r.Bucket, pic.Image, up, func(ref string) error {
		previous := pic.Image
		pic.Image = ref

		if errSave := content.Save(r.deps.DB, record); errSave != nil {
			pic.Image = previous
			return errSave
		}

		return nil
	})

	return err
}

// Create validates the submission and stores a new record.
func (r *Resource[T, F]) Create(c *fiber.Ctx) error {
	f, up, errs := r.bind(c, true)

	record := new(T)
	if len(errs) == 0 {
		errs = r.Apply(f, record)
	}

	if len(errs) > 0 {
		return r.form(c, fiber.StatusBadRequest, f, nil, errs)
	}

	if err := r.save(c, record, up); err != nil {
		log.Error().Err(err).Str("family", r.Family).Msg("failed to create record")
		return fiber.ErrInternalServerError
	}

	log.Info().Str("family", r.Family).Uint64("id", r.ID(record)).Msg("record created")

	return handler.Redirect(c, r.Path, r.Singular+" created successfully.")
}

// Update validates the submission and replaces the fields of the record.
// The image is only replaced when a new file is sent.
func (r *Resource[T, F]) Update(c *fiber.Ctx) error {
	record, err := r.load(c)
	if err != nil {
		return err
	}

	f, up, errs := r.bind(c, false)
	if len(errs) == 0 {
		errs = r.Apply(f, record)
	}

	if len(errs) > 0 {
		return r.form(c, fiber.StatusBadRequest, f, record, errs)
	}

	if err = r.save(c, record, up); err != nil {
		log.Error().Err(err).Str("family", r.Family).Uint64("id", r.ID(record)).Msg("failed to update record")
		return fiber.ErrInternalServerError
	}

	return handler.Redirect(c, r.Path, r.Singular+" updated successfully.")
}

// Delete removes the record, then its owned image.
func (r *Resource[T, F]) Delete(c *fiber.Ctx) error {
	record, err := r.load(c)
	if err != nil {
		return err
	}

	id := r.ID(record)
	remove := func() error { return content.Delete[T](r.deps.DB, id) }

	if r.Bucket == "" {
		err = remove()
	} else {
		err = r.deps.Assets.Discard(c.UserContext(), r.Pic(record).Image, remove)
	}

	if err != nil {
		log.Error().Err(err).Str("family", r.Family).Uint64("id", id).Msg("failed to delete record")
		return fiber.ErrInternalServerError
	}

	log.Info().Str("family", r.Family).Uint64("id", id).Msg("record deleted")

	return handler.Redirect(c, r.Path, r.Singular+" deleted successfully.")
}
