// Package form binds and validates back office submissions. Errors are
// returned as a map keyed by the form field name so templates can show them
// next to the input.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ecc24clmk/clmk-site/internal/asset"
)

// Errors maps a form field to its message.
type Errors map[string]string

// KeyForm holds errors that do not belong to one field.
const KeyForm = "_form"

// MsgInvalid is used when the body cannot be decoded at all.
const MsgInvalid = "Invalid form data"

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report the form name instead of the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// Validate checks the validate tags of v. It returns nil when v is valid.
func Validate(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{KeyForm: MsgInvalid}
	}

	out := Errors{}

	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}

	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Select at most %s.", fe.Param())
		}

		return fmt.Sprintf("Use at most %s characters.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Select at least %s.", fe.Param())
		}

		return fmt.Sprintf("Use at least %s characters.", fe.Param())
	case "eqfield":
		return "The values do not match."
	case "url":
		return "Enter a valid URL."
	case "datetime":
		return "Enter a valid date and time."
	case "gte", "lte":
		return "The value is out of range."
	default:
		return "The value is invalid."
	}
}

// Merge copies the entries of extra into e, creating e when needed.
func (e Errors) Merge(extra Errors) Errors {
	if len(extra) == 0 {
		return e
	}

	if e == nil {
		e = Errors{}
	}

	for k, v := range extra {
		if _, seen := e[k]; !seen {
			e[k] = v
		}
	}

	return e
}

// Image reads the file field and checks it against rule. A missing file is
// not an error unless the rule requires one. The second result is the
// message to show for the field, empty when the upload is fine.
func Image(c *fiber.Ctx, field string, rule asset.Rule) (*asset.Upload, string) {
	fh, err := c.FormFile(field)
	if err != nil {
		fh = nil
	}

	up, err := rule.Check(fh)
	if err != nil {
		return nil, ImageMessage(err, rule)
	}

	return up, ""
}

// ImageMessage is the field message for an asset check error.
func ImageMessage(err error, rule asset.Rule) string {
	switch {
	case errors.Is(err, asset.ErrFileRequired):
		return "An image is required."
	case errors.Is(err, asset.ErrFileTooLarge):
		return fmt.Sprintf("The image may not be larger than %d KB.", rule.MaxBytes/asset.KiB)
	case errors.Is(err, asset.ErrFileType):
		return "The file must be a jpeg, png, gif or svg image."
	default:
		return "The image could not be read."
	}
}

// Values returns every value posted for field, multipart or url encoded.
func Values(c *fiber.Ctx, field string) []string {
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		return nonEmpty(mf.Value[field])
	}

	raw := c.Request().PostArgs().PeekMulti(field)
	out := make([]string, 0, len(raw))

	for _, v := range raw {
		out = append(out, string(v))
	}

	return nonEmpty(out)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))

	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
