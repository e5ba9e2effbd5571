// Package bibleverse manages the verses rotating on the homepage.
package bibleverse

import (
	"strings"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/crud"
)

const (
	// Path is the base path of the bible verses pages.
	Path = handler.AdminPath + "/bible-verses"

	TemplateList = "admin/bibleverse/list"
	TemplateForm = "admin/bibleverse/form"
)

// Form is the verse form.
type Form struct {
	TextFR      string `form:"text_fr"      validate:"required"`
	TextEN      string `form:"text_en"      validate:"required"`
	ReferenceFR string `form:"reference_fr" validate:"required,max=255"`
	ReferenceEN string `form:"reference_en" validate:"required,max=255"`
	Order       int    `form:"order"`
}

// Handler is the exported instance. Verses have no image.
var Handler = &crud.Resource[models.BibleVerse, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyBible,
	Path:         Path,
	Title:        "Bible verses",
	Singular:     "Verse",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.BySortOrder,
	ID:           func(v *models.BibleVerse) uint64 { return v.ID },
	Blank:        func() *Form { return &Form{} },
	Fill: func(v *models.BibleVerse) *Form {
		return &Form{
			TextFR:      v.TextFR,
			TextEN:      v.TextEN,
			ReferenceFR: v.ReferenceFR,
			ReferenceEN: v.ReferenceEN,
			Order:       v.Order,
		}
	},
	Apply: func(f *Form, v *models.BibleVerse) form.Errors {
		v.TextFR = strings.TrimSpace(f.TextFR)
		v.TextEN = strings.TrimSpace(f.TextEN)
		v.ReferenceFR = strings.TrimSpace(f.ReferenceFR)
		v.ReferenceEN = strings.TrimSpace(f.ReferenceEN)
		v.Order = f.Order

		return nil
	},
}
