// Package gallery manages the photos of the gallery section.
package gallery

import (
	"strings"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/crud"
)

const (
	// Path is the base path of the gallery pages.
	Path = handler.AdminPath + "/gallery"

	TemplateList = "admin/gallery/list"
	TemplateForm = "admin/gallery/form"
)

// Form is the gallery form.
type Form struct {
	Title    string `form:"title"    validate:"max=255"`
	TitleFR  string `form:"title_fr" validate:"max=255"`
	TitleEN  string `form:"title_en" validate:"max=255"`
	Category string `form:"category" validate:"max=255"`
	IsActive bool   `form:"is_active"`
}

// Handler is the exported instance. New images are published.
var Handler = &crud.Resource[models.GalleryImage, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyGallery,
	Path:         Path,
	Title:        "Gallery",
	Singular:     "Image",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.ByLatest,
	Bucket:       asset.BucketGallery,
	Rule:         asset.Rule{Required: true, MaxBytes: asset.LargeImage},
	ID:           func(g *models.GalleryImage) uint64 { return g.ID },
	Pic:          func(g *models.GalleryImage) *models.Picture { return g.Pic() },
	Blank:        func() *Form { return &Form{IsActive: true} },
	Fill: func(g *models.GalleryImage) *Form {
		return &Form{
			Title:    g.Title,
			TitleFR:  g.TitleFR,
			TitleEN:  g.TitleEN,
			Category: g.Category,
			IsActive: g.IsActive,
		}
	},
	Apply: func(f *Form, g *models.GalleryImage) form.Errors {
		g.Title = strings.TrimSpace(f.Title)
		g.TitleFR = strings.TrimSpace(f.TitleFR)
		g.TitleEN = strings.TrimSpace(f.TitleEN)
		g.Category = strings.TrimSpace(f.Category)
		// new images are always published, the box only applies on update
		g.IsActive = g.ID == 0 || f.IsActive

		return nil
	},
}
