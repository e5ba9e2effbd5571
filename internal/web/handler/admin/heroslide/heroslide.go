// Package heroslide manages the slides of the homepage carousel.
package heroslide

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
	// Path is the base path of the hero slides pages.
	Path = handler.AdminPath + "/hero-slides"

	// TemplateList is the template for listing slides.
	TemplateList = "admin/heroslide/list"
	// TemplateForm is the template for creating/updating a slide.
	TemplateForm = "admin/heroslide/form"
)

// Form is the slide form. Every text field is optional.
type Form struct {
	TitleFR      string `form:"title_fr"       validate:"max=255"`
	TitleEN      string `form:"title_en"       validate:"max=255"`
	SubtitleFR   string `form:"subtitle_fr"    validate:"max=255"`
	SubtitleEN   string `form:"subtitle_en"    validate:"max=255"`
	ButtonTextFR string `form:"button_text_fr" validate:"max=255"`
	ButtonTextEN string `form:"button_text_en" validate:"max=255"`
	ButtonURL    string `form:"button_url"     validate:"max=255"`
	Order        int    `form:"order"`
}

// Handler is the exported instance.
var Handler = &crud.Resource[models.HeroSlide, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyHero,
	Path:         Path,
	Title:        "Hero slides",
	Singular:     "Slide",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.BySortOrder,
	Bucket:       asset.BucketHero,
	Rule:         asset.Rule{Required: true, MaxBytes: asset.LargeImage},
	ID:           func(s *models.HeroSlide) uint64 { return s.ID },
	Pic:          func(s *models.HeroSlide) *models.Picture { return s.Pic() },
	Blank:        func() *Form { return &Form{} },
	Fill: func(s *models.HeroSlide) *Form {
		return &Form{
			TitleFR:      s.TitleFR,
			TitleEN:      s.TitleEN,
			SubtitleFR:   s.SubtitleFR,
			SubtitleEN:   s.SubtitleEN,
			ButtonTextFR: s.ButtonTextFR,
			ButtonTextEN: s.ButtonTextEN,
			ButtonURL:    s.ButtonURL,
			Order:        s.Order,
		}
	},
	Apply: func(f *Form, s *models.HeroSlide) form.Errors {
		s.TitleFR = strings.TrimSpace(f.TitleFR)
		s.TitleEN = strings.TrimSpace(f.TitleEN)
		s.SubtitleFR = strings.TrimSpace(f.SubtitleFR)
		s.SubtitleEN = strings.TrimSpace(f.SubtitleEN)
		s.ButtonTextFR = strings.TrimSpace(f.ButtonTextFR)
		s.ButtonTextEN = strings.TrimSpace(f.ButtonTextEN)
		s.ButtonURL = strings.TrimSpace(f.ButtonURL)
		s.Order = f.Order

		return nil
	},
}
