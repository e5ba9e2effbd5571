// Package service manages the activities offered by the community.
package service

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
	// Path is the base path of the services pages.
	Path = handler.AdminPath + "/services"

	TemplateList = "admin/service/list"
	TemplateForm = "admin/service/form"
)

// Form is the service form. An unchecked box is not posted, so IsActive is
// false unless the box is ticked.
type Form struct {
	TitleFR       string `form:"title_fr"       validate:"required,max=255"`
	TitleEN       string `form:"title_en"       validate:"required,max=255"`
	DescriptionFR string `form:"description_fr" validate:"required"`
	DescriptionEN string `form:"description_en" validate:"required"`
	IsActive      bool   `form:"is_active"`
}

// Handler is the exported instance.
var Handler = &crud.Resource[models.Service, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyServices,
	Path:         Path,
	Title:        "Services",
	Singular:     "Service",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.ByLatest,
	Bucket:       asset.BucketServices,
	Rule:         asset.Rule{MaxBytes: asset.SmallImage},
	ID:           func(s *models.Service) uint64 { return s.ID },
	Pic:          func(s *models.Service) *models.Picture { return s.Pic() },
	Blank:        func() *Form { return &Form{IsActive: true} },
	Fill: func(s *models.Service) *Form {
		return &Form{
			TitleFR:       s.TitleFR,
			TitleEN:       s.TitleEN,
			DescriptionFR: s.DescriptionFR,
			DescriptionEN: s.DescriptionEN,
			IsActive:      s.IsActive,
		}
	},
	Apply: func(f *Form, s *models.Service) form.Errors {
		s.TitleFR = strings.TrimSpace(f.TitleFR)
		s.TitleEN = strings.TrimSpace(f.TitleEN)
		s.DescriptionFR = strings.TrimSpace(f.DescriptionFR)
		s.DescriptionEN = strings.TrimSpace(f.DescriptionEN)
		s.IsActive = f.IsActive

		return nil
	},
}
