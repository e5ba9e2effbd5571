// Package team manages the members presented in the team section.
package team

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
	// Path is the base path of the team pages.
	Path = handler.AdminPath + "/team"

	TemplateList = "admin/team/list"
	TemplateForm = "admin/team/form"
)

// Form is the member form.
type Form struct {
	Name   string `form:"name"    validate:"required,max=255"`
	RoleFR string `form:"role_fr" validate:"required,max=255"`
	RoleEN string `form:"role_en" validate:"required,max=255"`
	BioFR  string `form:"bio_fr"`
	BioEN  string `form:"bio_en"`
	Email  string `form:"email"   validate:"omitempty,email,max=255"`
	Phone  string `form:"phone"   validate:"max=20"`
	Order  int    `form:"order"`
}

// Handler is the exported instance.
var Handler = &crud.Resource[models.TeamMember, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyTeam,
	Path:         Path,
	Title:        "Team",
	Singular:     "Team member",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.BySortOrder,
	Bucket:       asset.BucketTeam,
	Rule:         asset.Rule{MaxBytes: asset.SmallImage},
	ID:           func(m *models.TeamMember) uint64 { return m.ID },
	Pic:          func(m *models.TeamMember) *models.Picture { return m.Pic() },
	Blank:        func() *Form { return &Form{} },
	Fill: func(m *models.TeamMember) *Form {
		return &Form{
			Name:   m.Name,
			RoleFR: m.RoleFR,
			RoleEN: m.RoleEN,
			BioFR:  m.BioFR,
			BioEN:  m.BioEN,
			Email:  m.Email,
			Phone:  m.Phone,
			Order:  m.Order,
		}
	},
	Apply: func(f *Form, m *models.TeamMember) form.Errors {
		m.Name = strings.TrimSpace(f.Name)
		m.RoleFR = strings.TrimSpace(f.RoleFR)
		m.RoleEN = strings.TrimSpace(f.RoleEN)
		m.BioFR = strings.TrimSpace(f.BioFR)
		m.BioEN = strings.TrimSpace(f.BioEN)
		m.Email = strings.TrimSpace(f.Email)
		m.Phone = strings.TrimSpace(f.Phone)
		m.Order = f.Order

		return nil
	},
}
