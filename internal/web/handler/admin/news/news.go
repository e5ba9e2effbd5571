// Package news manages the articles of the news section.
package news

import (
	"strings"
	"time"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/crud"
)

const (
	// Path is the base path of the news pages.
	Path = handler.AdminPath + "/news"

	TemplateList = "admin/news/list"
	TemplateForm = "admin/news/form"

	// DateLayout is the value format of the datetime-local input.
	DateLayout = "2006-01-02T15:04"
)

// Now is the clock used for the default publication date.
var Now = time.Now //nolint:gochecknoglobals

// Form is the news form. An empty PublishedAt publishes a new item now and
// keeps the date of an existing one.
type Form struct {
	TitleFR     string `form:"title_fr"     validate:"required,max=255"`
	TitleEN     string `form:"title_en"     validate:"required,max=255"`
	ContentFR   string `form:"content_fr"   validate:"required"`
	ContentEN   string `form:"content_en"   validate:"required"`
	PublishedAt string `form:"published_at" validate:"omitempty,datetime=2006-01-02T15:04"`
}

// Handler is the exported instance.
var Handler = &crud.Resource[models.NewsItem, Form]{ //nolint:gochecknoglobals
	Family:       auth.FamilyNews,
	Path:         Path,
	Title:        "News",
	Singular:     "News item",
	TemplateList: TemplateList,
	TemplateForm: TemplateForm,
	Order:        content.ByPublished,
	Bucket:       asset.BucketNews,
	Rule:         asset.Rule{MaxBytes: asset.SmallImage},
	ID:           func(n *models.NewsItem) uint64 { return n.ID },
	Pic:          func(n *models.NewsItem) *models.Picture { return n.Pic() },
	Blank: func() *Form {
		return &Form{PublishedAt: Now().Format(DateLayout)}
	},
	Fill: func(n *models.NewsItem) *Form {
		return &Form{
			TitleFR:     n.TitleFR,
			TitleEN:     n.TitleEN,
			ContentFR:   n.ContentFR,
			ContentEN:   n.ContentEN,
			PublishedAt: n.PublishedAt.Local().Format(DateLayout),
		}
	},
	Apply: func(f *Form, n *models.NewsItem) form.Errors {
		n.TitleFR = strings.TrimSpace(f.TitleFR)
		n.TitleEN = strings.TrimSpace(f.TitleEN)
		n.ContentFR = strings.TrimSpace(f.ContentFR)
		n.ContentEN = strings.TrimSpace(f.ContentEN)

		if f.PublishedAt != "" {
			t, err := time.ParseInLocation(DateLayout, f.PublishedAt, time.Local)
			if err != nil {
				return form.Errors{"published_at": "Enter a valid date and time."}
			}

			n.PublishedAt = t
		}

		if n.PublishedAt.IsZero() {
			n.PublishedAt = Now()
		}

		return nil
	},
}
