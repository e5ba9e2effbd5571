package models

import (
	"strings"
	"time"

	"github.com/ecc24clmk/clmk-site/internal/locale"
)

// GalleryImage is a photo of the gallery section.
type GalleryImage struct {
	// ID is the unique identifier for the image.
	ID uint64 `gorm:"primaryKey" json:"id"`
	Picture
	// Title is a language neutral caption used when neither translation is set.
	Title string `gorm:"size:255" json:"title"`
	// TitleFR is the French caption.
	TitleFR string `gorm:"size:255" json:"title_fr"`
	// TitleEN is the English caption.
	TitleEN string `gorm:"size:255" json:"title_en"`
	// Category groups images for the gallery filter (e.g. "culte", "jeunesse").
	Category string `gorm:"size:255;index" json:"category"`
	// IsActive publishes the image on the homepage.
	IsActive bool `gorm:"not null" json:"is_active"`
	// CreatedAt is the timestamp when the image was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the image was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the GalleryImage model.
func (GalleryImage) TableName() string {
	return "gallery_images"
}

// Caption returns the title for l, falling back to the other language and
// then to the neutral title.
func (g *GalleryImage) Caption(l string) string {
	if c := locale.Pick(l, g.TitleFR, g.TitleEN); strings.TrimSpace(c) != "" {
		return c
	}

	return g.Title
}
