// Package homepage assembles everything the public homepage shows.
package homepage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

// DefaultNewsLimit is the number of news items shown when none is configured.
const DefaultNewsLimit = 6

// SettingsSource provides the settings map of the homepage.
type SettingsSource interface {
	Homepage(ctx context.Context) (map[string]string, error)
}

// Payload is the homepage content. It is rendered server side and served
// as JSON to the refreshing script.
type Payload struct {
	Services      []models.Service      `json:"services"`
	GalleryImages []models.GalleryImage `json:"galleryImages"`
	HeroSlides    []models.HeroSlide    `json:"heroSlides"`
	BibleVerses   []models.BibleVerse   `json:"bibleVerses"`
	TeamMembers   []models.TeamMember   `json:"teamMembers"`
	NewsItems     []models.NewsItem     `json:"newsItems"`
	Settings      map[string]string     `json:"settings"`
}

// Aggregator builds payloads.
type Aggregator struct {
	db        *gorm.DB
	settings  SettingsSource
	assets    *asset.Manager
	newsLimit int
	now       func() time.Time
}

// New returns an aggregator showing at most newsLimit news items.
func New(db *gorm.DB, settings SettingsSource, assets *asset.Manager, newsLimit int) *Aggregator {
	if newsLimit <= 0 {
		newsLimit = DefaultNewsLimit
	}

	return &Aggregator{db: db, settings: settings, assets: assets, newsLimit: newsLimit, now: time.Now}
}

// Build reads every section. Inactive services and gallery images and news
// published in the future are left out.
func (a *Aggregator) Build(ctx context.Context) (*Payload, error) {
	var (
		p   Payload
		err error
	)

	db := a.db.WithContext(ctx)

	if p.Services, err = content.List[models.Service](db, content.ByLatest, content.Active); err != nil {
		return nil, fmt.Errorf("homepage services: %w", err)
	}

	if p.GalleryImages, err = content.List[models.GalleryImage](db, content.ByLatest, content.Active); err != nil {
		return nil, fmt.Errorf("homepage gallery: %w", err)
	}

	if p.HeroSlides, err = content.List[models.HeroSlide](db, content.BySortOrder); err != nil {
		return nil, fmt.Errorf("homepage hero slides: %w", err)
	}

	if p.BibleVerses, err = content.List[models.BibleVerse](db, content.BySortOrder); err != nil {
		return nil, fmt.Errorf("homepage bible verses: %w", err)
	}

	if p.TeamMembers, err = content.List[models.TeamMember](db, content.BySortOrder); err != nil {
		return nil, fmt.Errorf("homepage team: %w", err)
	}

	p.NewsItems, err = content.List[models.NewsItem](
		db, content.ByPublished, content.PublishedBefore(a.now()), content.Limit(a.newsLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("homepage news: %w", err)
	}

	if p.Settings, err = a.settings.Homepage(ctx); err != nil {
		return nil, fmt.Errorf("homepage settings: %w", err)
	}

	a.resolve(&p)

	return &p, nil
}

func (a *Aggregator) resolve(p *Payload) {
	for i := range p.Services {
		a.assets.Resolve(&p.Services[i])
	}

	for i := range p.GalleryImages {
		a.assets.Resolve(&p.GalleryImages[i])
	}

	for i := range p.HeroSlides {
		a.assets.Resolve(&p.HeroSlides[i])
	}

	for i := range p.TeamMembers {
		a.assets.Resolve(&p.TeamMembers[i])
	}

	for i := range p.NewsItems {
		a.assets.Resolve(&p.NewsItems[i])
	}
}
