// Package content provides the queries shared by the content families
// (hero slides, verses, team, news, services, gallery).
package content

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Natural orderings of the families.
const (
	BySortOrder = "sort_order ASC, id ASC"
	ByPublished = "published_at DESC, id DESC"
	ByLatest    = "created_at DESC, id DESC"
)

// Scope narrows a query.
type Scope = func(*gorm.DB) *gorm.DB

// Active keeps published services and gallery images.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// PublishedBefore keeps news items whose publication date is not in the future.
func PublishedBefore(t time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("published_at <= ?", t)
	}
}

// Limit caps the number of rows, n <= 0 means no cap.
func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}

		return db.Limit(n)
	}
}

// List returns the records of T in order.
func List[T any](db *gorm.DB, order string, scopes ...Scope) ([]T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var records []T
	if err := db.Scopes(scopes...).Order(order).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// Get returns the record of T with id.
func Get[T any](db *gorm.DB, id uint64) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var record T
	if err := db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &record, nil
}

// Save inserts or updates record.
func Save[T any](db *gorm.DB, record *T) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Save(record).Error
}

// Delete removes the record of T with id.
func Delete[T any](db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of records of T.
func Count[T any](db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := db.Model(new(T)).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}

// Counts holds the dashboard totals.
type Counts struct {
	HeroSlides  int64
	BibleVerses int64
	TeamMembers int64
	News        int64
	Services    int64
	Gallery     int64
	Users       int64
}

// CountAll returns the totals of every family.
func CountAll(db *gorm.DB) (Counts, error) {
	var (
		c   Counts
		err error
	)

	steps := []struct {
		dst *int64
		fn  func(*gorm.DB) (int64, error)
	}{
		{&c.HeroSlides, Count[models.HeroSlide]},
		{&c.BibleVerses, Count[models.BibleVerse]},
		{&c.TeamMembers, Count[models.TeamMember]},
		{&c.News, Count[models.NewsItem]},
		{&c.Services, Count[models.Service]},
		{&c.Gallery, Count[models.GalleryImage]},
		{&c.Users, Count[models.User]},
	}

	for _, s := range steps {
		if *s.dst, err = s.fn(db); err != nil {
			return Counts{}, err
		}
	}

	return c, nil
}
