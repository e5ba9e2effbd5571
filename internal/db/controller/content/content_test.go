package content

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

func TestListSortOrder(t *testing.T) {
	db := setupTestDB(t)

	for _, v := range []models.BibleVerse{
		{TextFR: "b", TextEN: "b", ReferenceFR: "b", ReferenceEN: "b", Order: 2},
		{TextFR: "a1", TextEN: "a1", ReferenceFR: "a", ReferenceEN: "a", Order: 1},
		{TextFR: "a2", TextEN: "a2", ReferenceFR: "a", ReferenceEN: "a", Order: 1},
	} {
		require.NoError(t, Save(db, &v))
	}

	verses, err := List[models.BibleVerse](db, BySortOrder)
	require.NoError(t, err)
	require.Len(t, verses, 3)
	assert.Equal(t, "a1", verses[0].TextFR, "ties keep insertion order")
	assert.Equal(t, "a2", verses[1].TextFR)
	assert.Equal(t, "b", verses[2].TextFR)
}

func TestListScopes(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for i, s := range []models.Service{
		{TitleFR: "old", IsActive: true},
		{TitleFR: "hidden", IsActive: false},
		{TitleFR: "new", IsActive: true},
	} {
		s.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&s).Error)
	}

	services, err := List[models.Service](db, ByLatest, Active)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "new", services[0].TitleFR)
	assert.Equal(t, "old", services[1].TitleFR)

	for i := 0; i < 4; i++ {
		n := models.NewsItem{TitleFR: "n", TitleEN: "n", ContentFR: "c", ContentEN: "c"}
		n.PublishedAt = now.Add(time.Duration(i-2) * time.Hour) // two past, two future
		require.NoError(t, db.Create(&n).Error)
	}

	news, err := List[models.NewsItem](db, ByPublished, PublishedBefore(now), Limit(1))
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.WithinDuration(t, now.Add(-time.Hour), news[0].PublishedAt, time.Second)

	news, err = List[models.NewsItem](db, ByPublished, PublishedBefore(now), Limit(0))
	require.NoError(t, err)
	assert.Len(t, news, 2)
}

func TestGetSaveDelete(t *testing.T) {
	db := setupTestDB(t)

	_, err := Get[models.TeamMember](nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get[models.TeamMember](db, 42)
	require.ErrorIs(t, err, ErrNotFound)

	m := models.TeamMember{Name: "Marie", RoleFR: "Pasteure", RoleEN: "Pastor"}
	require.NoError(t, Save(db, &m))
	require.NotZero(t, m.ID)

	m.RoleEN = "Senior pastor"
	require.NoError(t, Save(db, &m))

	got, err := Get[models.TeamMember](db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior pastor", got.RoleEN)

	require.NoError(t, Delete[models.TeamMember](db, m.ID))
	require.ErrorIs(t, Delete[models.TeamMember](db, m.ID), ErrNotFound)
}

func TestCountAll(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.HeroSlide{}).Error)
	require.NoError(t, db.Create(&models.GalleryImage{IsActive: true}).Error)
	require.NoError(t, db.Create(&models.GalleryImage{}).Error)

	c, err := CountAll(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.HeroSlides)
	assert.Equal(t, int64(2), c.Gallery)
	assert.Zero(t, c.News)
}
