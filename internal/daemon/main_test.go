package daemon

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/config"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		Title: "CLMK",
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(dir, "site.db"),
			LogLevel:   "silent",
		},
		Webserver: config.Webserver{
			Port:         3000,
			URL:          "http://localhost:3000",
			ShutDownTime: 1,
			BodyLimit:    4 << 20,
			Session:      config.Session{ExpiryTime: time.Hour},
		},
		Storage: config.Storage{
			Driver: config.StorageDriverLocal,
			Local:  config.LocalStorage{Root: filepath.Join(dir, "storage"), URLPrefix: "/storage"},
		},
		Cache: config.Cache{Driver: config.CacheDriverMemory, TTL: time.Minute},
		Site:  config.Site{DefaultLocale: "fr", RefreshInterval: time.Minute, NewsLimit: 6},
		Admin: config.Admin{Email: "root@clmk.local", Password: "changeme1"},
	}
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)
}

func TestNewUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := New(cfg)
	require.ErrorIs(t, err, config.ErrUnknownGormEngine)
}

func TestNewSeeds(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)

	db := d.deps.DB

	counts, err := content.CountAll(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Services)
	assert.Equal(t, int64(2), counts.TeamMembers)
	assert.Equal(t, int64(1), counts.News)
	assert.Equal(t, int64(2), counts.HeroSlides)
	assert.Equal(t, int64(2), counts.BibleVerses)
	assert.Equal(t, int64(0), counts.Gallery)
	assert.Equal(t, int64(1), counts.Users)

	user, err := auth.NewLocalProvider(db).Authenticate("root@clmk.local", "changeme1")
	require.NoError(t, err)

	ok, err := d.deps.Auth.HasPermission(user.ID, auth.PermManageUsers)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := d.deps.Settings.All(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "CLMK", all["site_name"])
	assert.Equal(t, DefaultLogo, all["site_logo"])
	assert.Len(t, all, len(DefaultSettings("")))

	resp, err := d.webService.App.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewKeepsExistingData(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)

	db := d.deps.DB
	require.NoError(t, db.Where("1 = 1").Delete(&models.Service{}).Error)
	require.NoError(t, db.Create(&models.Service{TitleFR: "Seul", TitleEN: "Only", IsActive: true}).Error)
	require.NoError(t, db.Model(&models.Setting{}).Where("setting_key = ?", "site_name").Update("value", "Renamed").Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfg.Admin.Email = "other@clmk.local"

	d, err = New(cfg)
	require.NoError(t, err)

	counts, err := content.CountAll(d.deps.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Services)
	assert.Equal(t, int64(1), counts.Users, "admin is only created on an empty user table")

	all, err := d.deps.Settings.All(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", all["site_name"])
}

func TestSeedAdminWithoutAccount(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin = config.Admin{}

	d, err := New(cfg)
	require.NoError(t, err)

	n, err := auth.NewLocalProvider(d.deps.DB).CountUsers()
	require.NoError(t, err)
	assert.Zero(t, n)
}
