package settings

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/cache"
	"github.com/ecc24clmk/clmk-site/internal/db/controller/setting"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/storage"
)

type fixture struct {
	db   *gorm.DB
	disk storage.Disk
	svc  *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))

	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	svc := New(db, cache.NewStorage(memory.New()), asset.NewManager(disk, 0), time.Hour)

	return fixture{db: db, disk: disk, svc: svc}
}

func logo(t *testing.T) *asset.Upload {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	up, err := asset.Rule{}.CheckReader(&buf, "logo.png")
	require.NoError(t, err)

	return up
}

func onDisk(t *testing.T, f fixture, key string) bool {
	t.Helper()

	ok, err := f.disk.Exists(context.Background(), key)
	require.NoError(t, err)

	return ok
}

func TestValidKey(t *testing.T) {
	for key, want := range map[string]bool{
		"site_name":    true,
		"about_fr":     true,
		"a":            true,
		"Site":         false,
		"1st":          false,
		"with-dash":    false,
		"":             false,
		"_csrf":        false,
		"space key":    false,
		"x" + string(bytes.Repeat([]byte("y"), 100)): false,
	} {
		assert.Equal(t, want, ValidKey(key), key)
	}

	assert.True(t, Reserved("_method"))
	assert.False(t, Reserved("site_name"))
}

func TestUpdateValuesAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, map[string]string{"site_name": "CLMK", "_token": "abc"}, nil)
	require.NoError(t, err)

	all, err := f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"site_name": "CLMK"}, all, "reserved fields are not stored")

	// bypass the service: the cached map must still be served
	_, _, err = setting.Set(f.db, "site_name", "changed behind the back", false)
	require.NoError(t, err)

	all, err = f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CLMK", all["site_name"])

	_, err = f.svc.Homepage(ctx)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, map[string]string{"site_name": "Communauté", "contact_email": "info@clmk.fr"}, nil)
	require.NoError(t, err)

	all, err = f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Communauté", all["site_name"], "update invalidates the shared map")

	home, err := f.svc.Homepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "info@clmk.fr", home["contact_email"], "update invalidates the homepage map")
}

func TestUpdateRejectsMalformedKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fieldErrors, err := f.svc.Update(ctx, map[string]string{"site_name": "x", "Bad-Key": "y"}, nil)
	require.NoError(t, err)
	assert.Equal(t, MsgInvalidKey, fieldErrors["Bad-Key"])

	_, err = setting.Get(f.db, "site_name")
	require.ErrorIs(t, err, setting.ErrSettingNotFound, "nothing is written when a key is rejected")
}

func TestUpdateLogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Seed(ctx, []models.Setting{
		{Key: KeyLogo, Value: "/static/img/default-logo.svg", IsAsset: true},
		{Key: "site_name", Value: "CLMK"},
	}))

	all, err := f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/static/img/default-logo.svg", all[KeyLogo])

	// replacing the bundled default never touches it
	_, err = f.svc.Update(ctx, map[string]string{"site_name": "CLMK"}, map[string]*asset.Upload{KeyLogo: logo(t)})
	require.NoError(t, err)

	first, err := setting.Get(f.db, KeyLogo)
	require.NoError(t, err)
	assert.True(t, first.IsAsset)
	assert.Contains(t, first.Value, "settings/")
	assert.True(t, onDisk(t, f, first.Value))

	all, err = f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/storage/"+first.Value, all[KeyLogo])

	// a second upload removes exactly the previous file
	_, err = f.svc.Update(ctx, nil, map[string]*asset.Upload{KeyLogo: logo(t)})
	require.NoError(t, err)

	second, err := setting.Get(f.db, KeyLogo)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)
	assert.True(t, onDisk(t, f, second.Value))
	assert.False(t, onDisk(t, f, first.Value))

	// an empty text value for a file field keeps the image
	_, err = f.svc.Update(ctx, map[string]string{KeyLogo: ""}, nil)
	require.NoError(t, err)

	kept, err := setting.Get(f.db, KeyLogo)
	require.NoError(t, err)
	assert.Equal(t, second.Value, kept.Value)

	// pointing back at an external image drops the owned file
	_, err = f.svc.Update(ctx, map[string]string{KeyLogo: "https://cdn.example.org/logo.png"}, nil)
	require.NoError(t, err)
	assert.False(t, onDisk(t, f, second.Value))

	views, err := f.svc.Views()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "https://cdn.example.org/logo.png", views[0].URL)
}

func TestUpdateLogoReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Seed(ctx, []models.Setting{{Key: KeyLogo, Value: "/static/img/default-logo.svg", IsAsset: true}}))

	photo, err := f.svc.assets.Store(ctx, asset.BucketGallery, logo(t))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, nil, map[string]*asset.Upload{KeyLogo: logo(t)})
	require.NoError(t, err)

	uploaded, err := setting.Get(f.db, KeyLogo)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		value string
	}{
		{name: "key of another record", value: photo},
		{name: "bare key", value: "settings/other.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fieldErrors, errUpdate := f.svc.Update(ctx, map[string]string{KeyLogo: tc.value, "site_name": "x"}, nil)
			require.NoError(t, errUpdate)
			assert.Equal(t, map[string]string{KeyLogo: MsgInvalidRef}, fieldErrors)

			kept, errGet := setting.Get(f.db, KeyLogo)
			require.NoError(t, errGet)
			assert.Equal(t, uploaded.Value, kept.Value)

			_, errGet = setting.Get(f.db, "site_name")
			require.ErrorIs(t, errGet, setting.ErrSettingNotFound, "nothing is written")
		})
	}

	// next upload removes the previous logo only
	_, err = f.svc.Update(ctx, nil, map[string]*asset.Upload{KeyLogo: logo(t)})
	require.NoError(t, err)
	assert.False(t, onDisk(t, f, uploaded.Value))
	assert.True(t, onDisk(t, f, photo))
}

func TestUpdateLogoKeepsForeignFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photo, err := f.svc.assets.Store(ctx, asset.BucketGallery, logo(t))
	require.NoError(t, err)

	// a row written outside the form pointing at another family's file
	_, _, err = setting.Set(f.db, KeyLogo, photo, true)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, nil, map[string]*asset.Upload{KeyLogo: logo(t)})
	require.NoError(t, err)
	assert.True(t, onDisk(t, f, photo))

	_, _, err = setting.Set(f.db, KeyLogo, photo, true)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, map[string]string{KeyLogo: "https://cdn.example.org/logo.png"}, nil)
	require.NoError(t, err)
	assert.True(t, onDisk(t, f, photo))
}

func TestStaleFillIsDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gen := f.svc.generation
	require.NoError(t, f.svc.Invalidate(ctx))

	f.svc.fill(ctx, CacheKeyShared, gen, map[string]string{"site_name": "stale"})

	var m map[string]string

	found, err := f.svc.cache.Get(ctx, CacheKeyShared, &m)
	require.NoError(t, err)
	assert.False(t, found, "a fill older than the invalidation is not cached")

	f.svc.fill(ctx, CacheKeyShared, f.svc.generation, map[string]string{"site_name": "fresh"})

	found, err = f.svc.cache.Get(ctx, CacheKeyShared, &m)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fresh", m["site_name"])
}

func TestSeedKeepsExistingValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := setting.Set(f.db, "site_name", "Custom", false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Seed(ctx, []models.Setting{{Key: "site_name", Value: "Default"}, {Key: "phone", Value: "0"}}))

	all, err := f.svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Custom", all["site_name"])
	assert.Equal(t, "0", all["phone"])
}
