package web

import (
	"io/fs"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/webtest"
)

// setup builds the real application with the embedded templates over the
// webtest services.
func setup(t *testing.T) (*Service, *webtest.Env) {
	t.Helper()

	env := webtest.New(t)

	cfg := *env.Deps.Cfg
	cfg.DevMode = false
	cfg.Webserver.MetricsPath = "/metrics"

	require.NoError(t, env.Deps.Settings.Seed(t.Context(), []models.Setting{
		{Key: "site_name", Value: "CLMK Bukavu"},
		{Key: "about_fr", Value: "Une communauté de foi."},
		{Key: "about_en", Value: "A community of faith."},
		{Key: "site_logo", Value: "/static/img/default-logo.svg", IsAsset: true},
	}))

	db := env.Deps.DB
	require.NoError(t, db.Create(&models.Service{TitleFR: "Chorale", TitleEN: "Choir", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.HeroSlide{TitleFR: "Bienvenue", TitleEN: "Welcome",
		Picture: models.Picture{Image: "https://images.example.org/hero.jpg"}}).Error)

	deps := *env.Deps
	deps.Cfg = &cfg

	s, err := New(&cfg, &deps, Views(&cfg))
	require.NoError(t, err)

	app := *env
	app.App = s.App

	return s, &app
}

func TestNewRejectsMissingDeps(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)
}

func TestPublicPages(t *testing.T) {
	_, env := setup(t)
	visitor := env.Client(t)

	t.Run("health", func(t *testing.T) {
		resp := visitor.Get(HealthPath)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", webtest.Body(t, resp))
	})

	t.Run("homepage in french then english", func(t *testing.T) {
		resp := visitor.Get("/")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := webtest.Body(t, resp)
		assert.Contains(t, body, "CLMK Bukavu")
		assert.Contains(t, body, "Chorale")
		assert.Contains(t, body, "Une communauté de foi.")
		assert.Contains(t, body, `lang="fr"`)

		require.Equal(t, fiber.StatusFound, visitor.Get("/language/en").StatusCode)

		body = webtest.Body(t, visitor.Get("/"))
		assert.Contains(t, body, "Choir")
		assert.Contains(t, body, "Welcome")
		assert.Contains(t, body, "A community of faith.")
		assert.Contains(t, body, `lang="en"`)
	})

	t.Run("homepage live sections", func(t *testing.T) {
		body := webtest.Body(t, visitor.Get("/"))

		for _, marker := range []string{
			`data-section="hero"`, `data-section="verses"`, `data-section="services"`,
			`data-section="news"`, `data-section="gallery"`, `data-section="team"`,
			`data-setting="site_name"`, `data-setting="about"`, `data-setting-src="site_logo"`,
		} {
			assert.Contains(t, body, marker)
		}

		script, err := fs.ReadFile(StaticFS(), "js/home.js")
		require.NoError(t, err)

		// every payload section is redrawn by the poll
		for _, field := range []string{
			"heroSlides", "bibleVerses", "teamMembers", "newsItems", "services", "galleryImages", "settings",
		} {
			assert.Contains(t, string(script), "p."+field, field)
		}

		assert.Contains(t, string(script), `rotate("verses"`)
	})

	t.Run("homepage api", func(t *testing.T) {
		resp := visitor.Get("/api/homepage")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, webtest.Body(t, resp), `"title_en":"Choir"`)
	})

	t.Run("static files", func(t *testing.T) {
		for _, p := range []string{"/static/css/site.css", "/static/css/admin.css", "/static/js/home.js", "/static/img/default-logo.svg"} {
			assert.Equal(t, fiber.StatusOK, visitor.Get(p).StatusCode, p)
		}
	})

	t.Run("uploaded files", func(t *testing.T) {
		require.NoError(t, env.Disk.Put(t.Context(), "team/a.png", strings.NewReader("png"), 3, "image/png"))

		resp := visitor.Get("/storage/team/a.png")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "png", webtest.Body(t, resp))
	})

	t.Run("uploaded svg is sandboxed", func(t *testing.T) {
		svg := `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`
		require.NoError(t, env.Disk.Put(t.Context(), "settings/x.svg", strings.NewReader(svg), int64(len(svg)), "image/svg+xml"))

		resp := visitor.Get("/storage/settings/x.svg")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "sandbox", resp.Header.Get(fiber.HeaderContentSecurityPolicy))
		assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	})

	t.Run("metrics", func(t *testing.T) {
		resp := visitor.Get("/metrics")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, webtest.Body(t, resp), "go_goroutines")
	})

	t.Run("unknown page", func(t *testing.T) {
		resp := visitor.Get("/nowhere")
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Contains(t, webtest.Body(t, resp), "404")
	})
}

func TestBackOfficePages(t *testing.T) {
	_, env := setup(t)
	admin := env.Client(t)

	resp := admin.Get("/admin/dashboard")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	require.Equal(t, fiber.StatusOK, admin.Get("/login").StatusCode)

	resp = admin.PostForm("/login", url.Values{"email": {"admin@clmk.local"}, "password": {"changeme1"}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	body := webtest.Body(t, admin.Get("/admin/dashboard"))
	assert.Contains(t, body, "Dashboard")
	assert.Contains(t, body, "Hero slides")
	assert.Contains(t, body, "Settings")

	pages := []string{
		"/admin/hero-slides", "/admin/hero-slides/new",
		"/admin/bible-verses", "/admin/bible-verses/new",
		"/admin/team", "/admin/team/new",
		"/admin/news", "/admin/news/new",
		"/admin/services", "/admin/services/new",
		"/admin/gallery", "/admin/gallery/new",
		"/admin/users", "/admin/users/new",
		"/admin/settings",
	}

	for _, p := range pages {
		resp := admin.Get(p)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, p)
	}

	body = webtest.Body(t, admin.Get("/admin/services"))
	assert.Contains(t, body, "Chorale")

	body = webtest.Body(t, admin.Get("/admin/users"))
	assert.Contains(t, body, "admin@clmk.local")
	assert.Contains(t, body, "(you)")

	// a failed submission renders the errors with the real templates
	resp = admin.PostForm("/admin/bible-verses", url.Values{"text_fr": {"Texte"}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, webtest.Body(t, resp), "This field is required.")

	require.Equal(t, fiber.StatusFound, admin.PostForm("/logout", nil).StatusCode)
	assert.Equal(t, fiber.StatusFound, admin.Get("/admin/dashboard").StatusCode)
}
