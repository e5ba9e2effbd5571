// Package webtest wires the handlers against an in-memory database, a
// temporary disk and an in-memory session store so handler tests can drive
// them through fiber's app.Test.
package webtest

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/cache"
	"github.com/ecc24clmk/clmk-site/internal/config"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/homepage"
	"github.com/ecc24clmk/clmk-site/internal/settings"
	"github.com/ecc24clmk/clmk-site/internal/storage"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
	authmiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/auth"
	localemiddleware "github.com/ecc24clmk/clmk-site/internal/web/middleware/locale"
	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// Render is one recorded c.Render call.
type Render struct {
	Name   string
	Layout string
	Data   fiber.Map
}

// Views is a fiber.Views engine recording what handlers render instead of
// executing templates. It writes the template name as body.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// Load implements fiber.Views.
func (v *Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, layout ...string) error {
	r := Render{Name: name}
	if len(layout) > 0 {
		r.Layout = layout[0]
	}

	if m, ok := data.(fiber.Map); ok {
		r.Data = m
	}

	v.mu.Lock()
	v.renders = append(v.renders, r)
	v.mu.Unlock()

	_, err := io.WriteString(w, name)

	return err
}

// Last returns the latest render. It fails the test when nothing was rendered.
func (v *Views) Last(t *testing.T) Render {
	t.Helper()

	v.mu.Lock()
	defer v.mu.Unlock()

	require.NotEmpty(t, v.renders, "nothing rendered")

	return v.renders[len(v.renders)-1]
}

// Users are the accounts created by New.
type Users struct {
	Admin  *models.User // admin role
	Editor *models.User // editor role: services, news, gallery
	News   *models.User // manage_news granted directly, no role permission
}

// Env is a ready to use application.
type Env struct {
	App   *fiber.App
	Views *Views
	Deps  *handler.Deps
	Disk  *storage.Local
	Users Users
}

// NewDB opens a migrated in-memory sqlite database on a single connection.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

// Config returns a configuration fit for tests.
func Config() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "CLMK",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Hour},
		},
		Storage: config.Storage{Driver: config.StorageDriverLocal},
		Cache:   config.Cache{Driver: config.CacheDriverNone},
		Site:    config.Site{DefaultLocale: "fr", RefreshInterval: time.Minute, NewsLimit: 6},
	}
}

// New builds the shared services, seeds the roles and three users and
// returns an app with the session, locale and back office middleware
// mounted. Handlers are registered by the caller.
func New(t *testing.T) *Env {
	t.Helper()

	db := NewDB(t)
	cfg := Config()

	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	assets := asset.NewManager(disk, 0)
	settingsSvc := settings.New(db, cache.Noop{}, assets, time.Minute)
	authSvc := auth.NewService(db)

	deps := &handler.Deps{
		Cfg:      cfg,
		DB:       db,
		Auth:     authSvc,
		Assets:   assets,
		Settings: settingsSvc,
		Homepage: homepage.New(db, settingsSvc, assets, cfg.Site.NewsLimit),
	}

	session.Init(session.Config{Storage: memory.New(), Expiration: time.Hour})

	views := &Views{}
	app := fiber.New(fiber.Config{
		Views:             views,
		PassLocalsToViews: true,
		ErrorHandler:      handler.ErrorHandler,
		BodyLimit:         12 << 20,
	})

	// signs the visitor in as the given user without a password
	app.Get("/_test/login/:id", func(c *fiber.Ctx) error {
		id, _ := strconv.ParseUint(c.Params("id"), 10, 64)

		var u models.User
		if errFind := db.First(&u, id).Error; errFind != nil {
			return fiber.ErrNotFound
		}

		return session.Login(c, &u)
	})

	app.Use(localemiddleware.New(cfg.Site.DefaultLocale))
	authmiddleware.Guard(app, authSvc)

	return &Env{App: app, Views: views, Deps: deps, Disk: disk, Users: seedUsers(t, db, authSvc)}
}

func seedUsers(t *testing.T, db *gorm.DB, svc *auth.Service) Users {
	t.Helper()

	require.NoError(t, auth.Seed(db))

	local := auth.NewLocalProvider(db)

	roles := func(names ...string) []models.Role {
		r, err := svc.RolesByName(names)
		require.NoError(t, err)

		return r
	}

	admin, err := local.CreateUser(auth.UserInput{
		Name: "Admin", Email: "admin@clmk.local", Password: "changeme1", Roles: roles(models.RoleAdmin),
	})
	require.NoError(t, err)

	editor, err := local.CreateUser(auth.UserInput{
		Name: "Editor", Email: "editor@clmk.local", Password: "changeme2", Roles: roles(models.RoleEditor),
	})
	require.NoError(t, err)

	viewer := models.Role{Name: "viewer"}
	require.NoError(t, db.Create(&viewer).Error)

	perms, err := svc.PermissionsByName([]string{auth.PermManageNews})
	require.NoError(t, err)

	news, err := local.CreateUser(auth.UserInput{
		Name: "Reporter", Email: "news@clmk.local", Password: "changeme3",
		Roles: []models.Role{viewer}, Permissions: perms,
	})
	require.NoError(t, err)

	return Users{Admin: admin, Editor: editor, News: news}
}

// Client carries the session cookie of one visitor across requests.
type Client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

// Client returns an anonymous visitor.
func (e *Env) Client(t *testing.T) *Client {
	t.Helper()

	return &Client{t: t, app: e.App}
}

// As returns a visitor signed in as u.
func (e *Env) As(t *testing.T, u *models.User) *Client {
	t.Helper()

	c := e.Client(t)
	resp := c.Get("/_test/login/" + strconv.FormatUint(u.ID, 10))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, c.cookie, "no session cookie")

	return c
}

// Do sends req with the session cookie and keeps the cookie it gets back.
func (c *Client) Do(req *http.Request) *http.Response {
	c.t.Helper()

	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.cookie})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck.Value
		}
	}

	return resp
}

// Get sends a GET request.
func (c *Client) Get(target string) *http.Response {
	c.t.Helper()

	return c.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

// GetWith sends a GET request with extra headers.
func (c *Client) GetWith(target string, header http.Header) *http.Response {
	c.t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return c.Do(req)
}

// PostForm sends an url encoded form.
func (c *Client) PostForm(target string, form url.Values) *http.Response {
	c.t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return c.Do(req)
}

// JSONRequest returns a POST request carrying body as JSON.
func JSONRequest(t *testing.T, target, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return req
}

// PostMultipart sends a multipart form with files keyed by field name.
func (c *Client) PostMultipart(target string, form url.Values, files map[string][]byte) *http.Response {
	c.t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	for k, vs := range form {
		for _, v := range vs {
			require.NoError(c.t, w.WriteField(k, v))
		}
	}

	for field, data := range files {
		fw, err := w.CreateFormFile(field, field+".png")
		require.NoError(c.t, err)

		_, err = fw.Write(data)
		require.NoError(c.t, err)
	}

	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	return c.Do(req)
}

// PNG returns a w by h png image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))

	return buf.Bytes()
}

// Body reads the whole response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

// Count returns the number of rows of T.
func Count[T any](t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(new(T)).Count(&n).Error)

	return n
}

// Exists reports whether key is on the disk.
func (e *Env) Exists(t *testing.T, key string) bool {
	t.Helper()

	ok, err := e.Disk.Exists(t.Context(), key)
	require.NoError(t, err)

	return ok
}
