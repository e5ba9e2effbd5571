package news

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/webtest"
)

var fixed = time.Date(2026, 5, 10, 9, 15, 0, 0, time.Local)

func setup(t *testing.T) *webtest.Env {
	t.Helper()

	Now = func() time.Time { return fixed }
	t.Cleanup(func() { Now = time.Now })

	env := webtest.New(t)
	require.NoError(t, Handler.Init(env.App, env.Deps))

	return env
}

func onlyItem(t *testing.T, env *webtest.Env) models.NewsItem {
	t.Helper()

	items, err := content.List[models.NewsItem](env.Deps.DB, content.ByPublished)
	require.NoError(t, err)
	require.Len(t, items, 1)

	return items[0]
}

func valid(published string) url.Values {
	return url.Values{
		"title_fr":     {"Conférence"},
		"title_en":     {"Conference"},
		"content_fr":   {"Rendez-vous à Bukavu."},
		"content_en":   {"See you in Bukavu."},
		"published_at": {published},
	}
}

func TestNewFormDefaultsToNow(t *testing.T) {
	env := setup(t)
	admin := env.As(t, env.Users.Admin)

	require.Equal(t, fiber.StatusOK, admin.Get(Path+"/new").StatusCode)
	assert.Equal(t, &Form{PublishedAt: "2026-05-10T09:15"}, env.Views.Last(t).Data["Form"])
}

func TestCreatePublication(t *testing.T) {
	testCases := []struct {
		name      string
		published string
		want      time.Time
	}{
		{name: "empty date publishes now", published: "", want: fixed},
		{name: "explicit date", published: "2026-03-01T10:30", want: time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)},
		{name: "future date", published: "2027-01-01T00:00", want: time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := setup(t)
			admin := env.As(t, env.Users.Admin)

			resp := admin.PostForm(Path, valid(tc.published))
			require.Equal(t, fiber.StatusFound, resp.StatusCode)

			got := onlyItem(t, env)
			assert.True(t, tc.want.Equal(got.PublishedAt), "got %s", got.PublishedAt)
			assert.Empty(t, got.Image, "the image is optional")
		})
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	env := setup(t)
	admin := env.As(t, env.Users.Admin)

	resp := admin.PostForm(Path, valid("10/05/2026"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	errs, ok := env.Views.Last(t).Data["Errors"].(form.Errors)
	require.True(t, ok)
	assert.Contains(t, errs, "published_at")
	assert.Equal(t, int64(0), webtest.Count[models.NewsItem](t, env.Deps.DB))
}

func TestUpdateKeepsDate(t *testing.T) {
	env := setup(t)
	admin := env.As(t, env.Users.Admin)

	require.Equal(t, fiber.StatusFound, admin.PostForm(Path, valid("2026-03-01T10:30")).StatusCode)
	item := onlyItem(t, env)

	Now = func() time.Time { return fixed.Add(48 * time.Hour) }

	f := valid("")
	f.Set("title_en", "Updated")

	resp := admin.PostForm(Path+"/"+itoa(item.ID), f)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	got := onlyItem(t, env)
	assert.Equal(t, "Updated", got.TitleEN)
	assert.True(t, item.PublishedAt.Equal(got.PublishedAt))
}

func TestAccess(t *testing.T) {
	env := setup(t)

	for _, u := range []*models.User{env.Users.Admin, env.Users.Editor, env.Users.News} {
		assert.Equal(t, fiber.StatusOK, env.As(t, u).Get(Path).StatusCode, u.Email)
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
