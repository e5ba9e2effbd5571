package heroslide

import (
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/crud"
	"github.com/ecc24clmk/clmk-site/internal/web/webtest"
)

func TestCreate(t *testing.T) {
	env := webtest.New(t)
	require.NoError(t, Handler.Init(env.App, env.Deps))

	admin := env.As(t, env.Users.Admin)

	resp := admin.PostForm(Path, url.Values{"title_fr": {"Bienvenue"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, form.Errors{crud.FieldImage: "An image is required."}, env.Views.Last(t).Data["Errors"])
	assert.Equal(t, true, env.Views.Last(t).Data["ImageRequired"])

	resp = admin.PostMultipart(Path, url.Values{"button_url": {"#about"}, "order": {"1"}},
		map[string][]byte{crud.FieldImage: webtest.PNG(t, 16, 9)})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var slide models.HeroSlide
	require.NoError(t, env.Deps.DB.First(&slide).Error)
	assert.Equal(t, "#about", slide.ButtonURL)
	assert.Empty(t, slide.TitleFR, "text fields are optional")
}

func TestAccess(t *testing.T) {
	env := webtest.New(t)
	require.NoError(t, Handler.Init(env.App, env.Deps))

	assert.Equal(t, fiber.StatusForbidden, env.As(t, env.Users.Editor).Get(Path).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, env.As(t, env.Users.News).Get(Path).StatusCode)
}
