package gallery

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/db/controller/content"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/form"
	"github.com/ecc24clmk/clmk-site/internal/web/handler/admin/crud"
	"github.com/ecc24clmk/clmk-site/internal/web/webtest"
)

func setup(t *testing.T) (*webtest.Env, *webtest.Client) {
	t.Helper()

	env := webtest.New(t)
	require.NoError(t, Handler.Init(env.App, env.Deps))

	return env, env.As(t, env.Users.Editor)
}

func image(t *testing.T, env *webtest.Env) models.GalleryImage {
	t.Helper()

	list, err := content.List[models.GalleryImage](env.Deps.DB, content.ByLatest)
	require.NoError(t, err)
	require.Len(t, list, 1)

	return list[0]
}

func TestCreatePublishes(t *testing.T) {
	env, editor := setup(t)

	resp := editor.PostMultipart(Path, url.Values{"title_fr": {"Culte"}, "category": {" culte "}},
		map[string][]byte{crud.FieldImage: webtest.PNG(t, 4, 4)})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	got := image(t, env)
	assert.True(t, got.IsActive, "new images are published even without the box")
	assert.Equal(t, "culte", got.Category)
	assert.True(t, env.Exists(t, got.Image))
}

func TestCreateNeedsFile(t *testing.T) {
	env, editor := setup(t)

	resp := editor.PostForm(Path, url.Values{"title_fr": {"Sans fichier"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, form.Errors{crud.FieldImage: "An image is required."}, env.Views.Last(t).Data["Errors"])
}

func TestUpdateToggles(t *testing.T) {
	env, editor := setup(t)

	require.Equal(t, fiber.StatusFound, editor.PostMultipart(Path, url.Values{"title": {"Photo"}},
		map[string][]byte{crud.FieldImage: webtest.PNG(t, 4, 4)}).StatusCode)

	target := Path + "/" + strconv.FormatUint(image(t, env).ID, 10)

	require.Equal(t, fiber.StatusFound, editor.PostForm(target, url.Values{"title": {"Photo"}}).StatusCode)
	assert.False(t, image(t, env).IsActive)

	require.Equal(t, fiber.StatusFound,
		editor.PostForm(target, url.Values{"title": {"Photo"}, "is_active": {"1"}}).StatusCode)
	assert.True(t, image(t, env).IsActive)
}

func TestAccess(t *testing.T) {
	env, _ := setup(t)

	assert.Equal(t, fiber.StatusForbidden, env.As(t, env.Users.News).Get(Path).StatusCode)
}
