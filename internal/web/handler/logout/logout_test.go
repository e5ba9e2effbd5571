package logout

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/web/handler/login"
	"github.com/ecc24clmk/clmk-site/internal/web/webtest"
)

func TestLogout(t *testing.T) {
	for _, post := range []bool{false, true} {
		env := webtest.New(t)

		var s Service
		require.NoError(t, s.Init(env.App, env.Deps))

		env.App.Get("/admin/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

		admin := env.As(t, env.Users.Admin)
		require.Equal(t, fiber.StatusOK, admin.Get("/admin/ping").StatusCode)

		var resp *http.Response
		if post {
			resp = admin.PostForm(Path, nil)
		} else {
			resp = admin.Get(Path)
		}

		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, login.Path, resp.Header.Get(fiber.HeaderLocation))

		resp = admin.Get("/admin/ping")
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, "the session is gone")
	}
}
