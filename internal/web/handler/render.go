package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ecc24clmk/clmk-site/internal/web/session"
)

// Admin renders a back office page. The queued flash notice is consumed
// here so it shows exactly once.
func Admin(c *fiber.Ctx, template string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	if f := session.PopFlash(c); f != nil {
		data["Flash"] = f
	}

	return c.Render(template, data, AdminLayout)
}

// AdminStatus is Admin with an explicit status code.
func AdminStatus(c *fiber.Ctx, status int, template string, data fiber.Map) error {
	c.Status(status)
	return Admin(c, template, data)
}

// Redirect queues a success notice and redirects with 302.
func Redirect(c *fiber.Ctx, to, notice string) error {
	if notice != "" {
		if err := session.SetFlash(c, session.FlashSuccess, notice); err != nil {
			return err
		}
	}

	return c.Redirect(to, fiber.StatusFound)
}

// ParamID returns the numeric :id route parameter. Anything else is a 404.
func ParamID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}

	return id, nil
}
