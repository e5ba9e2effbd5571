package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TemplateError is the page rendered for failed requests.
const TemplateError = "errors/error"

// ErrorHandler renders failed requests with the error page. Messages of
// server errors are not shown to the visitor.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := MsgInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
	}

	c.Status(code)

	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(fiber.Map{"error": message})
	}

	if errRender := c.Render(TemplateError, fiber.Map{
		"Status":  code,
		"Message": message,
	}, BaseLayout); errRender != nil {
		log.Error().Err(errRender).Msg("failed to render error page")

		return c.SendString(message)
	}

	return nil
}
