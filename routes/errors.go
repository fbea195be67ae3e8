package routes

import (
	"storefront/apierror"

	"github.com/gofiber/fiber/v2"
)

// statusCode answers GET /errors/:code with the standard body for that
// status.
func (h *handler) statusCode(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil || code < 400 || code > 599 {
		return apierror.Validation("code must be an HTTP error status")
	}
	return c.Status(code).JSON(apierror.NewApiResponse(code, ""))
}
