package api

import (
	"go-los/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

// Route is implemented by every feature's api type so Fx can collect them
// into the "routes" group and register them against the fiber app.
type Route interface {
	Setup(app *fiber.App)
}

// Fail renders a service error with the status its taxonomy kind maps to.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
