package cam

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CamApi struct {
	controller *CamController
	config     *config.Config
}

func NewCamApi(controller *CamController, config *config.Config) *CamApi {
	return &CamApi{controller: controller, config: config}
}

func (h *CamApi) Setup(app *fiber.App) {
	group := app.Group("/api/cam", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/:leadId", h.controller.Get)
	group.Patch("/:leadId", middleware.RequireRole(roles.CreditManager), h.controller.Update)
}
