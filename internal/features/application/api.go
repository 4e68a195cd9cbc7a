package application

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApplicationApi struct {
	controller *ApplicationController
	config     *config.Config
}

func NewApplicationApi(controller *ApplicationController, config *config.Config) *ApplicationApi {
	return &ApplicationApi{controller: controller, config: config}
}

func (h *ApplicationApi) Setup(app *fiber.App) {
	group := app.Group("/api/applications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", middleware.RequireRole(roles.CreditManager), h.controller.ListNew)
	group.Get("/allocated", middleware.RequireRole(roles.CreditManager), h.controller.ListAllocated)
	group.Get("/recommended", middleware.RequireRole(roles.CreditManager), h.controller.ListRecommended)
	group.Get("/:id", h.controller.Get)
	group.Patch("/:id", middleware.RequireRole(roles.CreditManager), h.controller.Allocate)
	group.Patch("/recommend/:id", middleware.RequireRole(roles.CreditManager), h.controller.Recommend)
}
