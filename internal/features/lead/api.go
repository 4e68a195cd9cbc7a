package lead

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	config     *config.Config
}

func NewLeadApi(controller *LeadController, config *config.Config) *LeadApi {
	return &LeadApi{controller: controller, config: config}
}

func (h *LeadApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.Create)
	group.Get("/", middleware.RequireRole(roles.Screener), h.controller.ListNew)
	group.Get("/allocated", middleware.RequireRole(roles.Screener), h.controller.ListAllocated)
	group.Get("/:id", h.controller.Get)
	group.Patch("/:id", middleware.RequireRole(roles.Screener), h.controller.Allocate)
	group.Patch("/recommend/:id", middleware.RequireRole(roles.Screener), h.controller.Recommend)
}
