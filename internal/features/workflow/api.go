package workflow

import (
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) *WorkflowApi {
	return &WorkflowApi{controller: controller, config: config}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	group := app.Group("/api/workflow", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/held", h.controller.ListHeld)
	group.Get("/rejected", h.controller.ListRejected)
	group.Patch("/hold/:id", h.controller.Hold)
	group.Patch("/unhold/:id", h.controller.Unhold)
	group.Patch("/reject/:id", h.controller.Reject)
	group.Patch("/sendback/:id", h.controller.SendBack)
}
