package sanction

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SanctionApi struct {
	controller *SanctionController
	config     *config.Config
}

func NewSanctionApi(controller *SanctionController, config *config.Config) *SanctionApi {
	return &SanctionApi{controller: controller, config: config}
}

func (h *SanctionApi) Setup(app *fiber.App) {
	group := app.Group("/api/sanctions",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(roles.SanctionHead))

	group.Get("/", h.controller.ListPending)
	group.Get("/approved", h.controller.ListApproved)
	group.Get("/:id", h.controller.Get)
	group.Patch("/approve/:id", h.controller.Approve)
}
