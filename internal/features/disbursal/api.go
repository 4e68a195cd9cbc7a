package disbursal

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DisbursalApi struct {
	controller *DisbursalController
	config     *config.Config
}

func NewDisbursalApi(controller *DisbursalController, config *config.Config) *DisbursalApi {
	return &DisbursalApi{controller: controller, config: config}
}

func (h *DisbursalApi) Setup(app *fiber.App) {
	group := app.Group("/api/disbursals", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", middleware.RequireRole(roles.DisbursalManager), h.controller.ListNew)
	group.Get("/allocated", middleware.RequireRole(roles.DisbursalManager), h.controller.ListAllocated)
	group.Get("/pending", middleware.RequireRole(roles.DisbursalHead), h.controller.ListPending)
	group.Get("/disbursed", middleware.RequireRole(roles.DisbursalHead), h.controller.ListDisbursed)
	group.Get("/:id", h.controller.Get)
	group.Patch("/:id", middleware.RequireRole(roles.DisbursalManager), h.controller.Allocate)
	group.Patch("/recommend/:id", middleware.RequireRole(roles.DisbursalManager), h.controller.Recommend)
	group.Patch("/approve/:id", middleware.RequireRole(roles.DisbursalHead), h.controller.Approve)
}
