package collection

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CollectionApi struct {
	controller *CollectionController
	config     *config.Config
}

func NewCollectionApi(controller *CollectionController, config *config.Config) *CollectionApi {
	return &CollectionApi{controller: controller, config: config}
}

func (h *CollectionApi) Setup(app *fiber.App) {
	group := app.Group("/api/collections",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(roles.CollectionExecutive, roles.AccountExecutive))

	group.Get("/active", h.controller.ListActive)
	group.Get("/closed", h.controller.ListClosed)
	group.Get("/:loanNo", h.controller.Get)
	group.Patch("/:loanNo", middleware.RequireRole(roles.CollectionExecutive), h.controller.ReportPayment)
}
