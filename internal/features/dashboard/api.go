package dashboard

import (
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	config     *config.Config
}

func NewDashboardApi(controller *DashboardController, config *config.Config) *DashboardApi {
	return &DashboardApi{controller: controller, config: config}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.TotalRecords)
}
