package employee

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmployeeApi struct {
	controller *EmployeeController
	config     *config.Config
}

func NewEmployeeApi(controller *EmployeeController, config *config.Config) *EmployeeApi {
	return &EmployeeApi{controller: controller, config: config}
}

func (h *EmployeeApi) Setup(app *fiber.App) {
	group := app.Group("/api/employees")

	group.Post("/login", h.controller.Login)

	authed := group.Use(middleware.AuthMiddleware(h.config.SkipAuth))
	authed.Post("/", middleware.RequireRole(roles.Admin), h.controller.Register)
	authed.Get("/:id", h.controller.Get)
}
