package account

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccountApi struct {
	controller *AccountController
	config     *config.Config
}

func NewAccountApi(controller *AccountController, config *config.Config) *AccountApi {
	return &AccountApi{controller: controller, config: config}
}

func (h *AccountApi) Setup(app *fiber.App) {
	group := app.Group("/api/accounts",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(roles.AccountExecutive))

	group.Get("/verify", h.controller.LeadsToVerify)
	group.Patch("/verify/:loanNo", h.controller.Verify)
	group.Patch("/reject/:loanNo", h.controller.Reject)
}
