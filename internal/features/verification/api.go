package verification

import (
	"go-los/internal/common/roles"
	"go-los/internal/config"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type VerificationApi struct {
	controller *VerificationController
	config     *config.Config
}

func NewVerificationApi(controller *VerificationController, config *config.Config) *VerificationApi {
	return &VerificationApi{controller: controller, config: config}
}

func (h *VerificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/verify",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(roles.Screener, roles.CreditManager, roles.DisbursalManager))

	group.Post("/pan", h.controller.VerifyPan)
	group.Post("/aadhaar/otp", h.controller.GenerateOtp)
	group.Post("/aadhaar", h.controller.VerifyOtp)
	group.Post("/bank", h.controller.PennyDrop)
}
