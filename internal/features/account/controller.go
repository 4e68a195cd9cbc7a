package account

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccountController struct {
	Service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{Service: service}
}

// LeadsToVerify godoc
// @Summary List loans with payment evidence awaiting confirmation
// @Tags accounts
// @Router /api/accounts/verify [get]
func (c *AccountController) LeadsToVerify(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.LeadsToVerify(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// Verify godoc
// @Summary Confirm a reported payment against the bank statement
// @Tags accounts
// @Router /api/accounts/verify/{loanNo} [patch]
func (c *AccountController) Verify(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Utr    string `json:"utr"`
		Status string `json:"status"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := c.Service.VerifyActivePayment(ctx.UserContext(), ctx.Params("loanNo"), actor, body.Utr, body.Status); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// Reject godoc
// @Summary Reject a pending payment report
// @Tags accounts
// @Router /api/accounts/reject/{loanNo} [patch]
func (c *AccountController) Reject(ctx *fiber.Ctx) error {
	var body struct {
		Utr string `json:"utr"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := c.Service.RejectPaymentVerification(ctx.UserContext(), ctx.Params("loanNo"), body.Utr); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}
