package sanction

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SanctionController struct {
	Service SanctionService
}

func NewSanctionController(service SanctionService) *SanctionController {
	return &SanctionController{Service: service}
}

// Get godoc
// @Summary Get a sanction
// @Tags sanctions
// @Router /api/sanctions/{id} [get]
func (c *SanctionController) Get(ctx *fiber.Ctx) error {
	sanction, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(sanction)
}

// Approve godoc
// @Summary Approve a sanction and assign the loan number
// @Tags sanctions
// @Router /api/sanctions/approve/{id} [patch]
func (c *SanctionController) Approve(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Remarks string `json:"remarks"`
	}
	_ = ctx.BodyParser(&body)

	sanction, err := c.Service.Approve(ctx.UserContext(), ctx.Params("id"), actor, body.Remarks)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "sanction": sanction})
}

// ListPending godoc
// @Summary List sanctions awaiting a decision
// @Tags sanctions
// @Router /api/sanctions [get]
func (c *SanctionController) ListPending(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListPending(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListApproved godoc
// @Summary List approved sanctions
// @Tags sanctions
// @Router /api/sanctions/approved [get]
func (c *SanctionController) ListApproved(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListApproved(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}
