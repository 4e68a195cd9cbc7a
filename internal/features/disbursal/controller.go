package disbursal

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DisbursalController struct {
	Service DisbursalService
}

func NewDisbursalController(service DisbursalService) *DisbursalController {
	return &DisbursalController{Service: service}
}

// Get godoc
// @Summary Get a disbursal
// @Tags disbursals
// @Router /api/disbursals/{id} [get]
func (c *DisbursalController) Get(ctx *fiber.Ctx) error {
	disbursal, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(disbursal)
}

// Allocate godoc
// @Summary Allocate a disbursal to the acting disbursal manager
// @Tags disbursals
// @Router /api/disbursals/{id} [patch]
func (c *DisbursalController) Allocate(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	disbursal, err := c.Service.Allocate(ctx.UserContext(), ctx.Params("id"), actor)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"disbursal": disbursal})
}

// Recommend godoc
// @Summary Recommend a disbursal for head approval
// @Tags disbursals
// @Router /api/disbursals/recommend/{id} [patch]
func (c *DisbursalController) Recommend(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Remarks string `json:"remarks"`
	}
	_ = ctx.BodyParser(&body)

	disbursal, err := c.Service.Recommend(ctx.UserContext(), ctx.Params("id"), actor, body.Remarks)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "disbursal": disbursal})
}

// Approve godoc
// @Summary Approve and pay out a disbursal
// @Tags disbursals
// @Router /api/disbursals/approve/{id} [patch]
func (c *DisbursalController) Approve(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Payment
		Remarks string `json:"remarks"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	disbursal, err := c.Service.Approve(ctx.UserContext(), ctx.Params("id"), actor, body.Payment, body.Remarks)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "disbursal": disbursal})
}

// ListNew godoc
// @Summary List unallocated disbursals
// @Tags disbursals
// @Router /api/disbursals [get]
func (c *DisbursalController) ListNew(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListNew(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListAllocated godoc
// @Summary List disbursals allocated to the acting disbursal manager
// @Tags disbursals
// @Router /api/disbursals/allocated [get]
func (c *DisbursalController) ListAllocated(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListAllocated(ctx.UserContext(), actor, page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListPending godoc
// @Summary List recommended disbursals awaiting payout
// @Tags disbursals
// @Router /api/disbursals/pending [get]
func (c *DisbursalController) ListPending(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListPending(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListDisbursed godoc
// @Summary List paid-out disbursals
// @Tags disbursals
// @Router /api/disbursals/disbursed [get]
func (c *DisbursalController) ListDisbursed(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListDisbursed(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}
