package lead

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	Service LeadService
}

func NewLeadController(service LeadService) *LeadController {
	return &LeadController{Service: service}
}

// Create godoc
// @Summary Register a borrower inquiry
// @Tags leads
// @Router /api/leads [post]
func (c *LeadController) Create(ctx *fiber.Ctx) error {
	var input Lead
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := c.Service.Create(ctx.UserContext(), &input); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(input)
}

// Get godoc
// @Summary Get a lead
// @Tags leads
// @Router /api/leads/{id} [get]
func (c *LeadController) Get(ctx *fiber.Ctx) error {
	lead, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(lead)
}

// Allocate godoc
// @Summary Allocate a lead to the acting screener
// @Tags leads
// @Router /api/leads/{id} [patch]
func (c *LeadController) Allocate(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	lead, err := c.Service.Allocate(ctx.UserContext(), ctx.Params("id"), actor)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"lead": lead})
}

// Recommend godoc
// @Summary Recommend a lead for credit review
// @Tags leads
// @Router /api/leads/recommend/{id} [patch]
func (c *LeadController) Recommend(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Remarks string `json:"remarks"`
	}
	_ = ctx.BodyParser(&body)

	lead, err := c.Service.Recommend(ctx.UserContext(), ctx.Params("id"), actor, body.Remarks)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "lead": lead})
}

// ListNew godoc
// @Summary List unallocated leads
// @Tags leads
// @Router /api/leads [get]
func (c *LeadController) ListNew(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListNew(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListAllocated godoc
// @Summary List leads allocated to the acting screener
// @Tags leads
// @Router /api/leads/allocated [get]
func (c *LeadController) ListAllocated(ctx *fiber.Ctx) error {
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
