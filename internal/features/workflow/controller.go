package workflow

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/common/apperr"
	"go-los/internal/common/roles"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

type reasonBody struct {
	Reason string `json:"reason"`
}

// Hold godoc
// @Summary Put the role-owned record on hold
// @Tags workflow
// @Router /api/workflow/hold/{id} [patch]
func (c *WorkflowController) Hold(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body reasonBody
	_ = ctx.BodyParser(&body)
	if err := c.Service.Hold(ctx.UserContext(), ctx.Params("id"), actor, body.Reason); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// Unhold godoc
// @Summary Release a held record
// @Tags workflow
// @Router /api/workflow/unhold/{id} [patch]
func (c *WorkflowController) Unhold(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body reasonBody
	_ = ctx.BodyParser(&body)
	if err := c.Service.Unhold(ctx.UserContext(), ctx.Params("id"), actor, body.Reason); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// Reject godoc
// @Summary Terminally reject the role-owned record
// @Tags workflow
// @Router /api/workflow/reject/{id} [patch]
func (c *WorkflowController) Reject(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body reasonBody
	_ = ctx.BodyParser(&body)
	if err := c.Service.Reject(ctx.UserContext(), ctx.Params("id"), actor, body.Reason); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// SendBack godoc
// @Summary Return a record to the previous pipeline stage
// @Tags workflow
// @Router /api/workflow/sendback/{id} [patch]
func (c *WorkflowController) SendBack(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		TargetRole string `json:"targetRole"`
		Reason     string `json:"reason"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !roles.Valid(body.TargetRole) {
		return common_api.Fail(ctx, apperr.InvalidTransition("unknown target role"))
	}
	if err := c.Service.SendBack(ctx.UserContext(), ctx.Params("id"), actor, roles.Role(body.TargetRole), body.Reason); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// ListHeld godoc
// @Summary List held records for the acting role
// @Tags workflow
// @Router /api/workflow/held [get]
func (c *WorkflowController) ListHeld(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListHeld(ctx.UserContext(), actor, page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListRejected godoc
// @Summary List rejected records for the acting role
// @Tags workflow
// @Router /api/workflow/rejected [get]
func (c *WorkflowController) ListRejected(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListRejected(ctx.UserContext(), actor, page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}
