package application

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApplicationController struct {
	Service ApplicationService
}

func NewApplicationController(service ApplicationService) *ApplicationController {
	return &ApplicationController{Service: service}
}

// Get godoc
// @Summary Get an application
// @Tags applications
// @Router /api/applications/{id} [get]
func (c *ApplicationController) Get(ctx *fiber.Ctx) error {
	app, err := c.Service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(app)
}

// Allocate godoc
// @Summary Allocate an application to the acting credit manager
// @Tags applications
// @Router /api/applications/{id} [patch]
func (c *ApplicationController) Allocate(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	app, err := c.Service.Allocate(ctx.UserContext(), ctx.Params("id"), actor)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"application": app})
}

// Recommend godoc
// @Summary Recommend an application for sanction
// @Tags applications
// @Router /api/applications/recommend/{id} [patch]
func (c *ApplicationController) Recommend(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	var body struct {
		Remarks string `json:"remarks"`
	}
	_ = ctx.BodyParser(&body)

	app, err := c.Service.Recommend(ctx.UserContext(), ctx.Params("id"), actor, body.Remarks)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "application": app})
}

// ListNew godoc
// @Summary List unallocated applications
// @Tags applications
// @Router /api/applications [get]
func (c *ApplicationController) ListNew(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListNew(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListAllocated godoc
// @Summary List applications allocated to the acting credit manager
// @Tags applications
// @Router /api/applications/allocated [get]
func (c *ApplicationController) ListAllocated(ctx *fiber.Ctx) error {
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

// ListRecommended godoc
// @Summary List applications the acting credit manager has recommended
// @Tags applications
// @Router /api/applications/recommended [get]
func (c *ApplicationController) ListRecommended(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListRecommended(ctx.UserContext(), actor, page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}
