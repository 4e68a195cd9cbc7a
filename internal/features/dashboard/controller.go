package dashboard

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

// TotalRecords godoc
// @Summary Per-stage record counts for the landing page
// @Tags dashboard
// @Router /api/dashboard [get]
func (c *DashboardController) TotalRecords(ctx *fiber.Ctx) error {
	actor, err := middleware.Actor(ctx)
	if err != nil {
		return err
	}
	out, err := c.Service.TotalRecords(ctx.UserContext(), actor)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}
