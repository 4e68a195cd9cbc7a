package audit

import (
	common_api "go-los/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListByLead godoc
// @Summary List workflow logs for a lead
// @Tags audit
// @Router /api/logs/{leadId} [get]
func (c *AuditController) ListByLead(ctx *fiber.Ctx) error {
	leadID, err := primitive.ObjectIDFromHex(ctx.Params("leadId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead id"})
	}
	logs, err := c.Service.ListByLead(ctx.UserContext(), leadID)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(logs)
}
