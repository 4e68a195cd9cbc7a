package cam

import (
	common_api "go-los/internal/common/api"
	"go-los/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CamController struct {
	Repo CamRepository
}

func NewCamController(repo CamRepository) *CamController {
	return &CamController{Repo: repo}
}

// Get godoc
// @Summary Get the credit assessment memo for a lead
// @Tags cam
// @Router /api/cam/{leadId} [get]
func (c *CamController) Get(ctx *fiber.Ctx) error {
	leadID, err := primitive.ObjectIDFromHex(ctx.Params("leadId"))
	if err != nil {
		return common_api.Fail(ctx, apperr.NotFound("cam details not found"))
	}
	details, err := c.Repo.FindByLead(ctx.UserContext(), leadID)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	if details == nil {
		return common_api.Fail(ctx, apperr.NotFound("cam details not found"))
	}
	return ctx.JSON(details)
}

// Update godoc
// @Summary Record or revise credit assessment terms for a lead
// @Tags cam
// @Router /api/cam/{leadId} [patch]
func (c *CamController) Update(ctx *fiber.Ctx) error {
	leadID, err := primitive.ObjectIDFromHex(ctx.Params("leadId"))
	if err != nil {
		return common_api.Fail(ctx, apperr.NotFound("cam details not found"))
	}

	var body Details
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fields := bson.M{
		"loanRecommended":   body.LoanRecommended,
		"roi":               body.Roi,
		"eligibleTenure":    body.EligibleTenure,
		"repaymentAmount":   body.RepaymentAmount,
		"netAdminFeeAmount": body.NetAdminFeeAmount,
		"penalInterest":     body.PenalInterest,
	}
	if body.DisbursalDate != nil {
		fields["disbursalDate"] = body.DisbursalDate
	}
	if body.RepaymentDate != nil {
		fields["repaymentDate"] = body.RepaymentDate
	}

	details, err := c.Repo.UpdateDetails(ctx.UserContext(), leadID, fields)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(details)
}
