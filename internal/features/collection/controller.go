package collection

import (
	common_api "go-los/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type CollectionController struct {
	Service CollectionService
}

func NewCollectionController(service CollectionService) *CollectionController {
	return &CollectionController{Service: service}
}

// ListActive godoc
// @Summary List borrowers with live disbursed loans
// @Tags collections
// @Router /api/collections/active [get]
func (c *CollectionController) ListActive(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListActive(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// ListClosed godoc
// @Summary List settled, closed and written-off accounts
// @Tags collections
// @Router /api/collections/closed [get]
func (c *CollectionController) ListClosed(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 10))
	out, err := c.Service.ListClosedAccounts(ctx.UserContext(), page, limit)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(out)
}

// Get godoc
// @Summary Get a borrower's ledger entry by loan number
// @Tags collections
// @Router /api/collections/{loanNo} [get]
func (c *CollectionController) Get(ctx *fiber.Ctx) error {
	doc, entry, err := c.Service.GetByLoanNo(ctx.UserContext(), ctx.Params("loanNo"))
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"pan": doc.Pan, "entry": entry})
}

// ReportPayment godoc
// @Summary Record payment evidence against an active loan
// @Tags collections
// @Router /api/collections/{loanNo} [patch]
func (c *CollectionController) ReportPayment(ctx *fiber.Ctx) error {
	var report PaymentReport
	if err := ctx.BodyParser(&report); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := c.Service.ReportPayment(ctx.UserContext(), ctx.Params("loanNo"), report); err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}
