package verification

import (
	common_api "go-los/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type VerificationController struct {
	Pan     PanVerifier
	Aadhaar AadhaarClient
	Bank    BankVerifier
}

func NewVerificationController(pan PanVerifier, aadhaar AadhaarClient, bank BankVerifier) *VerificationController {
	return &VerificationController{Pan: pan, Aadhaar: aadhaar, Bank: bank}
}

// VerifyPan godoc
// @Summary Verify a PAN with the bureau
// @Tags verification
// @Router /api/verify/pan [post]
func (c *VerificationController) VerifyPan(ctx *fiber.Ctx) error {
	var body struct {
		Pan string `json:"pan"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	result, err := c.Pan.VerifyPan(ctx.UserContext(), body.Pan)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(result)
}

// GenerateOtp godoc
// @Summary Start Aadhaar OTP verification
// @Tags verification
// @Router /api/verify/aadhaar/otp [post]
func (c *VerificationController) GenerateOtp(ctx *fiber.Ctx) error {
	var body struct {
		Aadhaar string `json:"aadhaar"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	transactionID, err := c.Aadhaar.GenerateOtp(ctx.UserContext(), body.Aadhaar)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"transactionId": transactionID})
}

// VerifyOtp godoc
// @Summary Complete Aadhaar OTP verification
// @Tags verification
// @Router /api/verify/aadhaar [post]
func (c *VerificationController) VerifyOtp(ctx *fiber.Ctx) error {
	var body struct {
		TransactionID string `json:"transactionId"`
		Otp           string `json:"otp"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	result, err := c.Aadhaar.VerifyOtp(ctx.UserContext(), body.TransactionID, body.Otp)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(result)
}

// PennyDrop godoc
// @Summary Verify bank account ownership via penny drop
// @Tags verification
// @Router /api/verify/bank [post]
func (c *VerificationController) PennyDrop(ctx *fiber.Ctx) error {
	var body struct {
		AccountNo string `json:"accountNo"`
		Ifsc      string `json:"ifsc"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	result, err := c.Bank.PennyDrop(ctx.UserContext(), body.AccountNo, body.Ifsc)
	if err != nil {
		return common_api.Fail(ctx, err)
	}
	return ctx.JSON(result)
}
