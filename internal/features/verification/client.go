package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-los/internal/common/apperr"
	"go-los/internal/config"

	"go.uber.org/zap"
)

// PanVerifier checks a PAN against the bureau.
type PanVerifier interface {
	VerifyPan(ctx context.Context, pan string) (*PanResult, error)
}

// AadhaarClient drives the OTP-based Aadhaar flow.
type AadhaarClient interface {
	GenerateOtp(ctx context.Context, aadhaar string) (transactionID string, err error)
	VerifyOtp(ctx context.Context, transactionID, otp string) (*AadhaarResult, error)
}

// BankVerifier confirms account ownership with a penny drop.
type BankVerifier interface {
	PennyDrop(ctx context.Context, accountNo, ifsc string) (*BankResult, error)
}

type PanResult struct {
	Pan      string `json:"pan"`
	FullName string `json:"fullName"`
	Valid    bool   `json:"valid"`
}

type AadhaarResult struct {
	Name    string `json:"name"`
	Dob     string `json:"dob"`
	Address string `json:"address"`
}

type BankResult struct {
	AccountNo      string `json:"accountNo"`
	BeneficiaryName string `json:"beneficiaryName"`
	Verified       bool   `json:"verified"`
}

// HttpVerificationClient implements all three collaborators against the
// configured provider endpoints.
type HttpVerificationClient struct {
	http   *http.Client
	config *config.Config
	logger *zap.Logger
}

func NewHttpVerificationClient(cfg *config.Config, logger *zap.Logger) *HttpVerificationClient {
	return &HttpVerificationClient{
		http:   &http.Client{Timeout: 30 * time.Second},
		config: cfg,
		logger: logger,
	}
}

func (c *HttpVerificationClient) VerifyPan(ctx context.Context, pan string) (*PanResult, error) {
	var result PanResult
	err := c.post(ctx, c.config.DigitapURL+"/validation/kyc/v1/pan_basic", map[string]string{"pan": pan}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HttpVerificationClient) GenerateOtp(ctx context.Context, aadhaar string) (string, error) {
	var result struct {
		TransactionID string `json:"transactionId"`
	}
	err := c.post(ctx, c.config.DigitapURL+"/ent/v3/kyc/intiate-kyc-auto", map[string]string{"aadhaar": aadhaar}, &result)
	if err != nil {
		return "", err
	}
	return result.TransactionID, nil
}

func (c *HttpVerificationClient) VerifyOtp(ctx context.Context, transactionID, otp string) (*AadhaarResult, error) {
	var result AadhaarResult
	err := c.post(ctx, c.config.DigitapURL+"/ent/v3/kyc/submit-otp", map[string]string{
		"transactionId": transactionID,
		"otp":           otp,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HttpVerificationClient) PennyDrop(ctx context.Context, accountNo, ifsc string) (*BankResult, error) {
	var result BankResult
	err := c.post(ctx, c.config.PennyDropURL, map[string]string{
		"accountNo": accountNo,
		"ifsc":      ifsc,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HttpVerificationClient) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Id", c.config.AppId)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("verification provider unreachable", zap.String("url", url), zap.Error(err))
		return apperr.Wrap(apperr.KindExternalService, "verification provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("verification provider error",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return apperr.New(apperr.KindExternalService, "verification provider returned "+resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
