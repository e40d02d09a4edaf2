package iap

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/awa/go-iap/appstore"
	"go.uber.org/zap"

	"github.com/rotinafit/entitlement-api/internal/application/command"
	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/httpclient"
)

// statusSandboxReceipt means a sandbox receipt was sent to the production
// endpoint; Apple expects the caller to retry against sandbox.
const statusSandboxReceipt = 21007

// AppleVerifier validates App Store receipts via the verifyReceipt endpoint.
// A receipt that the production endpoint reports as a sandbox receipt is
// transparently re-posted to the sandbox endpoint; the reverse escalation is
// never performed.
type AppleVerifier struct {
	sharedSecret  string
	productionURL string
	sandboxURL    string
	client        *http.Client
	logger        *zap.Logger
}

// NewAppleVerifier creates an Apple verifier with the App Store shared secret.
func NewAppleVerifier(sharedSecret string, logger *zap.Logger) *AppleVerifier {
	return &AppleVerifier{
		sharedSecret:  sharedSecret,
		productionURL: appstore.ProductionURL,
		sandboxURL:    appstore.SandboxURL,
		client:        &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
	}
}

// WithEndpoints overrides the verifyReceipt URLs. Used in tests.
func (v *AppleVerifier) WithEndpoints(productionURL, sandboxURL string) *AppleVerifier {
	v.productionURL = productionURL
	v.sandboxURL = sandboxURL
	return v
}

// VerifySubscription posts the receipt to the production endpoint and
// interprets the status. productID is accepted for interface symmetry; the
// verifyReceipt call covers the whole receipt.
func (v *AppleVerifier) VerifySubscription(ctx context.Context, receiptData, productID string) (*command.VerificationResult, error) {
	body := appstore.IAPRequest{
		ReceiptData:            receiptData,
		Password:               v.sharedSecret,
		ExcludeOldTransactions: true,
	}

	var resp appstore.IAPResponse
	if err := httpclient.PostJSON(ctx, v.client, v.productionURL, body, &resp); err != nil {
		return nil, fmt.Errorf("apple verifyReceipt: %w", err)
	}

	if resp.Status == statusSandboxReceipt {
		v.logger.Info("sandbox receipt sent to production, retrying against sandbox")
		resp = appstore.IAPResponse{}
		if err := httpclient.PostJSON(ctx, v.client, v.sandboxURL, body, &resp); err != nil {
			return nil, fmt.Errorf("apple verifyReceipt (sandbox): %w", err)
		}
	}

	if resp.Status != 0 {
		v.logger.Error("apple verifyReceipt rejected receipt",
			zap.Int("status", resp.Status),
			zap.Error(appstore.HandleError(resp.Status)),
		)
		return nil, fmt.Errorf("apple verifyReceipt status %d: %w", resp.Status, appstore.HandleError(resp.Status))
	}

	return extractExpiry(resp)
}

// extractExpiry takes the last entry of latest_receipt_info, matching how
// the app clients have always read it. An empty list or a missing
// expires_date_ms yields no expiry rather than an error.
func extractExpiry(resp appstore.IAPResponse) (*command.VerificationResult, error) {
	entries := resp.LatestReceiptInfo
	if len(entries) == 0 {
		return &command.VerificationResult{}, nil
	}

	ms := entries[len(entries)-1].ExpiresDateMS
	if ms == "" {
		return &command.VerificationResult{}, nil
	}

	millis, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: expires_date_ms %q", domainErrors.ErrMalformedVendorResponse, ms)
	}

	until := time.UnixMilli(millis).UTC().Format(time.RFC3339)
	return &command.VerificationResult{PremiumUntil: &until}, nil
}
