package command

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/rotinafit/entitlement-api/internal/application/dto"
	"github.com/rotinafit/entitlement-api/internal/domain/entity"
	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
	"github.com/rotinafit/entitlement-api/internal/domain/repository"
)

// VerificationResult is what a vendor validator reports back: the
// subscription expiry as an RFC 3339 string, or nil when the vendor
// response carried none.
type VerificationResult struct {
	PremiumUntil *string
}

// PurchaseVerifier validates a purchase with its platform vendor. For iOS
// the token is the full receipt blob; productID is accepted for symmetry
// even though the App Store call does not need it.
type PurchaseVerifier interface {
	VerifySubscription(ctx context.Context, purchaseToken, productID string) (*VerificationResult, error)
}

// VerifyPurchaseCommand runs the authenticate -> validate -> persist chain
// for one purchase verification request.
type VerifyPurchaseCommand struct {
	entitlements    repository.EntitlementRepository
	iosVerifier     PurchaseVerifier
	androidVerifier PurchaseVerifier
	logger          *zap.Logger
}

// NewVerifyPurchaseCommand creates a new verify purchase command
func NewVerifyPurchaseCommand(
	entitlements repository.EntitlementRepository,
	iosVerifier PurchaseVerifier,
	androidVerifier PurchaseVerifier,
	logger *zap.Logger,
) *VerifyPurchaseCommand {
	return &VerifyPurchaseCommand{
		entitlements:    entitlements,
		iosVerifier:     iosVerifier,
		androidVerifier: androidVerifier,
		logger:          logger,
	}
}

// Execute verifies the purchase with the platform vendor and merges the
// resulting entitlement into the caller's record. Caller errors come back
// as ErrUnauthenticated or ErrInvalidArgument before any vendor call;
// vendor failures come back as ErrVerificationFailed with the diagnostic
// detail logged, never returned.
func (c *VerifyPurchaseCommand) Execute(ctx context.Context, subjectID string, req *dto.VerifyPurchaseRequest) (*dto.VerifyPurchaseResponse, error) {
	if subjectID == "" {
		return nil, domainErrors.ErrUnauthenticated
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var verifier PurchaseVerifier
	switch entity.Platform(req.Platform) {
	case entity.PlatformIOS:
		verifier = c.iosVerifier
	case entity.PlatformAndroid:
		verifier = c.androidVerifier
	}

	result, err := verifier.VerifySubscription(ctx, req.PurchaseToken, req.ProductID)
	if err != nil {
		c.logger.Error("vendor verification failed",
			zap.String("platform", req.Platform),
			zap.String("product_id", req.ProductID),
			zap.Error(err),
		)
		sentry.CaptureException(err)
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrVerificationFailed, req.Platform)
	}

	grant := entity.PremiumGrant{
		PremiumUntil: result.PremiumUntil,
		ProductID:    req.ProductID,
		PurchaseID:   req.PurchaseID,
		Platform:     entity.Platform(req.Platform),
	}
	if err := c.entitlements.UpsertPremium(ctx, subjectID, grant); err != nil {
		c.logger.Error("entitlement write failed",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		sentry.CaptureException(err)
		return nil, fmt.Errorf("persist entitlement: %w", err)
	}

	c.logger.Info("purchase verified",
		zap.String("subject_id", subjectID),
		zap.String("platform", req.Platform),
		zap.String("product_id", req.ProductID),
	)

	return &dto.VerifyPurchaseResponse{
		Success:      true,
		PremiumUntil: result.PremiumUntil,
	}, nil
}

func validateRequest(req *dto.VerifyPurchaseRequest) error {
	if req == nil || req.PurchaseToken == "" || req.ProductID == "" || req.Platform == "" {
		return fmt.Errorf("%w: purchaseToken, productId and platform are required", domainErrors.ErrInvalidArgument)
	}
	if !entity.AllowedProduct(req.ProductID) {
		return fmt.Errorf("%w: unknown productId", domainErrors.ErrInvalidArgument)
	}
	if !entity.Platform(req.Platform).Valid() {
		return fmt.Errorf("%w: platform must be android or ios", domainErrors.ErrInvalidArgument)
	}
	return nil
}
