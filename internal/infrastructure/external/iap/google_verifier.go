package iap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/option"

	"github.com/rotinafit/entitlement-api/internal/application/command"
)

// PackageName is the Android application the Play purchases belong to.
const PackageName = "com.rotinafit.rotinafit"

// GoogleVerifier validates Play subscription purchases through the Android
// Publisher API, authenticating with a service-account credential.
type GoogleVerifier struct {
	serviceAccountJSON string
	packageName        string
	logger             *zap.Logger
	opts               []option.ClientOption
}

// NewGoogleVerifier creates a Google Play verifier. Extra client options are
// appended to the Android Publisher service; tests use them to point the
// service at a local endpoint.
func NewGoogleVerifier(serviceAccountJSON string, logger *zap.Logger, opts ...option.ClientOption) *GoogleVerifier {
	return &GoogleVerifier{
		serviceAccountJSON: serviceAccountJSON,
		packageName:        PackageName,
		logger:             logger,
		opts:               opts,
	}
}

// VerifySubscription queries the subscription status for the given purchase
// token and maps expiryTimeMillis to an RFC 3339 timestamp. A response
// without an expiry yields no expiry rather than an error.
func (v *GoogleVerifier) VerifySubscription(ctx context.Context, purchaseToken, subscriptionID string) (*command.VerificationResult, error) {
	opts := v.opts
	if v.serviceAccountJSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(v.serviceAccountJSON), androidpublisher.AndroidpublisherScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		opts = append([]option.ClientOption{option.WithTokenSource(creds.TokenSource)}, v.opts...)
	}

	service, err := androidpublisher.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create android publisher service: %w", err)
	}

	sub, err := service.Purchases.Subscriptions.Get(v.packageName, subscriptionID, purchaseToken).
		Context(ctx).
		Do()
	if err != nil {
		v.logger.Error("play subscription lookup failed",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("play subscriptions.get: %w", err)
	}

	if sub.ExpiryTimeMillis == 0 {
		return &command.VerificationResult{}, nil
	}

	until := time.UnixMilli(sub.ExpiryTimeMillis).UTC().Format(time.RFC3339)
	return &command.VerificationResult{PremiumUntil: &until}, nil
}
