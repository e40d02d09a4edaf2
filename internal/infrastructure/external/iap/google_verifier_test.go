package iap_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/rotinafit/entitlement-api/internal/infrastructure/external/iap"
)

func newGoogleVerifier(endpoint string) *iap.GoogleVerifier {
	// Empty credential skips token-source construction; the test endpoint
	// is unauthenticated.
	return iap.NewGoogleVerifier("", zap.NewNop(),
		option.WithEndpoint(endpoint),
		option.WithoutAuthentication(),
	)
}

func TestVerifySubscription_Expiry(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"kind": "androidpublisher#subscriptionPurchase", "expiryTimeMillis": "1735689600000", "autoRenewing": true}`)
	}))
	defer srv.Close()

	v := newGoogleVerifier(srv.URL)
	result, err := v.VerifySubscription(context.Background(), "token-abc", "rotinafit_premium_monthly")

	require.NoError(t, err)
	require.NotNil(t, result.PremiumUntil)
	want := time.UnixMilli(1735689600000).UTC().Format(time.RFC3339)
	assert.Equal(t, want, *result.PremiumUntil)

	assert.Contains(t, gotPath, "applications/"+iap.PackageName)
	assert.Contains(t, gotPath, "subscriptions/rotinafit_premium_monthly")
	assert.Contains(t, gotPath, "tokens/token-abc")
}

func TestVerifySubscription_NoExpiryInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"kind": "androidpublisher#subscriptionPurchase"}`)
	}))
	defer srv.Close()

	v := newGoogleVerifier(srv.URL)
	result, err := v.VerifySubscription(context.Background(), "token-abc", "rotinafit_premium_monthly")

	require.NoError(t, err)
	assert.Nil(t, result.PremiumUntil)
}

func TestVerifySubscription_VendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 400, "message": "Invalid purchase token"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	v := newGoogleVerifier(srv.URL)
	result, err := v.VerifySubscription(context.Background(), "bad-token", "rotinafit_premium_monthly")

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestVerifySubscription_BadCredential(t *testing.T) {
	v := iap.NewGoogleVerifier("not json", zap.NewNop())
	_, err := v.VerifySubscription(context.Background(), "token", "rotinafit_premium_monthly")
	require.Error(t, err)
}
