package entity

import "time"

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Valid returns true for the platforms the verification flow supports.
func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

// Subscription product identifiers sold in the mobile apps. The verify
// endpoint rejects anything outside this set.
const (
	ProductPremiumMonthly = "rotinafit_premium_monthly"
	ProductPremiumYearly  = "rotinafit_premium_yearly"
)

var allowedProducts = map[string]struct{}{
	ProductPremiumMonthly: {},
	ProductPremiumYearly:  {},
}

// AllowedProduct reports whether productID is a known subscription product.
func AllowedProduct(productID string) bool {
	_, ok := allowedProducts[productID]
	return ok
}

// Entitlement is the per-user premium record stored in the users collection.
// PremiumUntil is an RFC 3339 timestamp, or nil when the vendor reported no
// expiry. IsPremium is only ever set to true by the verification flow;
// expiry enforcement happens in the clients.
type Entitlement struct {
	IsPremium        bool      `firestore:"isPremium"`
	PremiumUntil     *string   `firestore:"premiumUntil"`
	ProductID        string    `firestore:"productId"`
	PurchaseID       *string   `firestore:"purchaseId"`
	Platform         Platform  `firestore:"platform"`
	PremiumUpdatedAt time.Time `firestore:"premiumUpdatedAt"`
}

// PremiumGrant is the set of fields merged into a user's entitlement record
// after a successful vendor verification.
type PremiumGrant struct {
	PremiumUntil *string
	ProductID    string
	PurchaseID   *string
	Platform     Platform
}
