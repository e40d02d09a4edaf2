package dto

// VerifyPurchaseRequest is the payload sent by the mobile app after a
// purchase or restore. For iOS the purchase token is the full base64 receipt
// blob; for Android it is the Play purchase token.
type VerifyPurchaseRequest struct {
	PurchaseToken string  `json:"purchaseToken"`
	ProductID     string  `json:"productId"`
	PurchaseID    *string `json:"purchaseId"`
	Platform      string  `json:"platform"`
}

// VerifyPurchaseResponse is returned on successful verification.
// PremiumUntil is omitted when the vendor reported no expiry.
type VerifyPurchaseResponse struct {
	Success      bool    `json:"success"`
	PremiumUntil *string `json:"premiumUntil,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// EntitlementResponse describes the caller's stored premium state.
type EntitlementResponse struct {
	IsPremium    bool    `json:"isPremium"`
	PremiumUntil *string `json:"premiumUntil,omitempty"`
	ProductID    string  `json:"productId,omitempty"`
	Platform     string  `json:"platform,omitempty"`
}
