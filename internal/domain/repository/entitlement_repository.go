package repository

import (
	"context"

	"github.com/rotinafit/entitlement-api/internal/domain/entity"
)

// EntitlementRepository persists per-user premium state.
type EntitlementRepository interface {
	// UpsertPremium merges the grant into the user's entitlement record,
	// setting isPremium true and stamping premiumUpdatedAt with the store's
	// server clock. It also mirrors {premium: true} into the user's
	// config/preferences document for legacy readers; both writes commit
	// together.
	UpsertPremium(ctx context.Context, subjectID string, grant entity.PremiumGrant) error

	// Get returns the user's entitlement record, or ErrEntitlementNotFound
	// when the user has no record yet.
	Get(ctx context.Context, subjectID string) (*entity.Entitlement, error)
}
