// Package firestore implements the entitlement repository on Cloud
// Firestore, the document store the mobile clients read from.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rotinafit/entitlement-api/internal/domain/entity"
	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
)

const (
	usersCollection  = "users"
	configCollection = "config"
	preferencesDoc   = "preferences"
)

// EntitlementRepository stores premium state under users/{uid}, with the
// legacy {premium: true} mirror under users/{uid}/config/preferences.
type EntitlementRepository struct {
	client *firestore.Client
}

// NewEntitlementRepository creates a Firestore-backed entitlement repository
func NewEntitlementRepository(client *firestore.Client) *EntitlementRepository {
	return &EntitlementRepository{client: client}
}

// UpsertPremium merges the grant into the user's record and mirrors the
// legacy premium flag, committing both writes in a single batch so a crash
// cannot leave the mirror stale.
func (r *EntitlementRepository) UpsertPremium(ctx context.Context, subjectID string, grant entity.PremiumGrant) error {
	userRef := r.client.Collection(usersCollection).Doc(subjectID)
	prefRef := userRef.Collection(configCollection).Doc(preferencesDoc)

	var premiumUntil interface{}
	if grant.PremiumUntil != nil {
		premiumUntil = *grant.PremiumUntil
	}
	var purchaseID interface{}
	if grant.PurchaseID != nil {
		purchaseID = *grant.PurchaseID
	}

	batch := r.client.Batch()
	batch.Set(userRef, map[string]interface{}{
		"isPremium":        true,
		"premiumUntil":     premiumUntil,
		"productId":        grant.ProductID,
		"purchaseId":       purchaseID,
		"platform":         string(grant.Platform),
		"premiumUpdatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	batch.Set(prefRef, map[string]interface{}{
		"premium": true,
	}, firestore.MergeAll)

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit entitlement batch: %w", err)
	}
	return nil
}

// Get returns the user's entitlement record.
func (r *EntitlementRepository) Get(ctx context.Context, subjectID string) (*entity.Entitlement, error) {
	snap, err := r.client.Collection(usersCollection).Doc(subjectID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domainErrors.ErrEntitlementNotFound
		}
		return nil, fmt.Errorf("get entitlement: %w", err)
	}

	var ent entity.Entitlement
	if err := snap.DataTo(&ent); err != nil {
		return nil, fmt.Errorf("decode entitlement: %w", err)
	}
	return &ent, nil
}
