package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rotinafit/entitlement-api/internal/application/dto"
	"github.com/rotinafit/entitlement-api/internal/application/middleware"
	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
	"github.com/rotinafit/entitlement-api/internal/domain/repository"
	"github.com/rotinafit/entitlement-api/internal/infrastructure/logging"
	"github.com/rotinafit/entitlement-api/internal/interfaces/http/response"
)

// EntitlementHandler serves the caller's stored premium state.
type EntitlementHandler struct {
	entitlements repository.EntitlementRepository
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(entitlements repository.EntitlementRepository) *EntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements}
}

// GetEntitlement returns the caller's entitlement record. Users without a
// record are reported as not premium rather than as an error.
func (h *EntitlementHandler) GetEntitlement(c *gin.Context) {
	subjectID := c.GetString(middleware.ContextUserID)
	if subjectID == "" {
		response.Unauthenticated(c, "user is not authenticated")
		return
	}

	ent, err := h.entitlements.Get(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrEntitlementNotFound) {
			response.OK(c, dto.EntitlementResponse{IsPremium: false})
			return
		}
		logging.GetLogger(c).Error("entitlement read failed",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		response.Internal(c, "failed to load entitlement")
		return
	}

	response.OK(c, dto.EntitlementResponse{
		IsPremium:    ent.IsPremium,
		PremiumUntil: ent.PremiumUntil,
		ProductID:    ent.ProductID,
		Platform:     string(ent.Platform),
	})
}
