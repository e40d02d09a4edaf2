package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rotinafit/entitlement-api/internal/application/command"
	"github.com/rotinafit/entitlement-api/internal/application/dto"
	"github.com/rotinafit/entitlement-api/internal/application/middleware"
	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
	"github.com/rotinafit/entitlement-api/internal/interfaces/http/response"
)

// VerifyHandler handles purchase verification requests
type VerifyHandler struct {
	verifyCmd *command.VerifyPurchaseCommand
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(verifyCmd *command.VerifyPurchaseCommand) *VerifyHandler {
	return &VerifyHandler{verifyCmd: verifyCmd}
}

// VerifyPurchase validates a purchase with the platform vendor and records
// the resulting entitlement. The caller identity comes from the auth
// middleware; the entitlement claim itself is never trusted from the client.
func (h *VerifyHandler) VerifyPurchase(c *gin.Context) {
	subjectID := c.GetString(middleware.ContextUserID)
	if subjectID == "" {
		response.Unauthenticated(c, "user is not authenticated")
		return
	}

	var req dto.VerifyPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidArgument(c, "send purchaseToken, productId and platform (android or ios)")
		return
	}

	resp, err := h.verifyCmd.Execute(c.Request.Context(), subjectID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUnauthenticated):
			response.Unauthenticated(c, "user is not authenticated")
		case errors.Is(err, domainErrors.ErrInvalidArgument):
			response.InvalidArgument(c, err.Error())
		default:
			response.Internal(c, "failed to validate purchase")
		}
		return
	}

	response.OK(c, resp)
}
