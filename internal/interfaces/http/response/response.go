package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope. Codes follow the callable-API
// convention the mobile clients already handle: unauthenticated,
// invalid-argument, internal.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// OK sends a 200 with the payload as-is.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// Unauthenticated sends a 401 with code "unauthenticated".
func Unauthenticated(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "unauthenticated", message)
}

// InvalidArgument sends a 400 with code "invalid-argument".
func InvalidArgument(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "invalid-argument", message)
}

// Internal sends a 500 with code "internal". The message stays generic;
// diagnostic detail is logged server-side only.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "internal", message)
}
