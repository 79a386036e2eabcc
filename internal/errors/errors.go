package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeTenantContextRequired = "TENANT_CONTEXT_REQUIRED"

	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeTenantSuspended  = "TENANT_SUSPENDED"
	ErrCodeAccountSuspended = "ACCOUNT_SUSPENDED"
	ErrCodeLimitReached     = "LIMIT_REACHED"

	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeInvalidAssignee = "INVALID_ASSIGNEE"

	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	ErrCodeInternalError = "INTERNAL_ERROR"
)

// errorBody is the envelope for failed requests: {success:false, message, error}.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Respond sends an error response with the given status, code, and message.
func Respond(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, errorBody{Success: false, Message: message, Error: code})
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	Respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	Respond(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Respond(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	Respond(c, http.StatusBadRequest, ErrCodeInvalidInput, message)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	Respond(c, http.StatusConflict, ErrCodeConflict, message)
}

// InternalError sends a 500 response. No internal detail is leaked; the
// message is a fixed generic string.
func InternalError(c *gin.Context) {
	Respond(c, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
}
