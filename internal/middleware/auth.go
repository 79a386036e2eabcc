package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/constants"
	apperrors "github.com/harune/tenant-tracker/internal/errors"
	"github.com/harune/tenant-tracker/internal/metrics"
)

// RequireAuth validates the bearer token and stores the resulting principal
// in the request context. Every failure is the same generic 401.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			metrics.RecordAuthError("missing_token")
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			metrics.RecordAuthError("malformed_header")
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		principal, err := auth.ResolvePrincipal(parts[1], jwtSecret)
		if err != nil {
			metrics.RecordAuthError("invalid_token")
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from the context. The
// second return is false when RequireAuth did not run on the route.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
