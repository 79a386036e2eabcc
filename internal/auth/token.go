package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harune/tenant-tracker/internal/models"
)

// ErrInvalidToken covers malformed, expired, and badly signed credentials.
// Callers present all of them as a generic 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims defines the custom claims embedded in the bearer token.
type Claims struct {
	UserID   uint64      `json:"user_id"`
	TenantID *uint64     `json:"tenant_id,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed bearer token for the given user.
func IssueToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ResolvePrincipal validates a bearer token and returns the principal its
// claims describe.
func ResolvePrincipal(tokenString, secret string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	if !claims.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}
