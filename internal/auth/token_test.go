package auth

import (
	"testing"
	"time"

	"github.com/harune/tenant-tracker/internal/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndResolve(t *testing.T) {
	tenantID := uint64(42)
	user := &models.User{
		ID:       7,
		TenantID: &tenantID,
		Role:     models.RoleTenantAdmin,
	}

	token, err := IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := ResolvePrincipal(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.UserID)
	require.NotNil(t, principal.TenantID)
	require.Equal(t, tenantID, *principal.TenantID)
	require.Equal(t, models.RoleTenantAdmin, principal.Role)
}

func TestResolvePrincipal_SuperAdminHasNoTenant(t *testing.T) {
	user := &models.User{ID: 1, Role: models.RoleSuperAdmin}

	token, err := IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	principal, err := ResolvePrincipal(token, testSecret)
	require.NoError(t, err)
	require.Nil(t, principal.TenantID)
	require.True(t, principal.IsSuperAdmin())
}

func TestResolvePrincipal_Expired(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleSuperAdmin}

	token, err := IssueToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ResolvePrincipal(token, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePrincipal_WrongSecret(t *testing.T) {
	user := &models.User{ID: 7, Role: models.RoleSuperAdmin}

	token, err := IssueToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ResolvePrincipal(token, "other-secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePrincipal_Garbage(t *testing.T) {
	_, err := ResolvePrincipal("not-a-token", testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}
