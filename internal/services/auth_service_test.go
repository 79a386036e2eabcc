package services

import (
	"testing"

	"github.com/harune/tenant-tracker/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRegisterTenant(t *testing.T) {
	env := setupTestEnv(t)

	tenant, admin, err := env.auth.RegisterTenant(RegisterTenantInput{
		TenantName:    "Acme",
		Subdomain:     "Acme",
		AdminEmail:    "Admin@Acme.test",
		AdminPassword: testPassword,
		AdminFullName: "Acme Admin",
	})
	require.NoError(t, err)

	// Subdomain and email are normalized to lowercase.
	require.Equal(t, "acme", tenant.Subdomain)
	require.Equal(t, "admin@acme.test", admin.Email)
	require.Equal(t, models.RoleTenantAdmin, admin.Role)
	require.NotNil(t, admin.TenantID)
	require.Equal(t, tenant.ID, *admin.TenantID)

	// New tenants start on the free plan defaults.
	require.Equal(t, "free", tenant.Plan)
	require.Equal(t, 5, tenant.MaxUsers)
	require.Equal(t, 3, tenant.MaxProjects)
}

func TestRegisterTenant_SubdomainTaken(t *testing.T) {
	env := setupTestEnv(t)
	env.createTenant(t, "Acme", "acme", 5, 3)

	_, _, err := env.auth.RegisterTenant(RegisterTenantInput{
		TenantName:    "Other",
		Subdomain:     "acme",
		AdminEmail:    "admin@other.test",
		AdminPassword: testPassword,
		AdminFullName: "Other Admin",
	})
	require.ErrorIs(t, err, ErrSubdomainTaken)
}

func TestRegisterTenant_PasswordTooShort(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.auth.RegisterTenant(RegisterTenantInput{
		TenantName:    "Acme",
		Subdomain:     "acme",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "short",
		AdminFullName: "Acme Admin",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin_WithSubdomain(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	user := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	got, token, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  testPassword,
		Subdomain: "acme",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, token)
}

func TestLogin_WrongTenantSubdomain(t *testing.T) {
	env := setupTestEnv(t)
	acme := env.createTenant(t, "Acme", "acme", 5, 3)
	env.createTenant(t, "Globex", "globex", 5, 3)
	env.createUser(t, &acme.ID, "user@acme.test", models.RoleUser)

	// Valid credentials against the wrong tenant must be indistinguishable
	// from a wrong password.
	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  testPassword,
		Subdomain: "globex",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownSubdomain(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  testPassword,
		Subdomain: "nope",
	})
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestLogin_SuspendedTenant(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	require.NoError(t, env.db.Model(&models.Tenant{}).
		Where("id = ?", tenant.ID).
		Update("status", models.TenantStatusSuspended).Error)

	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  testPassword,
		Subdomain: "acme",
	})
	require.ErrorIs(t, err, ErrTenantSuspended)
}

func TestLogin_SuspendedAccount(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	user := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  testPassword,
		Subdomain: "acme",
	})
	require.ErrorIs(t, err, ErrAccountSuspended)
}

func TestLogin_SuspendedAccountWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	user := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	// Without valid credentials the suspension must stay invisible; only a
	// correct password reveals the account status.
	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  "wrong-password",
		Subdomain: "acme",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	_, _, err := env.auth.Login(LoginInput{
		Email:     "user@acme.test",
		Password:  "wrong-password",
		Subdomain: "acme",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SuperAdminWithoutSubdomain(t *testing.T) {
	env := setupTestEnv(t)
	super := env.createUser(t, nil, "root@platform.test", models.RoleSuperAdmin)

	got, token, err := env.auth.Login(LoginInput{
		Email:    "root@platform.test",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, super.ID, got.ID)
	require.NotEmpty(t, token)
}

func TestLogin_SuperAdminIntoTenantSubdomain(t *testing.T) {
	env := setupTestEnv(t)
	env.createTenant(t, "Acme", "acme", 5, 3)
	env.createUser(t, nil, "root@platform.test", models.RoleSuperAdmin)

	_, _, err := env.auth.Login(LoginInput{
		Email:     "root@platform.test",
		Password:  testPassword,
		Subdomain: "acme",
	})
	require.NoError(t, err)
}

func TestLogin_TenantUserWithoutSubdomain(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	// An existing tenant user logging in without a tenant context is told
	// to supply one, not rejected as unknown.
	_, _, err := env.auth.Login(LoginInput{
		Email:    "user@acme.test",
		Password: testPassword,
	})
	require.ErrorIs(t, err, ErrTenantContextRequired)
}

func TestLogin_UnknownEmailWithoutSubdomain(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.auth.Login(LoginInput{
		Email:    "nobody@nowhere.test",
		Password: testPassword,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetMe(t *testing.T) {
	env := setupTestEnv(t)
	tenant := env.createTenant(t, "Acme", "acme", 5, 3)
	user := env.createUser(t, &tenant.ID, "user@acme.test", models.RoleUser)

	got, gotTenant, err := env.auth.GetMe(principalFor(user))
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotNil(t, gotTenant)
	require.Equal(t, tenant.ID, gotTenant.ID)
}
