package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestScope_TenantPredicateReachesSQL(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE tenant_id = \$1 AND "projects"\."id" = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).
			AddRow(7, 42, "Website"))

	repo := NewProjectRepository(db)
	project, err := repo.FindByID(7, ForTenant(42))
	require.NoError(t, err)
	require.Equal(t, uint64(42), project.TenantID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScope_ZeroValueMatchesNothing(t *testing.T) {
	db, mock := newMockDB(t)

	// The zero scope degenerates to tenant_id = 0, which no row carries.
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE tenant_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewTaskRepository(db)
	_, err := repo.FindByID(9, Scope{})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForPrincipal(t *testing.T) {
	tenantID := uint64(42)

	member := auth.Principal{UserID: 1, TenantID: &tenantID, Role: models.RoleUser}
	require.Equal(t, ForTenant(42), ForPrincipal(member))

	super := auth.Principal{UserID: 2, Role: models.RoleSuperAdmin}
	require.Equal(t, Scope{global: true}, ForPrincipal(super))

	// A malformed principal without role or tenant falls back to the zero
	// scope, which matches nothing.
	require.Equal(t, Scope{}, ForPrincipal(auth.Principal{UserID: 3, Role: models.RoleUser}))
}
