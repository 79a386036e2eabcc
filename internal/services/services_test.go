package services

import (
	"testing"
	"time"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/quota"
	"github.com/harune/tenant-tracker/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

type testEnv struct {
	db       *gorm.DB
	auth     *AuthService
	tenants  *TenantService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	guard := quota.NewGuard()
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return testEnv{
		db:       db,
		auth:     NewAuthService(userRepo, tenantRepo, "test-secret", time.Hour),
		tenants:  NewTenantService(tenantRepo),
		users:    NewUserService(userRepo, tenantRepo, guard),
		projects: NewProjectService(projectRepo, guard),
		tasks:    NewTaskService(taskRepo, projectRepo, userRepo),
	}
}

func (env testEnv) createTenant(t *testing.T, name, subdomain string, maxUsers, maxProjects int) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Name:        name,
		Subdomain:   subdomain,
		Status:      models.TenantStatusActive,
		Plan:        "free",
		MaxUsers:    maxUsers,
		MaxProjects: maxProjects,
	}
	require.NoError(t, env.db.Create(tenant).Error)
	return tenant
}

func (env testEnv) createUser(t *testing.T, tenantID *uint64, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env testEnv) createProject(t *testing.T, tenantID, createdBy uint64, name string) *models.Project {
	t.Helper()
	project := &models.Project{
		TenantID:  tenantID,
		Name:      name,
		Status:    models.ProjectStatusActive,
		CreatedBy: createdBy,
	}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func principalFor(user *models.User) auth.Principal {
	return auth.Principal{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	}
}
