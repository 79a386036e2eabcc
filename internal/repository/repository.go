package repository

import (
	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/quota"
	"gorm.io/gorm"
)

// Scope restricts a query to one tenant's rows, or to all rows for the
// platform super admin. The zero value matches nothing, and repositories
// only accept queries through a Scope, so a request path cannot issue an
// unscoped read by accident.
type Scope struct {
	global   bool
	tenantID uint64
}

// ForTenant scopes queries to a single tenant.
func ForTenant(tenantID uint64) Scope {
	return Scope{tenantID: tenantID}
}

// ForPrincipal derives the scope from the acting principal: global for a
// super admin, the principal's own tenant otherwise.
func ForPrincipal(p auth.Principal) Scope {
	if p.IsSuperAdmin() {
		return Scope{global: true}
	}
	if p.TenantID != nil {
		return Scope{tenantID: *p.TenantID}
	}
	return Scope{}
}

// Apply conjoins the tenant predicate onto db.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.global {
		return db
	}
	return db.Where("tenant_id = ?", s.tenantID)
}

// TenantStats holds live usage counts for one tenant.
type TenantStats struct {
	TotalUsers    int64
	TotalProjects int64
	TotalTasks    int64
}

// TenantRepository owns tenant records and subdomain resolution.
type TenantRepository interface {
	// RegisterWithAdmin creates a tenant and its first admin user atomically.
	RegisterWithAdmin(tenant *models.Tenant, admin *models.User) error

	// FindByID finds a tenant by ID.
	FindByID(id uint64) (*models.Tenant, error)

	// FindBySubdomain resolves a tenant by its subdomain.
	FindBySubdomain(subdomain string) (*models.Tenant, error)

	// List retrieves tenants with pagination. Super-admin surface only.
	List(offset, limit int) ([]models.Tenant, int64, error)

	// UpdateFields applies a field patch to a tenant.
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Stats counts the tenant's live users, projects, and tasks.
	Stats(tenantID uint64) (TenantStats, error)
}

// UserFilter holds filtering options for listing users.
type UserFilter struct {
	Search string
	Role   *models.Role
	Offset int
	Limit  int
}

// UserRepository owns user records.
type UserRepository interface {
	// Create inserts a user; the quota check runs inside the same
	// transaction as the insert.
	Create(user *models.User, guard *quota.Guard) error

	// FindByID finds a user by ID within the scope.
	FindByID(id uint64, scope Scope) (*models.User, error)

	// FindByEmail finds a user by email within a tenant; a nil tenantID
	// addresses platform-level users.
	FindByEmail(email string, tenantID *uint64) (*models.User, error)

	// FindAnyByEmail finds a user by email regardless of tenant. Login-path
	// only, to distinguish "needs a tenant context" from "unknown email".
	FindAnyByEmail(email string) (*models.User, error)

	// List retrieves a tenant's users with filtering and pagination.
	List(tenantID uint64, filter UserFilter) ([]models.User, int64, error)

	// ExistsInTenant reports whether the user exists and belongs to the tenant.
	ExistsInTenant(userID, tenantID uint64) (bool, error)

	// UpdateFields applies a field patch to a user.
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Delete removes the user and clears task assignments pointing at it,
	// atomically.
	Delete(user *models.User) error
}

// ProjectFilter holds filtering options for listing projects.
type ProjectFilter struct {
	Status *models.ProjectStatus
	Search string
	Offset int
	Limit  int
}

// ProjectWithCounts is a project row annotated with task counts.
type ProjectWithCounts struct {
	models.Project
	TaskCount          int64
	CompletedTaskCount int64
}

// ProjectRepository owns project records.
type ProjectRepository interface {
	// Create inserts a project; the quota check runs inside the same
	// transaction as the insert.
	Create(project *models.Project, guard *quota.Guard) error

	// FindByID finds a project by ID within the scope.
	FindByID(id uint64, scope Scope) (*models.Project, error)

	// List retrieves projects within the scope, with task counts.
	List(scope Scope, filter ProjectFilter) ([]ProjectWithCounts, int64, error)

	// UpdateFields applies a field patch to a project.
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Delete soft deletes a project and its tasks.
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks.
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *uint64
	Search     string
}

// TaskRepository owns task records.
type TaskRepository interface {
	// Create inserts a task.
	Create(task *models.Task) error

	// FindByID finds a task by ID within the scope.
	FindByID(id uint64, scope Scope) (*models.Task, error)

	// ListByProject retrieves a project's tasks ordered by priority then
	// due date.
	ListByProject(projectID uint64, filter TaskFilter) ([]models.Task, error)

	// UpdateFields applies a field patch to a task.
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Delete soft deletes a task.
	Delete(id uint64) error
}
