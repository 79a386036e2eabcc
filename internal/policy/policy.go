// Package policy is the single place where authorization decisions are made.
// Every handler path funnels through one of these functions instead of doing
// ad-hoc role checks, so the rules stay unit-testable independent of transport.
//
// Two kinds of denial exist and they are deliberately distinct: a tenant
// mismatch always reads as "not found" so callers cannot probe for the
// existence of other tenants' resources, while a role mismatch inside the
// correct tenant reads as "forbidden".
package policy

import (
	"errors"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
)

var (
	// ErrNotFound is the reason for denials that must not reveal whether the
	// target exists (absent resource or tenant mismatch).
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is the reason for role denials within the correct tenant.
	ErrForbidden = errors.New("permission denied")
	// ErrTenantRequired denies tenant-scoped creation to principals without a
	// tenant (a super admin has no implicit tenant to create into).
	ErrTenantRequired = errors.New("operation requires a tenant context")
)

// Field names a mutable attribute a policy decision may grant.
type Field string

const (
	FieldName        Field = "name"
	FieldStatus      Field = "status"
	FieldPlan        Field = "plan"
	FieldMaxUsers    Field = "max_users"
	FieldMaxProjects Field = "max_projects"
	FieldFullName    Field = "full_name"
	FieldRole        Field = "role"
	FieldIsActive    Field = "is_active"
	FieldDescription Field = "description"
	FieldTitle       Field = "title"
	FieldPriority    Field = "priority"
	FieldAssignedTo  Field = "assigned_to"
	FieldDueDate     Field = "due_date"
)

// FieldSet is the set of fields a mutation is allowed to touch.
type FieldSet map[Field]struct{}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Decision is the outcome of an authorization check. When Allowed is false,
// Reason carries one of the sentinel errors above.
type Decision struct {
	Allowed bool
	Mutable FieldSet
	Reason  error
}

func allow(fields ...Field) Decision {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return Decision{Allowed: true, Mutable: set}
}

func deny(reason error) Decision {
	return Decision{Reason: reason}
}

// ReadTenant decides whether p may read the tenant record.
func ReadTenant(p auth.Principal, tenantID uint64) Decision {
	if p.IsSuperAdmin() || p.BelongsTo(tenantID) {
		return allow()
	}
	return deny(ErrNotFound)
}

// UpdateTenant decides whether p may update the tenant record and which
// fields it may change. A tenant admin may rename its own tenant and nothing
// else; attempting to touch status, plan, or limits is denied, not ignored.
func UpdateTenant(p auth.Principal, tenantID uint64) Decision {
	if p.IsSuperAdmin() {
		return allow(FieldName, FieldStatus, FieldPlan, FieldMaxUsers, FieldMaxProjects)
	}
	if !p.BelongsTo(tenantID) {
		return deny(ErrNotFound)
	}
	if p.Role == models.RoleTenantAdmin {
		return allow(FieldName)
	}
	return deny(ErrForbidden)
}

// ListTenants decides whether p may enumerate tenants.
func ListTenants(p auth.Principal) Decision {
	if p.IsSuperAdmin() {
		return allow()
	}
	return deny(ErrForbidden)
}

// CreateUser decides whether p may create a user inside the tenant.
func CreateUser(p auth.Principal, tenantID uint64) Decision {
	if p.IsSuperAdmin() {
		return allow()
	}
	if !p.BelongsTo(tenantID) {
		return deny(ErrNotFound)
	}
	if p.Role == models.RoleTenantAdmin {
		return allow()
	}
	return deny(ErrForbidden)
}

// ListUsers decides whether p may list the tenant's users.
func ListUsers(p auth.Principal, tenantID uint64) Decision {
	if p.IsSuperAdmin() || p.BelongsTo(tenantID) {
		return allow()
	}
	return deny(ErrNotFound)
}

// UpdateUser decides whether p may update target and which fields it may
// change. Users may rename themselves; admins of the target's tenant (or a
// super admin) may additionally change role and active status.
func UpdateUser(p auth.Principal, target *models.User) Decision {
	if p.IsSuperAdmin() {
		return allow(FieldFullName, FieldRole, FieldIsActive)
	}
	if target.TenantID == nil || !p.BelongsTo(*target.TenantID) {
		return deny(ErrNotFound)
	}
	if p.Role == models.RoleTenantAdmin {
		return allow(FieldFullName, FieldRole, FieldIsActive)
	}
	if p.UserID == target.ID {
		return allow(FieldFullName)
	}
	return deny(ErrForbidden)
}

// DeleteUser decides whether p may delete target. Self-deletion is always
// denied, regardless of role.
func DeleteUser(p auth.Principal, target *models.User) Decision {
	if p.UserID == target.ID {
		return deny(ErrForbidden)
	}
	if p.IsSuperAdmin() {
		return allow()
	}
	if target.TenantID == nil || !p.BelongsTo(*target.TenantID) {
		return deny(ErrNotFound)
	}
	if p.Role == models.RoleTenantAdmin {
		return allow()
	}
	return deny(ErrForbidden)
}

// CreateProject decides whether p may create a project. Any tenant member
// may; a principal without a tenant has nowhere to create into.
func CreateProject(p auth.Principal) Decision {
	if p.TenantID == nil {
		return deny(ErrTenantRequired)
	}
	return allow()
}

// ReadProject decides whether p may read the project.
func ReadProject(p auth.Principal, project *models.Project) Decision {
	if !p.BelongsTo(project.TenantID) {
		return deny(ErrNotFound)
	}
	return allow()
}

// MutateProject decides whether p may update or delete the project: tenant
// membership plus being either a tenant admin or the project's creator.
func MutateProject(p auth.Principal, project *models.Project) Decision {
	if !p.BelongsTo(project.TenantID) {
		return deny(ErrNotFound)
	}
	if p.Role == models.RoleTenantAdmin || p.UserID == project.CreatedBy {
		return allow(FieldName, FieldDescription, FieldStatus)
	}
	return deny(ErrForbidden)
}

// ReadTask decides whether p may read the task. Same rule as projects:
// tenant membership or nothing, with no platform-level carve-out.
func ReadTask(p auth.Principal, task *models.Task) Decision {
	if !p.BelongsTo(task.TenantID) {
		return deny(ErrNotFound)
	}
	return allow()
}

// MutateTask decides whether p may update, delete, or change the status of
// the task. Tenant membership is the only requirement.
func MutateTask(p auth.Principal, task *models.Task) Decision {
	if !p.BelongsTo(task.TenantID) {
		return deny(ErrNotFound)
	}
	return allow(FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldAssignedTo, FieldDueDate)
}
