package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleUser        Role = "user"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return true
	}
	return false
}

// ErrRoleTenantMismatch is returned when a user row violates the
// super_admin ⇔ nil tenant invariant.
var ErrRoleTenantMismatch = errors.New("super_admin must have no tenant; other roles require one")

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	TenantID     *uint64        `gorm:"index;uniqueIndex:idx_users_tenant_email" json:"tenant_id"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tenant          *Tenant   `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	CreatedProjects []Project `gorm:"foreignKey:CreatedBy" json:"-"`
	AssignedTasks   []Task    `gorm:"foreignKey:AssignedTo" json:"-"`
}

// BeforeCreate enforces the role/tenant invariant at the store boundary:
// super_admin rows carry a nil tenant id, every other role a non-nil one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return u.checkRoleTenant()
}

// BeforeUpdate runs with a zero-value receiver for map-based patches, so it
// validates the patch itself instead of the receiver: tenant_id is never
// patchable, and a patched role must stay in the tenant-scoped set. Patches
// that touch neither pass through untouched.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	switch dest := tx.Statement.Dest.(type) {
	case map[string]interface{}:
		if _, ok := dest["tenant_id"]; ok {
			return ErrRoleTenantMismatch
		}
		if v, ok := dest["role"]; ok {
			role, ok := v.(Role)
			if !ok || !role.Valid() || role == RoleSuperAdmin {
				return ErrRoleTenantMismatch
			}
		}
		return nil
	case *User:
		return dest.checkRoleTenant()
	}
	return nil
}

func (u *User) checkRoleTenant() error {
	if !u.Role.Valid() {
		return ErrRoleTenantMismatch
	}
	if (u.Role == RoleSuperAdmin) != (u.TenantID == nil) {
		return ErrRoleTenantMismatch
	}
	return nil
}
