// Package quota enforces the per-tenant creation caps. Checks run inside
// the same transaction as the subsequent insert; on engines with row locks
// the tenant row is locked first, so two concurrent creations cannot both
// observe count < limit.
package quota

import (
	"errors"
	"fmt"

	"github.com/harune/tenant-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLimitReached is returned when a tenant is at its plan cap.
var ErrLimitReached = errors.New("resource limit reached for tenant")

// Kind identifies the resource being counted.
type Kind string

const (
	KindUser    Kind = "user"
	KindProject Kind = "project"
)

// Guard checks tenant resource caps.
type Guard struct{}

// NewGuard creates a quota guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Check counts live rows of the given kind within tx and compares them to
// the tenant's cap. tx must be the transaction performing the insert.
func (g *Guard) Check(tx *gorm.DB, tenantID uint64, kind Kind) error {
	locked := tx
	// SQLite has no row locks; its single-writer lock already serializes
	// the transaction.
	if name := tx.Dialector.Name(); name == "postgres" || name == "mysql" {
		locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var tenant models.Tenant
	if err := locked.First(&tenant, tenantID).Error; err != nil {
		return fmt.Errorf("failed to load tenant for quota check: %w", err)
	}

	var count int64
	var limit int
	switch kind {
	case KindUser:
		if err := tx.Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		limit = tenant.MaxUsers
	case KindProject:
		if err := tx.Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		limit = tenant.MaxProjects
	default:
		return fmt.Errorf("unknown quota kind %q", kind)
	}

	if count >= int64(limit) {
		return ErrLimitReached
	}
	return nil
}
