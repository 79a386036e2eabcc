package services

import (
	"errors"
	"fmt"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/harune/tenant-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrFieldNotAllowed is returned when a patch touches a field the
	// policy did not grant. Denied explicitly, never silently dropped.
	ErrFieldNotAllowed = errors.New("field may not be changed by this role")
	ErrInvalidStatus   = errors.New("invalid status value")
)

// TenantService handles tenant reads and updates.
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// GetTenant returns a tenant with its usage stats.
func (s *TenantService) GetTenant(p auth.Principal, tenantID uint64) (*models.Tenant, repository.TenantStats, error) {
	if decision := policy.ReadTenant(p, tenantID); !decision.Allowed {
		return nil, repository.TenantStats{}, decision.Reason
	}

	tenant, err := s.tenantRepo.FindByID(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.TenantStats{}, policy.ErrNotFound
		}
		return nil, repository.TenantStats{}, fmt.Errorf("failed to find tenant: %w", err)
	}

	stats, err := s.tenantRepo.Stats(tenantID)
	if err != nil {
		return nil, repository.TenantStats{}, fmt.Errorf("failed to load tenant stats: %w", err)
	}

	return tenant, stats, nil
}

// ListTenants returns all tenants, paginated. Super-admin only.
func (s *TenantService) ListTenants(p auth.Principal, offset, limit int) ([]models.Tenant, int64, error) {
	if decision := policy.ListTenants(p); !decision.Allowed {
		return nil, 0, decision.Reason
	}

	tenants, total, err := s.tenantRepo.List(offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, total, nil
}

// UpdateTenantInput is a field patch for a tenant. Nil pointers leave the
// field untouched.
type UpdateTenantInput struct {
	Name        *string
	Status      *models.TenantStatus
	Plan        *string
	MaxUsers    *int
	MaxProjects *int
}

// UpdateTenant applies the patch, restricted to the fields the policy
// grants the principal. A tenant admin sending status or plan limits gets
// a denial, not a partial update.
func (s *TenantService) UpdateTenant(p auth.Principal, tenantID uint64, input UpdateTenantInput) (*models.Tenant, error) {
	decision := policy.UpdateTenant(p, tenantID)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		if !decision.Mutable.Has(policy.FieldName) {
			return nil, ErrFieldNotAllowed
		}
		fields["name"] = *input.Name
	}
	if input.Status != nil {
		if !decision.Mutable.Has(policy.FieldStatus) {
			return nil, ErrFieldNotAllowed
		}
		if *input.Status != models.TenantStatusActive && *input.Status != models.TenantStatusSuspended {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.Plan != nil {
		if !decision.Mutable.Has(policy.FieldPlan) {
			return nil, ErrFieldNotAllowed
		}
		fields["plan"] = *input.Plan
	}
	if input.MaxUsers != nil {
		if !decision.Mutable.Has(policy.FieldMaxUsers) {
			return nil, ErrFieldNotAllowed
		}
		fields["max_users"] = *input.MaxUsers
	}
	if input.MaxProjects != nil {
		if !decision.Mutable.Has(policy.FieldMaxProjects) {
			return nil, ErrFieldNotAllowed
		}
		fields["max_projects"] = *input.MaxProjects
	}

	if _, err := s.tenantRepo.FindByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	if err := s.tenantRepo.UpdateFields(tenantID, fields); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tenant: %w", err)
	}

	return tenant, nil
}
