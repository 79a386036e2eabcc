package repository

import (
	"errors"
	"fmt"

	"github.com/harune/tenant-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateTenant is returned when creating the tenant fails inside the
	// registration transaction.
	ErrCreateTenant = errors.New("tenant repository: create tenant failed")
	// ErrCreateAdmin is returned when creating the first admin fails inside
	// the registration transaction.
	ErrCreateAdmin = errors.New("tenant repository: create admin failed")
)

// GormTenantRepository is a GORM implementation of TenantRepository
type GormTenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &GormTenantRepository{db: db}
}

// RegisterWithAdmin creates a tenant and its first admin user atomically.
func (r *GormTenantRepository) RegisterWithAdmin(tenant *models.Tenant, admin *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTenant, err)
		}

		admin.TenantID = &tenant.ID

		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAdmin, err)
		}

		return nil
	})
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(id uint64) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindBySubdomain resolves a tenant by its subdomain
func (r *GormTenantRepository) FindBySubdomain(subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// List retrieves tenants with pagination
func (r *GormTenantRepository) List(offset, limit int) ([]models.Tenant, int64, error) {
	var total int64
	if err := r.db.Model(&models.Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tenants []models.Tenant
	if err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// UpdateFields applies a field patch to a tenant
func (r *GormTenantRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Tenant{}).Where("id = ?", id).Updates(fields).Error
}

// Stats counts the tenant's live users, projects, and tasks
func (r *GormTenantRepository) Stats(tenantID uint64) (TenantStats, error) {
	var stats TenantStats

	if err := r.db.Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&stats.TotalUsers).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&stats.TotalProjects).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Task{}).Where("tenant_id = ?", tenantID).Count(&stats.TotalTasks).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
