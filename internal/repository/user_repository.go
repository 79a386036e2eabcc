package repository

import (
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/quota"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user after the quota check, inside one transaction.
func (r *GormUserRepository) Create(user *models.User, guard *quota.Guard) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if guard != nil && user.TenantID != nil {
			if err := guard.Check(tx, *user.TenantID, quota.KindUser); err != nil {
				return err
			}
		}
		return tx.Create(user).Error
	})
}

// FindByID finds a user by ID within the scope
func (r *GormUserRepository) FindByID(id uint64, scope Scope) (*models.User, error) {
	var user models.User
	if err := scope.Apply(r.db).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email within a tenant; nil tenantID addresses
// platform-level users.
func (r *GormUserRepository) FindByEmail(email string, tenantID *uint64) (*models.User, error) {
	query := r.db.Where("email = ?", email)
	if tenantID == nil {
		query = query.Where("tenant_id IS NULL")
	} else {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAnyByEmail finds a user by email regardless of tenant
func (r *GormUserRepository) FindAnyByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves a tenant's users with filtering and pagination
func (r *GormUserRepository) List(tenantID uint64, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(email) LIKE LOWER(?) OR LOWER(full_name) LIKE LOWER(?)", pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsInTenant reports whether the user exists and belongs to the tenant
func (r *GormUserRepository) ExistsInTenant(userID, tenantID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id = ? AND tenant_id = ?", userID, tenantID).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields applies a field patch to a user
func (r *GormUserRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the user and clears task assignments pointing at it.
// Assignments are cleared, not deleted: tasks survive their assignee.
func (r *GormUserRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("assigned_to = ?", user.ID).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, user.ID).Error
	})
}
