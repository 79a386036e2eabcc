package dto

import (
	"time"

	"github.com/harune/tenant-tracker/internal/models"
)

// TenantDTO represents a tenant in API responses.
type TenantDTO struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Subdomain   string              `json:"subdomain"`
	Status      models.TenantStatus `json:"status"`
	Plan        string              `json:"plan"`
	MaxUsers    int                 `json:"max_users"`
	MaxProjects int                 `json:"max_projects"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TenantStatsDTO carries live usage counts for a tenant.
type TenantStatsDTO struct {
	TotalUsers    int64 `json:"total_users"`
	TotalProjects int64 `json:"total_projects"`
	TotalTasks    int64 `json:"total_tasks"`
}

// TenantDetailDTO is a tenant with its usage stats.
type TenantDetailDTO struct {
	TenantDTO
	Stats TenantStatsDTO `json:"stats"`
}

// TenantListData is the payload of the tenant list endpoint.
type TenantListData struct {
	Tenants    []TenantDTO `json:"tenants"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
}

// ToTenantDTO converts a Tenant model to its response shape.
func ToTenantDTO(t models.Tenant) TenantDTO {
	return TenantDTO{
		ID:          t.ID,
		Name:        t.Name,
		Subdomain:   t.Subdomain,
		Status:      t.Status,
		Plan:        t.Plan,
		MaxUsers:    t.MaxUsers,
		MaxProjects: t.MaxProjects,
		CreatedAt:   t.CreatedAt,
	}
}
