package dto

import (
	"time"

	"github.com/harune/tenant-tracker/internal/models"
)

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	TenantID    uint64               `json:"tenant_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	CreatedBy   uint64               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProjectListItemDTO is a project in list responses, with its creator and
// task counts.
type ProjectListItemDTO struct {
	ID                 uint64               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	Status             models.ProjectStatus `json:"status"`
	CreatedBy          *UserRefDTO          `json:"created_by"`
	TaskCount          int64                `json:"task_count"`
	CompletedTaskCount int64                `json:"completed_task_count"`
	CreatedAt          time.Time            `json:"created_at"`
}

// ProjectListData is the payload of the project list endpoint.
type ProjectListData struct {
	Projects   []ProjectListItemDTO `json:"projects"`
	Total      int64                `json:"total"`
	Pagination Pagination           `json:"pagination"`
}

// ToProjectDTO converts a Project model to its response shape.
func ToProjectDTO(p models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
