package dto

import (
	"time"

	"github.com/harune/tenant-tracker/internal/models"
)

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	ProjectID   uint64              `json:"project_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *UserRefDTO         `json:"assigned_to"`
	DueDate     *time.Time          `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListData is the payload of the task list endpoint.
type TaskListData struct {
	Tasks []TaskDTO `json:"tasks"`
	Total int64     `json:"total"`
}

// ToTaskDTO converts a Task model to its response shape. The assignee is
// included when preloaded.
func ToTaskDTO(t models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Assignee != nil && t.Assignee.ID != 0 {
		ref := ToUserRefDTO(*t.Assignee)
		dto.AssignedTo = &ref
	}

	return dto
}
