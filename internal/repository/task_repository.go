package repository

import (
	"github.com/harune/tenant-tracker/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID within the scope. The denormalized tenant_id
// on tasks makes this a single-table lookup.
func (r *GormTaskRepository) FindByID(id uint64, scope Scope) (*models.Task, error) {
	var task models.Task
	if err := scope.Apply(r.db).Preload("Assignee").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject retrieves a project's tasks ordered by priority (high
// first) then due date
func (r *GormTaskRepository) ListByProject(projectID uint64, filter TaskFilter) ([]models.Task, error) {
	query := r.db.Where("project_id = ?", projectID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var tasks []models.Task
	err := query.Preload("Assignee").
		Order(`CASE
			WHEN priority = 'high' THEN 1
			WHEN priority = 'medium' THEN 2
			WHEN priority = 'low' THEN 3
			ELSE 4
		END, due_date ASC`).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateFields applies a field patch to a task
func (r *GormTaskRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
