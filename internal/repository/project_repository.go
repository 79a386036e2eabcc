package repository

import (
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/quota"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create inserts a project after the quota check, inside one transaction.
func (r *GormProjectRepository) Create(project *models.Project, guard *quota.Guard) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard.Check(tx, project.TenantID, quota.KindProject); err != nil {
				return err
			}
		}
		return tx.Create(project).Error
	})
}

// FindByID finds a project by ID within the scope
func (r *GormProjectRepository) FindByID(id uint64, scope Scope) (*models.Project, error) {
	var project models.Project
	if err := scope.Apply(r.db).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects within the scope, annotated with task counts
func (r *GormProjectRepository) List(scope Scope, filter ProjectFilter) ([]ProjectWithCounts, int64, error) {
	query := scope.Apply(r.db.Model(&models.Project{}))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Preload("Creator").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	if len(projects) == 0 {
		return []ProjectWithCounts{}, total, nil
	}

	ids := make([]uint64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	type projectCount struct {
		ProjectID uint64
		Cnt       int64
	}

	countsByProject := make(map[uint64]int64, len(ids))
	completedByProject := make(map[uint64]int64, len(ids))

	var counts []projectCount
	if err := r.db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS cnt").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&counts).Error; err != nil {
		return nil, 0, err
	}
	for _, c := range counts {
		countsByProject[c.ProjectID] = c.Cnt
	}

	counts = counts[:0]
	if err := r.db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS cnt").
		Where("project_id IN ? AND status = ?", ids, models.TaskStatusCompleted).
		Group("project_id").
		Scan(&counts).Error; err != nil {
		return nil, 0, err
	}
	for _, c := range counts {
		completedByProject[c.ProjectID] = c.Cnt
	}

	result := make([]ProjectWithCounts, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithCounts{
			Project:            p,
			TaskCount:          countsByProject[p.ID],
			CompletedTaskCount: completedByProject[p.ID],
		}
	}

	return result, total, nil
}

// UpdateFields applies a field patch to a project
func (r *GormProjectRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error
}

// Delete soft deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
