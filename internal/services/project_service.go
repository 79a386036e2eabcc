package services

import (
	"errors"
	"fmt"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/harune/tenant-tracker/internal/quota"
	"github.com/harune/tenant-tracker/internal/repository"
	"gorm.io/gorm"
)

var ErrProjectNameRequired = errors.New("project name is required")

// ProjectService handles project management within a tenant.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	guard       *quota.Guard
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, guard *quota.Guard) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, guard: guard}
}

// CreateProjectInput holds the data for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
}

// CreateProject creates a project in the principal's tenant, subject to the
// tenant's project quota.
func (s *ProjectService) CreateProject(p auth.Principal, input CreateProjectInput) (*models.Project, error) {
	if decision := policy.CreateProject(p); !decision.Allowed {
		return nil, decision.Reason
	}

	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	project := &models.Project{
		TenantID:    *p.TenantID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		CreatedBy:   p.UserID,
	}

	if err := s.projectRepo.Create(project, s.guard); err != nil {
		if errors.Is(err, quota.ErrLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsInput holds filters for listing projects.
type ListProjectsInput struct {
	Status *models.ProjectStatus
	Search string
	Offset int
	Limit  int
}

// ListProjects returns the projects of the principal's tenant with task
// counts. A principal without a tenant has no project list.
func (s *ProjectService) ListProjects(p auth.Principal, input ListProjectsInput) ([]repository.ProjectWithCounts, int64, error) {
	if p.TenantID == nil {
		return nil, 0, policy.ErrTenantRequired
	}

	projects, total, err := s.projectRepo.List(repository.ForTenant(*p.TenantID), repository.ProjectFilter{
		Status: input.Status,
		Search: input.Search,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// GetProject returns a single project visible to the principal.
func (s *ProjectService) GetProject(p auth.Principal, projectID uint64) (*models.Project, error) {
	project, err := s.findScoped(p, projectID)
	if err != nil {
		return nil, err
	}

	if decision := policy.ReadProject(p, project); !decision.Allowed {
		return nil, decision.Reason
	}

	return project, nil
}

// UpdateProjectInput is a field patch for a project. Nil pointers leave the
// field untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject applies the patch. Only a tenant admin or the project's
// creator may mutate a project.
func (s *ProjectService) UpdateProject(p auth.Principal, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findScoped(p, projectID)
	if err != nil {
		return nil, err
	}

	decision := policy.MutateProject(p, project)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		if !decision.Mutable.Has(policy.FieldName) {
			return nil, ErrFieldNotAllowed
		}
		if *input.Name == "" {
			return nil, ErrProjectNameRequired
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		if !decision.Mutable.Has(policy.FieldDescription) {
			return nil, ErrFieldNotAllowed
		}
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		if !decision.Mutable.Has(policy.FieldStatus) {
			return nil, ErrFieldNotAllowed
		}
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}

	if err := s.projectRepo.UpdateFields(projectID, fields); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.findScoped(p, projectID)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProject deletes the project and its tasks.
func (s *ProjectService) DeleteProject(p auth.Principal, projectID uint64) error {
	project, err := s.findScoped(p, projectID)
	if err != nil {
		return err
	}

	if decision := policy.MutateProject(p, project); !decision.Allowed {
		return decision.Reason
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// findScoped fetches the project through the principal's scope, so a project
// in another tenant surfaces as not found.
func (s *ProjectService) findScoped(p auth.Principal, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
