package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/harune/tenant-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskTitleRequired = errors.New("task title is required")
	ErrInvalidPriority   = errors.New("invalid priority value")
	// ErrInvalidAssignee rejects assignments to users outside the task's
	// tenant, or to users that do not exist. One error for both, so an
	// assignment probe learns nothing about other tenants' users.
	ErrInvalidAssignee = errors.New("assignee not found in this tenant")
)

// TaskService handles task management within a project.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateTaskInput holds the data for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
}

// CreateTask creates a task under the project. The task inherits the
// project's tenant, and the assignee, when given, must belong to it.
func (s *TaskService) CreateTask(p auth.Principal, projectID uint64, input CreateTaskInput) (*models.Task, error) {
	project, err := s.findProject(p, projectID)
	if err != nil {
		return nil, err
	}
	if decision := policy.ReadProject(p, project); !decision.Allowed {
		return nil, decision.Reason
	}

	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.AssignedTo != nil {
		if err := s.checkAssignee(*input.AssignedTo, project.TenantID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasksInput holds filters for listing a project's tasks.
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *uint64
	Search     string
}

// ListTasks returns the project's tasks ordered by priority then due date.
func (s *TaskService) ListTasks(p auth.Principal, projectID uint64, input ListTasksInput) ([]models.Task, error) {
	project, err := s.findProject(p, projectID)
	if err != nil {
		return nil, err
	}
	if decision := policy.ReadProject(p, project); !decision.Allowed {
		return nil, decision.Reason
	}

	tasks, err := s.taskRepo.ListByProject(project.ID, repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Search:     input.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a single task visible to the principal.
func (s *TaskService) GetTask(p auth.Principal, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(p, taskID)
	if err != nil {
		return nil, err
	}

	if decision := policy.ReadTask(p, task); !decision.Allowed {
		return nil, decision.Reason
	}

	return task, nil
}

// UpdateTaskInput is a field patch for a task. Nil pointers leave the field
// untouched; the Clear flags unset nullable fields explicitly, so "assign to
// nobody" is distinguishable from "leave the assignee alone".
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *uint64
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// UpdateTask applies the patch to the task.
func (s *TaskService) UpdateTask(p auth.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(p, taskID)
	if err != nil {
		return nil, err
	}

	decision := policy.MutateTask(p, task)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTaskTitleRequired
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *input.Priority
	}
	if input.ClearAssignee {
		fields["assigned_to"] = nil
	} else if input.AssignedTo != nil {
		if err := s.checkAssignee(*input.AssignedTo, task.TenantID); err != nil {
			return nil, err
		}
		fields["assigned_to"] = *input.AssignedTo
	}
	if input.ClearDueDate {
		fields["due_date"] = nil
	} else if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}

	if err := s.taskRepo.UpdateFields(taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(p, taskID)
}

// UpdateTaskStatus moves the task to the given status. Setting the current
// status again is a no-op success.
func (s *TaskService) UpdateTaskStatus(p auth.Principal, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	task, err := s.findTask(p, taskID)
	if err != nil {
		return nil, err
	}

	if decision := policy.MutateTask(p, task); !decision.Allowed {
		return nil, decision.Reason
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if task.Status == status {
		return task, nil
	}

	if err := s.taskRepo.UpdateFields(taskID, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.findTask(p, taskID)
}

// DeleteTask deletes the task.
func (s *TaskService) DeleteTask(p auth.Principal, taskID uint64) error {
	task, err := s.findTask(p, taskID)
	if err != nil {
		return err
	}

	if decision := policy.MutateTask(p, task); !decision.Allowed {
		return decision.Reason
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) checkAssignee(userID, tenantID uint64) error {
	ok, err := s.userRepo.ExistsInTenant(userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if !ok {
		return ErrInvalidAssignee
	}
	return nil
}

func (s *TaskService) findProject(p auth.Principal, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTask(p auth.Principal, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
