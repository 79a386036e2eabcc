package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harune/tenant-tracker/internal/dto"
	apperrors "github.com/harune/tenant-tracker/internal/errors"
	"github.com/harune/tenant-tracker/internal/middleware"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/services"
)

// TaskHandler handles task management within a project.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *uint64             `json:"assigned_to"`
	DueDate     *time.Time          `json:"due_date"`
}

// Create handles POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(principal, projectID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OKMessage("Task created successfully", dto.ToTaskDTO(*task)))
}

// List handles GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var status *models.TaskStatus
	if value := c.Query("status"); value != "" {
		s := models.TaskStatus(value)
		if !s.Valid() {
			apperrors.BadRequest(c, "invalid status value")
			return
		}
		status = &s
	}

	var priority *models.TaskPriority
	if value := c.Query("priority"); value != "" {
		p := models.TaskPriority(value)
		if !p.Valid() {
			apperrors.BadRequest(c, "invalid priority value")
			return
		}
		priority = &p
	}

	var assignedTo *uint64
	if value := c.Query("assigned_to"); value != "" {
		id, err := parseQueryID(value)
		if err != nil {
			apperrors.BadRequest(c, "invalid assigned_to value")
			return
		}
		assignedTo = &id
	}

	tasks, err := h.taskService.ListTasks(principal, projectID, services.ListTasksInput{
		Status:     status,
		Priority:   priority,
		AssignedTo: assignedTo,
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, dto.ToTaskDTO(t))
	}

	c.JSON(http.StatusOK, dto.OK(dto.TaskListData{
		Tasks: items,
		Total: int64(len(items)),
	}))
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(principal, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTaskDTO(*task)))
}

// UpdateTaskRequest is the payload for patching a task. Absent fields are
// left untouched; assigned_to and due_date accept an explicit null to unset.
type UpdateTaskRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Status      *models.TaskStatus      `json:"status"`
	Priority    *models.TaskPriority    `json:"priority"`
	AssignedTo  dto.Optional[uint64]    `json:"assigned_to"`
	DueDate     dto.Optional[time.Time] `json:"due_date"`
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Value == nil {
			input.ClearAssignee = true
		} else {
			input.AssignedTo = req.AssignedTo.Value
		}
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			input.ClearDueDate = true
		} else {
			input.DueDate = req.DueDate.Value
		}
	}

	task, err := h.taskService.UpdateTask(principal, taskID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Task updated successfully", dto.ToTaskDTO(*task)))
}

// UpdateTaskStatusRequest is the payload for the status shortcut endpoint.
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTaskStatus(principal, taskID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Task status updated", dto.ToTaskDTO(*task)))
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(principal, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Task deleted successfully", nil))
}
