package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harune/tenant-tracker/internal/dto"
	apperrors "github.com/harune/tenant-tracker/internal/errors"
	"github.com/harune/tenant-tracker/internal/middleware"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/services"
	"github.com/harune/tenant-tracker/internal/utils"
)

// ProjectHandler handles project management within a tenant.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.CreateProject(principal, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OKMessage("Project created successfully", dto.ToProjectDTO(*project)))
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	var status *models.ProjectStatus
	if value := c.Query("status"); value != "" {
		s := models.ProjectStatus(value)
		if !s.Valid() {
			apperrors.BadRequest(c, "invalid status value")
			return
		}
		status = &s
	}

	projects, total, err := h.projectService.ListProjects(principal, services.ListProjectsInput{
		Status: status,
		Search: c.Query("search"),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ProjectListItemDTO, 0, len(projects))
	for _, p := range projects {
		item := dto.ProjectListItemDTO{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Status:             p.Status,
			TaskCount:          p.TaskCount,
			CompletedTaskCount: p.CompletedTaskCount,
			CreatedAt:          p.CreatedAt,
		}
		if p.Creator.ID != 0 {
			ref := dto.ToUserRefDTO(p.Creator)
			item.CreatedBy = &ref
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, dto.OK(dto.ProjectListData{
		Projects:   items,
		Total:      total,
		Pagination: dto.NewPagination(params.Page, params.Limit, total),
	}))
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(principal, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToProjectDTO(*project)))
}

// UpdateProjectRequest is the payload for patching a project. Absent fields
// are left untouched.
type UpdateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(principal, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Project updated successfully", dto.ToProjectDTO(*project)))
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(principal, projectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Project deleted successfully", nil))
}
