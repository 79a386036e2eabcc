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

// TenantHandler handles tenant reads and updates.
type TenantHandler struct {
	tenantService *services.TenantService
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// List handles GET /api/tenants
func (h *TenantHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tenants, total, err := h.tenantService.ListTenants(principal, params.Offset, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.TenantDTO, 0, len(tenants))
	for _, t := range tenants {
		items = append(items, dto.ToTenantDTO(t))
	}

	c.JSON(http.StatusOK, dto.OK(dto.TenantListData{
		Tenants:    items,
		Total:      total,
		Pagination: dto.NewPagination(params.Page, params.Limit, total),
	}))
}

// Get handles GET /api/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	tenantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tenant, stats, err := h.tenantService.GetTenant(principal, tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.TenantDetailDTO{
		TenantDTO: dto.ToTenantDTO(*tenant),
		Stats: dto.TenantStatsDTO{
			TotalUsers:    stats.TotalUsers,
			TotalProjects: stats.TotalProjects,
			TotalTasks:    stats.TotalTasks,
		},
	}))
}

// UpdateTenantRequest is the payload for patching a tenant. Absent fields
// are left untouched.
type UpdateTenantRequest struct {
	Name        *string              `json:"name"`
	Status      *models.TenantStatus `json:"status"`
	Plan        *string              `json:"plan"`
	MaxUsers    *int                 `json:"max_users"`
	MaxProjects *int                 `json:"max_projects"`
}

// Update handles PUT /api/tenants/:id
func (h *TenantHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	tenantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.UpdateTenant(principal, tenantID, services.UpdateTenantInput{
		Name:        req.Name,
		Status:      req.Status,
		Plan:        req.Plan,
		MaxUsers:    req.MaxUsers,
		MaxProjects: req.MaxProjects,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Tenant updated successfully", dto.ToTenantDTO(*tenant)))
}
