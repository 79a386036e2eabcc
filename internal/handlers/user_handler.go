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

// UserHandler handles user management within a tenant.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the payload for adding a user to a tenant.
type CreateUserRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	FullName string      `json:"full_name" binding:"required"`
	Role     models.Role `json:"role"`
}

// Create handles POST /api/tenants/:id/users
func (h *UserHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	tenantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateUser(principal, tenantID, services.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OKMessage("User created successfully", dto.ToUserDTO(*user)))
}

// List handles GET /api/tenants/:id/users
func (h *UserHandler) List(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	tenantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	var role *models.Role
	if value := c.Query("role"); value != "" {
		r := models.Role(value)
		role = &r
	}

	users, total, err := h.userService.ListUsers(principal, tenantID, services.ListUsersInput{
		Search: c.Query("search"),
		Role:   role,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ToUserDTO(u))
	}

	c.JSON(http.StatusOK, dto.OK(dto.UserListData{
		Users:      items,
		Total:      total,
		Pagination: dto.NewPagination(params.Page, params.Limit, total),
	}))
}

// UpdateUserRequest is the payload for patching a user. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	FullName *string      `json:"full_name"`
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"is_active"`
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(principal, userID, services.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("User updated successfully", dto.ToUserDTO(*user)))
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(principal, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("User deleted successfully", nil))
}
