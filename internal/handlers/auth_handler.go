package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harune/tenant-tracker/internal/constants"
	"github.com/harune/tenant-tracker/internal/dto"
	apperrors "github.com/harune/tenant-tracker/internal/errors"
	"github.com/harune/tenant-tracker/internal/metrics"
	"github.com/harune/tenant-tracker/internal/middleware"
	"github.com/harune/tenant-tracker/internal/services"
)

// AuthHandler handles tenant registration, login, and the current-user
// endpoint.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the payload for opening a new tenant.
type RegisterRequest struct {
	TenantName    string `json:"tenant_name" binding:"required"`
	Subdomain     string `json:"subdomain" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required"`
	AdminFullName string `json:"admin_full_name" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	tenant, admin, err := h.authService.RegisterTenant(services.RegisterTenantInput{
		TenantName:    req.TenantName,
		Subdomain:     req.Subdomain,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminFullName: req.AdminFullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RegistrationCounter.Inc()

	c.JSON(http.StatusCreated, dto.OKMessage("Tenant registered successfully", gin.H{
		"tenant": dto.ToTenantDTO(*tenant),
		"admin":  dto.ToUserDTO(*admin),
	}))
}

// LoginRequest is the payload for authentication. Subdomain selects the
// tenant context and may be empty for a platform-level login.
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Subdomain string `json:"subdomain"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, err.Error())
		return
	}

	metrics.LoginCounter.Inc()

	user, token, err := h.authService.Login(services.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		Subdomain: req.Subdomain,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.LoginData{
		User:      dto.ToUserDTO(*user),
		Token:     token,
		ExpiresIn: constants.TokenTTLHours * 3600,
	}))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, tenant, err := h.authService.GetMe(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	me := dto.MeDTO{UserDTO: dto.ToUserDTO(*user)}
	if tenant != nil {
		t := dto.ToTenantDTO(*tenant)
		me.Tenant = &t
	}

	c.JSON(http.StatusOK, dto.OK(me))
}
