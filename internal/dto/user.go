package dto

import (
	"time"

	"github.com/harune/tenant-tracker/internal/models"
)

// UserDTO represents a user in API responses. The password hash never
// leaves the models package.
type UserDTO struct {
	ID        uint64      `json:"id"`
	TenantID  *uint64     `json:"tenant_id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserRefDTO is the minimal user reference embedded in other resources.
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// MeDTO is the current-user payload, with tenant details when the user
// belongs to one.
type MeDTO struct {
	UserDTO
	Tenant *TenantDTO `json:"tenant"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	User      UserDTO `json:"user"`
	Token     string  `json:"token"`
	ExpiresIn int     `json:"expires_in"`
}

// UserListData is the payload of the user list endpoint.
type UserListData struct {
	Users      []UserDTO  `json:"users"`
	Total      int64      `json:"total"`
	Pagination Pagination `json:"pagination"`
}

// ToUserDTO converts a User model to its response shape.
func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserRefDTO converts a User model to its embedded reference shape.
func ToUserRefDTO(u models.User) UserRefDTO {
	return UserRefDTO{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
