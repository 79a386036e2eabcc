package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/constants"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/harune/tenant-tracker/internal/quota"
	"github.com/harune/tenant-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("email already exists in this tenant")
	// ErrInvalidRole rejects roles outside {tenant_admin, user}. Creating
	// or promoting to super_admin through the API is impossible; together
	// with the model-level hook this keeps role=super_admin ⇔ no tenant.
	ErrInvalidRole = errors.New("role must be tenant_admin or user")
)

// UserService handles user management within a tenant.
type UserService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	guard      *quota.Guard
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, guard *quota.Guard) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		guard:      guard,
	}
}

// CreateUserInput holds the data for adding a user to a tenant.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// CreateUser adds a user to the tenant, subject to the tenant's user quota.
func (s *UserService) CreateUser(p auth.Principal, tenantID uint64, input CreateUserInput) (*models.User, error) {
	if decision := policy.CreateUser(p, tenantID); !decision.Allowed {
		return nil, decision.Reason
	}

	if _, err := s.tenantRepo.FindByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleTenantAdmin && role != models.RoleUser {
		return nil, ErrInvalidRole
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.userRepo.FindByEmail(email, &tenantID); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		TenantID:     &tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user, s.guard); err != nil {
		if errors.Is(err, quota.ErrLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsersInput holds filters for listing a tenant's users.
type ListUsersInput struct {
	Search string
	Role   *models.Role
	Offset int
	Limit  int
}

// ListUsers returns the tenant's users.
func (s *UserService) ListUsers(p auth.Principal, tenantID uint64, input ListUsersInput) ([]models.User, int64, error) {
	if decision := policy.ListUsers(p, tenantID); !decision.Allowed {
		return nil, 0, decision.Reason
	}

	users, total, err := s.userRepo.List(tenantID, repository.UserFilter{
		Search: input.Search,
		Role:   input.Role,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateUserInput is a field patch for a user. Nil pointers leave the
// field untouched.
type UpdateUserInput struct {
	FullName *string
	Role     *models.Role
	IsActive *bool
}

// UpdateUser applies the patch, restricted to the fields the policy grants
// the principal against the target user.
func (s *UserService) UpdateUser(p auth.Principal, userID uint64, input UpdateUserInput) (*models.User, error) {
	target, err := s.userRepo.FindByID(userID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	decision := policy.UpdateUser(p, target)
	if !decision.Allowed {
		return nil, decision.Reason
	}

	fields := map[string]interface{}{}
	if input.FullName != nil {
		if !decision.Mutable.Has(policy.FieldFullName) {
			return nil, ErrFieldNotAllowed
		}
		fields["full_name"] = *input.FullName
	}
	if input.Role != nil {
		if !decision.Mutable.Has(policy.FieldRole) {
			return nil, ErrFieldNotAllowed
		}
		if *input.Role != models.RoleTenantAdmin && *input.Role != models.RoleUser {
			return nil, ErrInvalidRole
		}
		fields["role"] = *input.Role
	}
	if input.IsActive != nil {
		if !decision.Mutable.Has(policy.FieldIsActive) {
			return nil, ErrFieldNotAllowed
		}
		fields["is_active"] = *input.IsActive
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.userRepo.FindByID(userID, repository.ForPrincipal(p))
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	return updated, nil
}

// DeleteUser deletes the target user and clears its task assignments.
// Self-deletion is denied by policy regardless of role.
func (s *UserService) DeleteUser(p auth.Principal, userID uint64) error {
	target, err := s.userRepo.FindByID(userID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if decision := policy.DeleteUser(p, target); !decision.Allowed {
		return decision.Reason
	}

	if err := s.userRepo.Delete(target); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
