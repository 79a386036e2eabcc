package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harune/tenant-tracker/internal/auth"
	"github.com/harune/tenant-tracker/internal/constants"
	"github.com/harune/tenant-tracker/internal/models"
	"github.com/harune/tenant-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrSubdomainTaken    = errors.New("subdomain already exists")
	ErrSubdomainRequired = errors.New("subdomain is required")
	// ErrInvalidCredentials deliberately merges unknown email, wrong
	// password, and wrong tenant so none of them can be told apart.
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrTenantNotFound        = errors.New("tenant not found")
	ErrTenantSuspended       = errors.New("tenant is not active")
	ErrTenantContextRequired = errors.New("tenant domain required")
	ErrAccountSuspended      = errors.New("account suspended")
	ErrUserNotFound          = errors.New("user not found")
	ErrPasswordTooShort      = errors.New("password too short")
	ErrFailedToHashPassword  = errors.New("failed to hash password")
)

// AuthService handles tenant registration and authentication.
type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	jwtSecret  string
	tokenTTL   time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

// RegisterTenantInput holds everything needed to open a new tenant.
type RegisterTenantInput struct {
	TenantName    string
	Subdomain     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// RegisterTenant creates a tenant and its first admin user in a single
// transaction. New tenants start on the free plan defaults.
func (s *AuthService) RegisterTenant(input RegisterTenantInput) (*models.Tenant, *models.User, error) {
	subdomain := strings.ToLower(strings.TrimSpace(input.Subdomain))
	if subdomain == "" {
		return nil, nil, ErrSubdomainRequired
	}
	if len(input.AdminPassword) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	if _, err := s.tenantRepo.FindBySubdomain(subdomain); err == nil {
		return nil, nil, ErrSubdomainTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check subdomain: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	tenant := &models.Tenant{
		Name:        input.TenantName,
		Subdomain:   subdomain,
		Status:      models.TenantStatusActive,
		Plan:        constants.DefaultPlan,
		MaxUsers:    constants.DefaultMaxUsers,
		MaxProjects: constants.DefaultMaxProjects,
	}

	admin := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.AdminEmail)),
		PasswordHash: string(hash),
		FullName:     input.AdminFullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	if err := s.tenantRepo.RegisterWithAdmin(tenant, admin); err != nil {
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	return tenant, admin, nil
}

// LoginInput holds the credentials for authentication. Subdomain selects
// the tenant context; empty means a platform-level login.
type LoginInput struct {
	Email     string
	Password  string
	Subdomain string
}

// Login resolves the tenant context, verifies credentials, and issues a
// bearer token. Wrong password, unknown email, and wrong tenant all come
// back as ErrInvalidCredentials.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user *models.User

	if input.Subdomain != "" {
		tenant, err := s.tenantRepo.FindBySubdomain(strings.ToLower(input.Subdomain))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrTenantNotFound
			}
			return nil, "", fmt.Errorf("failed to resolve tenant: %w", err)
		}
		if tenant.Status != models.TenantStatusActive {
			return nil, "", ErrTenantSuspended
		}

		// A member of the tenant, or a platform super admin.
		user, err = s.userRepo.FindByEmail(email, &tenant.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user, err = s.userRepo.FindByEmail(email, nil)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrInvalidCredentials
			}
			return nil, "", fmt.Errorf("failed to find user: %w", err)
		}
	} else {
		// Without a tenant context only the platform super admin may
		// authenticate.
		var err error
		user, err = s.userRepo.FindByEmail(email, nil)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", fmt.Errorf("failed to find user: %w", err)
			}
			if _, anyErr := s.userRepo.FindAnyByEmail(email); anyErr == nil {
				return nil, "", ErrTenantContextRequired
			}
			return nil, "", ErrInvalidCredentials
		}
	}

	// Password first: the account-status signal is only revealed to callers
	// holding valid credentials.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrAccountSuspended
	}

	token, err := auth.IssueToken(user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetMe returns the authenticated user and, when it belongs to a tenant,
// the tenant record.
func (s *AuthService) GetMe(p auth.Principal) (*models.User, *models.Tenant, error) {
	user, err := s.userRepo.FindByID(p.UserID, repository.ForPrincipal(p))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	var tenant *models.Tenant
	if user.TenantID != nil {
		tenant, err = s.tenantRepo.FindByID(*user.TenantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to load tenant: %w", err)
		}
	}

	return user, tenant, nil
}
