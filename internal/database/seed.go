package database

import (
	"errors"
	"fmt"

	"github.com/harune/tenant-tracker/internal/config"
	"github.com/harune/tenant-tracker/internal/logger"
	"github.com/harune/tenant-tracker/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSuperAdmin creates the platform super admin if configured and not
// already present. Idempotent across restarts.
func SeedSuperAdmin(cfg *config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPass == "" {
		logger.L().Info("no seed admin configured, skipping")
		return nil
	}

	var existing models.User
	err := DB.Where("tenant_id IS NULL AND email = ?", cfg.SeedAdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := &models.User{
		Email:        cfg.SeedAdminEmail,
		PasswordHash: string(hash),
		FullName:     "Super Admin",
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := DB.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	logger.L().Info("super admin seeded", zap.String("email", cfg.SeedAdminEmail))
	return nil
}
