package models

import (
	"time"

	"gorm.io/gorm"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

type Tenant struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Subdomain   string         `gorm:"type:varchar(63);uniqueIndex;not null" json:"subdomain"`
	Status      TenantStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Plan        string         `gorm:"type:varchar(50);not null;default:'free'" json:"plan"`
	MaxUsers    int            `gorm:"not null" json:"max_users"`
	MaxProjects int            `gorm:"not null" json:"max_projects"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Users    []User    `gorm:"foreignKey:TenantID" json:"-"`
	Projects []Project `gorm:"foreignKey:TenantID" json:"-"`
}
