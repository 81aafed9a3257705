package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user can do in the system
type Role string

const (
	RoleClient   Role = "client"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// User represents a user in the system
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	ReferralCode string         `gorm:"type:varchar(20);uniqueIndex" json:"referral_code"`
	// No column default: gorm omits zero values for fields carrying a default
	// tag, which would turn a stored false back into true. Creation sites set
	// the value explicitly.
	IsActive     bool           `gorm:"not null" json:"is_active"`
	PhoneNumber  *string        `gorm:"type:varchar(20)" json:"phone_number"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
