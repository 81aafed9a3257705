package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Merchant represents a merchant profile attached to a user account
type Merchant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	StoreName string    `gorm:"type:varchar(100);not null" json:"store_name"`
	StoreSlug string    `gorm:"type:varchar(120);uniqueIndex" json:"store_slug"`
	Category  string    `gorm:"type:varchar(50)" json:"category"`
	// CommissionRate overrides the global merchant commission percentage
	// when set. Nil means the global rate applies.
	CommissionRate *decimal.Decimal `gorm:"type:decimal(5,2)" json:"commission_rate,omitempty"`
	Approved       bool             `gorm:"default:false" json:"approved"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}
