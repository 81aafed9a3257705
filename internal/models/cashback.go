package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashbackBalance holds a user's accumulated cashback. One row per user,
// owned exclusively by the ledger service; all writes go through a locked
// database transaction.
type CashbackBalance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID" json:"-"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	TotalEarned decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_earned"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
