package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralStatus defines the status of a referral
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralCompleted ReferralStatus = "completed"
)

// Referral links a referred user to their referrer. Created at registration
// time; Bonus accumulates on every qualifying purchase by the referred user,
// with no cap on the number of purchases.
type Referral struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReferrerID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"referrer_id"`
	Referrer       User            `gorm:"foreignKey:ReferrerID" json:"-"`
	ReferredUserID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"referred_user_id"`
	ReferredUser   User            `gorm:"foreignKey:ReferredUserID" json:"-"`
	Bonus          decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"bonus"`
	Status         ReferralStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	LastBonusAt    *time.Time      `json:"last_bonus_at"`
	CreatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
