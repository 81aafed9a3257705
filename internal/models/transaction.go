package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction represents a settled sale between a client and a merchant.
// The settlement breakdown is computed once at creation time and stored;
// later rate changes never touch existing rows.
type Transaction struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	User               User              `gorm:"foreignKey:UserID" json:"-"`
	MerchantID         uuid.UUID         `gorm:"type:uuid;index;not null" json:"merchant_id"`
	Merchant           Merchant          `gorm:"foreignKey:MerchantID" json:"-"`
	Amount             decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	CashbackAmount     decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"cashback_amount"`
	PlatformFee        decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"platform_fee"`
	MerchantCommission decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"merchant_commission"`
	ReferralBonus      decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"referral_bonus"`
	MerchantNet        decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"merchant_net"`
	Status             TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	PaymentMethod      string            `gorm:"type:varchar(30)" json:"payment_method"`
	Description        string            `gorm:"type:text" json:"description"`
	// Reference is the caller-supplied idempotency key; retries with the
	// same reference return the original row instead of settling twice.
	Reference string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
