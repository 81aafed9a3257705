package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QRCodeStatus defines the status of a payment QR code
type QRCodeStatus string

const (
	QRCodeActive  QRCodeStatus = "active"
	QRCodeUsed    QRCodeStatus = "used"
	QRCodeExpired QRCodeStatus = "expired"
)

// PaymentQRCode is a single-use payment request created by a merchant.
// Paying it routes through the regular sale settlement path.
type PaymentQRCode struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"merchant_id"`
	Merchant    Merchant        `gorm:"foreignKey:MerchantID" json:"-"`
	Code        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Status      QRCodeStatus    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	PaidByID    *uuid.UUID      `gorm:"type:uuid" json:"paid_by_id,omitempty"`
	ExpiresAt   time.Time       `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
