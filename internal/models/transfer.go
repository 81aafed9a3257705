package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer records a peer-to-peer movement of cashback balance
type Transfer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	FromUserID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"from_user_id"`
	FromUser    User            `gorm:"foreignKey:FromUserID" json:"-"`
	ToUserID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"to_user_id"`
	ToUser      User            `gorm:"foreignKey:ToUserID" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Reference   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
