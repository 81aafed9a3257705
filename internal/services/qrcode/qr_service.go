package qrcode

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/sale"
	"github.com/valecashback/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrInvalidAmount is returned when the requested amount is zero or negative
	ErrInvalidAmount = errors.New("QR code amount must be greater than zero")
	// ErrCodeNotFound is returned when no QR code matches
	ErrCodeNotFound = errors.New("QR code not found")
	// ErrCodeExpired is returned when the QR code has passed its expiry
	ErrCodeExpired = errors.New("QR code has expired")
	// ErrCodeUsed is returned when the QR code was already paid
	ErrCodeUsed = errors.New("QR code has already been used")
)

// SaleRegistrar settles the sale behind a paid QR code
type SaleRegistrar interface {
	RegisterSale(input sale.RegisterSaleInput) (*models.Transaction, error)
}

// Service manages single-use merchant payment QR codes
type Service struct {
	db    *gorm.DB
	sales SaleRegistrar
}

// NewService creates a new QR code service
func NewService(db *gorm.DB, sales SaleRegistrar) *Service {
	return &Service{db: db, sales: sales}
}

// CreateCode creates a payment QR code for a merchant
func (s *Service) CreateCode(merchantID uuid.UUID, amount decimal.Decimal, description string, ttl time.Duration) (*models.PaymentQRCode, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	code := models.PaymentQRCode{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		Code:        utils.GenerateReference("QR"),
		Amount:      amount,
		Description: description,
		Status:      models.QRCodeActive,
		ExpiresAt:   time.Now().Add(ttl),
	}

	if err := s.db.Create(&code).Error; err != nil {
		return nil, fmt.Errorf("error creating QR code: %w", err)
	}
	return &code, nil
}

// PayCode redeems a QR code as the given user. The code is claimed
// atomically before settlement, so two clients scanning the same code cannot
// both pay it; the settlement itself is deduplicated by the code-derived
// reference.
func (s *Service) PayCode(code string, userID uuid.UUID, paymentMethod string) (*models.Transaction, error) {
	var qr models.PaymentQRCode
	err := s.db.First(&qr, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding QR code: %w", err)
	}

	// Claim the code. The guarded update only succeeds for one caller.
	claim := s.db.Model(&models.PaymentQRCode{}).
		Where("id = ? AND status = ?", qr.ID, models.QRCodeActive).
		Where("expires_at > ?", time.Now()).
		Updates(map[string]interface{}{
			"status":     models.QRCodeUsed,
			"paid_by_id": userID,
			"updated_at": time.Now(),
		})
	if claim.Error != nil {
		return nil, fmt.Errorf("error claiming QR code: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		if qr.Status == models.QRCodeUsed {
			return nil, ErrCodeUsed
		}
		return nil, ErrCodeExpired
	}

	txn, err := s.sales.RegisterSale(sale.RegisterSaleInput{
		UserID:        userID,
		MerchantID:    qr.MerchantID,
		Amount:        qr.Amount,
		PaymentMethod: paymentMethod,
		Description:   qr.Description,
		Reference:     "QR_" + qr.Code,
	})
	if err != nil {
		// Settlement failed; release the code so it can be retried.
		release := s.db.Model(&models.PaymentQRCode{}).
			Where("id = ? AND status = ?", qr.ID, models.QRCodeUsed).
			Updates(map[string]interface{}{
				"status":     models.QRCodeActive,
				"paid_by_id": nil,
				"updated_at": time.Now(),
			})
		if release.Error != nil {
			log.Printf("Failed to release QR code %s after failed settlement: %v", qr.Code, release.Error)
		}
		return nil, err
	}

	return txn, nil
}

// GetMerchantCodes lists a merchant's QR codes, newest first
func (s *Service) GetMerchantCodes(merchantID uuid.UUID) ([]models.PaymentQRCode, error) {
	var codes []models.PaymentQRCode
	if err := s.db.Where("merchant_id = ?", merchantID).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("error finding QR codes: %w", err)
	}
	return codes, nil
}

// ExpireStale marks active codes past their expiry as expired. Returns how
// many codes were affected.
func (s *Service) ExpireStale() (int64, error) {
	result := s.db.Model(&models.PaymentQRCode{}).
		Where("status = ? AND expires_at <= ?", models.QRCodeActive, time.Now()).
		Update("status", models.QRCodeExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("error expiring QR codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}
