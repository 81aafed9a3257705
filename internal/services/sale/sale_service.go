package sale

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/queue"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/rates"
	"github.com/valecashback/backend/internal/services/settlement"
	"github.com/valecashback/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrMerchantNotFound is returned when the merchant does not exist
	ErrMerchantNotFound = errors.New("merchant not found")
	// ErrMerchantNotApproved is returned when the merchant has not been approved by an admin
	ErrMerchantNotApproved = errors.New("merchant is not approved for sales")
)

// RateProvider resolves the rate configuration for a merchant
type RateProvider interface {
	GetRates(merchantID uuid.UUID) (rates.RateConfig, error)
}

// Ledger applies a computed settlement to persisted balances
type Ledger interface {
	ApplySettlement(input ledger.SettlementInput, result settlement.Settlement) (*models.Transaction, error)
}

// Service orchestrates sale registration: rate resolution, settlement
// computation and atomic application, then the notification event.
type Service struct {
	db     *gorm.DB
	rates  RateProvider
	ledger Ledger
	queue  queue.Enqueuer
}

// NewService creates a new sale service. queue may be nil in contexts with
// no worker (notifications are then skipped).
func NewService(db *gorm.DB, rateProvider RateProvider, ledgerService Ledger, q queue.Enqueuer) *Service {
	return &Service{db: db, rates: rateProvider, ledger: ledgerService, queue: q}
}

// RegisterSaleInput carries one incoming sale registration
type RegisterSaleInput struct {
	UserID        uuid.UUID
	MerchantID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	// Reference is optional; when empty a fresh one is generated. Callers
	// that retry must pass a stable reference to avoid double settlement.
	Reference string
}

// RegisterSale settles one sale. The sale either fully succeeds — the
// transaction row plus every balance credit committed together — or fails
// with no visible effect.
func (s *Service) RegisterSale(input RegisterSaleInput) (*models.Transaction, error) {
	var merchant models.Merchant
	err := s.db.First(&merchant, "id = ?", input.MerchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding merchant: %w", err)
	}
	if !merchant.Approved {
		return nil, ErrMerchantNotApproved
	}

	if input.Reference == "" {
		input.Reference = utils.GenerateReference("SALE")
	}

	config, err := s.rates.GetRates(input.MerchantID)
	if err != nil {
		return nil, err
	}

	result, err := settlement.Compute(input.Amount, config)
	if err != nil {
		return nil, err
	}

	txn, err := s.ledger.ApplySettlement(ledger.SettlementInput{
		UserID:        input.UserID,
		MerchantID:    input.MerchantID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Description:   input.Description,
		Reference:     input.Reference,
	}, result)
	if err != nil {
		return nil, err
	}

	if s.queue != nil {
		_, err := s.queue.Enqueue(queue.JobTypeCashbackNotification, queue.CashbackNotificationPayload{
			UserID:         txn.UserID,
			MerchantID:     txn.MerchantID,
			Amount:         txn.Amount,
			CashbackAmount: txn.CashbackAmount,
		})
		if err != nil {
			// The settlement is committed; a lost notification is not a
			// reason to fail the sale.
			log.Printf("Failed to enqueue cashback notification for %s: %v", txn.Reference, err)
		}
	}

	return txn, nil
}
