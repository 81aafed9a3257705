// Package ledger owns every write to cashback balances. All credits and
// debits happen inside a database transaction with the balance row locked,
// so concurrent settlements for the same user serialize instead of losing
// updates.
package ledger

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/referral"
	"github.com/valecashback/backend/internal/services/settlement"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrPersistence is returned when storage fails mid-settlement. The whole
	// operation rolled back; callers retry the entire call with the same
	// reference, never individual steps.
	ErrPersistence = errors.New("settlement could not be persisted")
	// ErrInsufficientFunds is returned when a debit exceeds the available balance
	ErrInsufficientFunds = errors.New("insufficient cashback balance")
)

// SettlementInput carries the sale being settled
type SettlementInput struct {
	UserID        uuid.UUID
	MerchantID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	// Reference deduplicates retries: a settlement whose reference already
	// exists returns the stored transaction instead of crediting twice.
	Reference string
}

// Service applies settlement results to persisted balances
type Service struct {
	db        *gorm.DB
	referrals *referral.Service
}

// NewService creates a new ledger service
func NewService(db *gorm.DB, referrals *referral.Service) *Service {
	return &Service{db: db, referrals: referrals}
}

// ApplySettlement atomically records a settled sale: the transaction row is
// inserted, the buyer's balance is credited with the cashback, and when the
// buyer has a referrer the referrer's balance is credited with the bonus and
// the referral row accumulates it. Either every step commits or none do.
func (s *Service) ApplySettlement(input SettlementInput, result settlement.Settlement) (*models.Transaction, error) {
	if existing, err := s.findByReference(input.Reference); err != nil {
		return nil, err
	} else if existing != nil {
		log.Printf("settlement %s already applied, returning existing transaction", input.Reference)
		return existing, nil
	}

	txn := models.Transaction{
		ID:                 uuid.New(),
		UserID:             input.UserID,
		MerchantID:         input.MerchantID,
		Amount:             input.Amount,
		CashbackAmount:     result.ClientCashback,
		PlatformFee:        result.PlatformFee,
		MerchantCommission: result.MerchantCommission,
		ReferralBonus:      decimal.Zero,
		MerchantNet:        result.MerchantNet,
		Status:             models.TransactionCompleted,
		PaymentMethod:      input.PaymentMethod,
		Description:        input.Description,
		Reference:          input.Reference,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.CreditTx(tx, input.UserID, result.ClientCashback); err != nil {
			return err
		}

		ref, err := s.referrals.FindByReferredTx(tx, input.UserID)
		if err != nil {
			return err
		}
		if ref == nil {
			log.Printf("user %s has no referrer, skipping referral bonus", input.UserID)
		} else if result.ReferralBonus.IsPositive() {
			if err := s.CreditTx(tx, ref.ReferrerID, result.ReferralBonus); err != nil {
				return err
			}
			if err := s.referrals.AccrueBonusTx(tx, ref, result.ReferralBonus); err != nil {
				return err
			}
			txn.ReferralBonus = result.ReferralBonus
		}

		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("error creating transaction record: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent retry may have won the race on the unique reference;
		// in that case the settlement did happen and we return it.
		if existing, lookupErr := s.findByReference(input.Reference); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &txn, nil
}

// CreditTx adds amount to a user's cashback balance inside the given
// transaction, creating the balance row on first credit. The row is locked
// for the duration of the transaction.
func (s *Service) CreditTx(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit amount must not be negative")
	}

	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	balance.Balance = balance.Balance.Add(amount)
	balance.TotalEarned = balance.TotalEarned.Add(amount)
	if err := tx.Save(balance).Error; err != nil {
		return fmt.Errorf("error updating cashback balance: %w", err)
	}
	return nil
}

// ReceiveTx adds amount to a user's balance without counting it as earned
// cashback. Used for peer-to-peer transfers.
func (s *Service) ReceiveTx(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit amount must not be negative")
	}

	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	balance.Balance = balance.Balance.Add(amount)
	if err := tx.Save(balance).Error; err != nil {
		return fmt.Errorf("error updating cashback balance: %w", err)
	}
	return nil
}

// DebitTx removes amount from a user's cashback balance inside the given
// transaction. Fails with ErrInsufficientFunds when the balance is too low.
func (s *Service) DebitTx(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	if balance.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	balance.Balance = balance.Balance.Sub(amount)
	if err := tx.Save(balance).Error; err != nil {
		return fmt.Errorf("error updating cashback balance: %w", err)
	}
	return nil
}

// GetBalance returns a user's cashback balance, zero-valued when the user
// has never been credited.
func (s *Service) GetBalance(userID uuid.UUID) (*models.CashbackBalance, error) {
	var balance models.CashbackBalance
	err := s.db.First(&balance, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CashbackBalance{UserID: userID, Balance: decimal.Zero, TotalEarned: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding cashback balance: %w", err)
	}
	return &balance, nil
}

// GetTransactionHistory lists settled transactions for a user, newest first
func (s *Service) GetTransactionHistory(userID uuid.UUID, page, pageSize int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting transactions: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding transactions: %w", err)
	}
	return transactions, total, nil
}

// lockBalance loads a user's balance row with a row-level lock, creating it
// when the user has never held a balance. The unique index on user_id makes
// concurrent first credits serialize on the insert.
func (s *Service) lockBalance(tx *gorm.DB, userID uuid.UUID) (*models.CashbackBalance, error) {
	query := tx
	// SQLite (used in tests) has no SELECT ... FOR UPDATE; its writer lock
	// already serializes the transaction.
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var balance models.CashbackBalance
	err := query.First(&balance, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = models.CashbackBalance{
			ID:          uuid.New(),
			UserID:      userID,
			Balance:     decimal.Zero,
			TotalEarned: decimal.Zero,
		}
		if err := tx.Create(&balance).Error; err != nil {
			return nil, fmt.Errorf("error creating cashback balance: %w", err)
		}
		return &balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error locking cashback balance: %w", err)
	}
	return &balance, nil
}

func (s *Service) findByReference(reference string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.First(&txn, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &txn, nil
}
