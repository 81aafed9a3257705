package transfer

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/queue"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrInvalidAmount is returned when the transfer amount is zero or negative
	ErrInvalidAmount = errors.New("transfer amount must be greater than zero")
	// ErrSameUser is returned when sender and recipient are the same account
	ErrSameUser = errors.New("cannot transfer to your own account")
	// ErrRecipientNotFound is returned when the recipient does not exist
	ErrRecipientNotFound = errors.New("recipient not found")
)

// Service moves cashback balance between users
type Service struct {
	db     *gorm.DB
	ledger *ledger.Service
	queue  queue.Enqueuer
}

// NewService creates a new transfer service
func NewService(db *gorm.DB, ledgerService *ledger.Service, q queue.Enqueuer) *Service {
	return &Service{db: db, ledger: ledgerService, queue: q}
}

// Transfer moves amount from one user's balance to another's. Both balance
// rows are locked inside one database transaction, so the debit and credit
// are visible together or not at all.
func (s *Service) Transfer(fromUserID, toUserID uuid.UUID, amount decimal.Decimal, description string) (*models.Transfer, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSameUser
	}

	var recipient models.User
	err := s.db.First(&recipient, "id = ? AND is_active = ?", toUserID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding recipient: %w", err)
	}

	transfer := models.Transfer{
		ID:          uuid.New(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		Description: description,
		Reference:   utils.GenerateReference("TRF"),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.DebitTx(tx, fromUserID, amount); err != nil {
			return err
		}
		if err := s.ledger.ReceiveTx(tx, toUserID, amount); err != nil {
			return err
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return fmt.Errorf("error creating transfer record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("error applying transfer: %w", err)
	}

	if s.queue != nil {
		_, err := s.queue.Enqueue(queue.JobTypeTransferNotification, queue.TransferNotificationPayload{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     amount,
		})
		if err != nil {
			log.Printf("Failed to enqueue transfer notification for %s: %v", transfer.Reference, err)
		}
	}

	return &transfer, nil
}

// GetTransfers lists transfers involving a user, newest first
func (s *Service) GetTransfers(userID uuid.UUID, page, pageSize int) ([]models.Transfer, int64, error) {
	var transfers []models.Transfer
	var total int64

	query := s.db.Model(&models.Transfer{}).Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting transfers: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&transfers).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding transfers: %w", err)
	}
	return transfers, total, nil
}
