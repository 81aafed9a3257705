package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/queue"
	"gorm.io/gorm"
)

// NotificationJob turns settlement and transfer events into in-app
// notification rows. Delivery channels beyond that (push, email) hang off
// the same rows and are out of scope here.
type NotificationJob struct {
	db *gorm.DB
}

// NewNotificationJob creates a new notification job handler
func NewNotificationJob(db *gorm.DB) *NotificationJob {
	return &NotificationJob{db: db}
}

// RegisterNotificationJobHandlers registers the notification handlers on the worker
func RegisterNotificationJobHandlers(w *queue.Worker, db *gorm.DB) {
	handler := NewNotificationJob(db)
	w.RegisterHandler(queue.JobTypeCashbackNotification, handler.ProcessCashbackNotification)
	w.RegisterHandler(queue.JobTypeTransferNotification, handler.ProcessTransferNotification)
}

// ProcessCashbackNotification notifies a client about cashback earned on a sale
func (j *NotificationJob) ProcessCashbackNotification(ctx context.Context, job queue.Job) error {
	var payload queue.CashbackNotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal cashback notification payload: %w", err)
	}

	var merchant models.Merchant
	storeName := "a partner store"
	if err := j.db.First(&merchant, "id = ?", payload.MerchantID).Error; err == nil {
		storeName = merchant.StoreName
	}

	message := fmt.Sprintf("You earned $%s cashback on your $%s purchase at %s.",
		payload.CashbackAmount.StringFixed(2), payload.Amount.StringFixed(2), storeName)

	return j.createNotification(payload.UserID, "Cashback earned", message)
}

// ProcessTransferNotification notifies the recipient of a balance transfer
func (j *NotificationJob) ProcessTransferNotification(ctx context.Context, job queue.Job) error {
	var payload queue.TransferNotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal transfer notification payload: %w", err)
	}

	var sender models.User
	senderName := "another user"
	if err := j.db.First(&sender, "id = ?", payload.FromUserID).Error; err == nil {
		senderName = sender.Name
	}

	message := fmt.Sprintf("You received $%s from %s.", payload.Amount.StringFixed(2), senderName)
	return j.createNotification(payload.ToUserID, "Transfer received", message)
}

func (j *NotificationJob) createNotification(userID uuid.UUID, title, message string) error {
	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := j.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	log.Printf("Notification created for user %s: %s", userID, title)
	return nil
}
