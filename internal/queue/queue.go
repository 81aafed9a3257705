package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobType defines the type of job
type JobType string

const (
	// JobTypeCashbackNotification notifies a user about cashback earned on a sale
	JobTypeCashbackNotification JobType = "cashback_notification"
	// JobTypeTransferNotification notifies a user about a received transfer
	JobTypeTransferNotification JobType = "transfer_notification"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Enqueuer is the narrow interface services use to publish jobs
type Enqueuer interface {
	Enqueue(jobType JobType, payload interface{}) (string, error)
}

// CashbackNotificationPayload is emitted after every successful settlement
type CashbackNotificationPayload struct {
	UserID         uuid.UUID       `json:"user_id"`
	MerchantID     uuid.UUID       `json:"merchant_id"`
	Amount         decimal.Decimal `json:"amount"`
	CashbackAmount decimal.Decimal `json:"cashback_amount"`
}

// TransferNotificationPayload is emitted after a successful balance transfer
type TransferNotificationPayload struct {
	FromUserID uuid.UUID       `json:"from_user_id"`
	ToUserID   uuid.UUID       `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}
