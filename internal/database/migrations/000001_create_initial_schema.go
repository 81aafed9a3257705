package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/queue"
	"gorm.io/gorm"
)

// CreateInitialSchema creates every table the application uses
func CreateInitialSchema() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_initial_schema",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
				return err
			}

			return tx.AutoMigrate(
				&models.User{},
				&models.Merchant{},
				&models.CashbackBalance{},
				&models.Transaction{},
				&models.Referral{},
				&models.Transfer{},
				&models.PaymentQRCode{},
				&models.Setting{},
				&models.Notification{},
				&queue.Job{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&queue.Job{},
				&models.Notification{},
				&models.Setting{},
				&models.PaymentQRCode{},
				&models.Transfer{},
				&models.Referral{},
				&models.Transaction{},
				&models.CashbackBalance{},
				&models.Merchant{},
				&models.User{},
			)
		},
	}
}
