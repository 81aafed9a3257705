package migrations

import (
	"encoding/json"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/rates"
	"gorm.io/gorm"
)

// SeedDefaultRates installs the launch rate configuration so settlements
// work out of the box: 2% cashback, 1% commission, 2% platform fee, 1%
// referral bonus
func SeedDefaultRates() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_seed_default_rates",
		Migrate: func(tx *gorm.DB) error {
			value, err := json.Marshal(rates.DefaultRates())
			if err != nil {
				return err
			}

			setting := models.Setting{Key: rates.SettingsKey, Value: string(value)}
			return tx.Where(models.Setting{Key: rates.SettingsKey}).
				FirstOrCreate(&setting).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Delete(&models.Setting{}, "key = ?", rates.SettingsKey).Error
		},
	}
}
