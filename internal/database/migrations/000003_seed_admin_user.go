package migrations

import (
	"os"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/utils"
	"gorm.io/gorm"
)

const adminEmail = "admin@valecashback.com"

// SeedAdminUser creates the initial admin account. The password comes from
// ADMIN_PASSWORD and must be changed after first login.
func SeedAdminUser() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_seed_admin_user",
		Migrate: func(tx *gorm.DB) error {
			password := os.Getenv("ADMIN_PASSWORD")
			if password == "" {
				password = "changeme123"
			}

			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}

			admin := models.User{
				ID:           uuid.New(),
				Email:        adminEmail,
				Name:         "Administrator",
				PasswordHash: hash,
				Role:         models.RoleAdmin,
				ReferralCode: utils.GenerateReferralCode(),
				IsActive:     true,
			}
			return tx.Where(models.User{Email: adminEmail}).
				Attrs(admin).
				FirstOrCreate(&admin).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Unscoped().Delete(&models.User{}, "email = ?", adminEmail).Error
		},
	}
}
