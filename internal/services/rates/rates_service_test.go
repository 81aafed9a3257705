package rates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valecashback/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Merchant{}, &models.Setting{}))
	return db
}

func TestGetGlobalRates_MissingConfiguration(t *testing.T) {
	service := NewService(setupTestDB(t))

	_, err := service.GetGlobalRates()
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestUpdateAndGetGlobalRates(t *testing.T) {
	service := NewService(setupTestDB(t))

	require.NoError(t, service.UpdateGlobalRates(DefaultRates()))

	config, err := service.GetGlobalRates()
	require.NoError(t, err)
	assert.True(t, config.PlatformFeePct.Equal(decimal.NewFromInt(2)))
	assert.True(t, config.MerchantCommissionPct.Equal(decimal.NewFromInt(1)))
	assert.True(t, config.ClientCashbackPct.Equal(decimal.NewFromInt(2)))
	assert.True(t, config.ReferralBonusPct.Equal(decimal.NewFromInt(1)))
}

func TestUpdateGlobalRates_RejectsInvalidConfigurations(t *testing.T) {
	service := NewService(setupTestDB(t))

	negative := DefaultRates()
	negative.ClientCashbackPct = decimal.NewFromInt(-1)
	assert.ErrorIs(t, service.UpdateGlobalRates(negative), ErrInvalidRates)

	excessive := RateConfig{
		PlatformFeePct:        decimal.NewFromInt(50),
		MerchantCommissionPct: decimal.NewFromInt(30),
		ClientCashbackPct:     decimal.NewFromInt(30),
		ReferralBonusPct:      decimal.NewFromInt(1),
	}
	assert.ErrorIs(t, service.UpdateGlobalRates(excessive), ErrInvalidRates)
}

func TestUpdateGlobalRates_ReferralBonusOutsideCap(t *testing.T) {
	service := NewService(setupTestDB(t))

	// 98 + 1 + 1 = 100 exactly; the referral bonus rides on the platform
	// share and must not trip the cap.
	config := RateConfig{
		PlatformFeePct:        decimal.NewFromInt(98),
		MerchantCommissionPct: decimal.NewFromInt(1),
		ClientCashbackPct:     decimal.NewFromInt(1),
		ReferralBonusPct:      decimal.NewFromInt(90),
	}
	assert.NoError(t, service.UpdateGlobalRates(config))
}

func TestGetRates_MerchantOverride(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	require.NoError(t, service.UpdateGlobalRates(DefaultRates()))

	override := decimal.RequireFromString("3.5")
	user := models.User{ID: uuid.New(), Email: "store@example.com", PasswordHash: "x", ReferralCode: "STORE1"}
	require.NoError(t, db.Create(&user).Error)
	merchant := models.Merchant{
		ID:             uuid.New(),
		UserID:         user.ID,
		StoreName:      "Corner Store",
		StoreSlug:      "corner-store",
		CommissionRate: &override,
		Approved:       true,
	}
	require.NoError(t, db.Create(&merchant).Error)

	config, err := service.GetRates(merchant.ID)
	require.NoError(t, err)
	assert.True(t, config.MerchantCommissionPct.Equal(override))
	// Everything else stays global
	assert.True(t, config.PlatformFeePct.Equal(decimal.NewFromInt(2)))
}

func TestGetRates_UnapprovedMerchantKeepsGlobalRate(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	require.NoError(t, service.UpdateGlobalRates(DefaultRates()))

	override := decimal.NewFromInt(9)
	user := models.User{ID: uuid.New(), Email: "pending@example.com", PasswordHash: "x", ReferralCode: "PEND01"}
	require.NoError(t, db.Create(&user).Error)
	merchant := models.Merchant{
		ID:             uuid.New(),
		UserID:         user.ID,
		StoreName:      "Pending Store",
		StoreSlug:      "pending-store",
		CommissionRate: &override,
		Approved:       false,
	}
	require.NoError(t, db.Create(&merchant).Error)

	config, err := service.GetRates(merchant.ID)
	require.NoError(t, err)
	assert.True(t, config.MerchantCommissionPct.Equal(decimal.NewFromInt(1)))
}

func TestGetRates_UnknownMerchantFallsBackToGlobal(t *testing.T) {
	service := NewService(setupTestDB(t))
	require.NoError(t, service.UpdateGlobalRates(DefaultRates()))

	config, err := service.GetRates(uuid.New())
	require.NoError(t, err)
	assert.True(t, config.MerchantCommissionPct.Equal(decimal.NewFromInt(1)))
}
