package sale

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/queue"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/rates"
	"github.com/valecashback/backend/internal/services/referral"
	"github.com/valecashback/backend/internal/services/settlement"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeQueue struct {
	jobs []queue.JobType
}

func (f *fakeQueue) Enqueue(jobType queue.JobType, payload interface{}) (string, error) {
	f.jobs = append(f.jobs, jobType)
	return uuid.NewString(), nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.Setting{},
		&models.Referral{},
		&models.Transaction{},
		&models.CashbackBalance{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *fakeQueue, *gorm.DB) {
	db := setupTestDB(t)
	rateService := rates.NewService(db)
	require.NoError(t, rateService.UpdateGlobalRates(rates.DefaultRates()))

	ledgerService := ledger.NewService(db, referral.NewService(db))
	q := &fakeQueue{}
	return NewService(db, rateService, ledgerService, q), q, db
}

func createBuyer(t *testing.T, db *gorm.DB) models.User {
	user := models.User{ID: uuid.New(), Email: "buyer@example.com", PasswordHash: "x", ReferralCode: "BUYER1"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createMerchant(t *testing.T, db *gorm.DB, approved bool, commission *decimal.Decimal) models.Merchant {
	owner := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", PasswordHash: "x", ReferralCode: uuid.NewString()[:8]}
	require.NoError(t, db.Create(&owner).Error)

	merchant := models.Merchant{
		ID:             uuid.New(),
		UserID:         owner.ID,
		StoreName:      "Test Store",
		StoreSlug:      "test-store-" + uuid.NewString()[:8],
		CommissionRate: commission,
		Approved:       approved,
	}
	require.NoError(t, db.Create(&merchant).Error)
	return merchant
}

func TestRegisterSale_SettlesAndNotifies(t *testing.T) {
	service, q, db := newTestService(t)
	buyer := createBuyer(t, db)
	merchant := createMerchant(t, db, true, nil)

	txn, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, "2.00", txn.CashbackAmount.StringFixed(2))
	assert.Equal(t, "97.00", txn.MerchantNet.StringFixed(2))
	assert.NotEmpty(t, txn.Reference)

	require.Len(t, q.jobs, 1)
	assert.Equal(t, queue.JobTypeCashbackNotification, q.jobs[0])
}

func TestRegisterSale_UnknownMerchant(t *testing.T) {
	service, _, db := newTestService(t)
	buyer := createBuyer(t, db)

	_, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: uuid.New(),
		Amount:     decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

func TestRegisterSale_UnapprovedMerchant(t *testing.T) {
	service, q, db := newTestService(t)
	buyer := createBuyer(t, db)
	merchant := createMerchant(t, db, false, nil)

	_, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, ErrMerchantNotApproved)
	assert.Empty(t, q.jobs)
}

func TestRegisterSale_InvalidAmount(t *testing.T) {
	service, _, db := newTestService(t)
	buyer := createBuyer(t, db)
	merchant := createMerchant(t, db, true, nil)

	_, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.Zero,
	})
	assert.ErrorIs(t, err, settlement.ErrInvalidAmount)
}

func TestRegisterSale_MerchantCommissionOverride(t *testing.T) {
	service, _, db := newTestService(t)
	buyer := createBuyer(t, db)
	commission := decimal.NewFromInt(3)
	merchant := createMerchant(t, db, true, &commission)

	txn, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// 100 - 2.00 fee - 3.00 overridden commission
	assert.Equal(t, "3.00", txn.MerchantCommission.StringFixed(2))
	assert.Equal(t, "95.00", txn.MerchantNet.StringFixed(2))
}

func TestRegisterSale_StableReferenceDeduplicates(t *testing.T) {
	service, _, db := newTestService(t)
	buyer := createBuyer(t, db)
	merchant := createMerchant(t, db, true, nil)

	input := RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
		Reference:  "POS_20260831_0001",
	}
	first, err := service.RegisterSale(input)
	require.NoError(t, err)
	second, err := service.RegisterSale(input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterSale_MissingRateConfiguration(t *testing.T) {
	db := setupTestDB(t)
	rateService := rates.NewService(db)
	ledgerService := ledger.NewService(db, referral.NewService(db))
	service := NewService(db, rateService, ledgerService, nil)

	buyer := createBuyer(t, db)
	merchant := createMerchant(t, db, true, nil)

	_, err := service.RegisterSale(RegisterSaleInput{
		UserID:     buyer.ID,
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, rates.ErrConfigurationMissing)
}
