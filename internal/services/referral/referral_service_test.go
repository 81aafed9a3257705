package referral

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

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Referral{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, code string) models.User {
	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		ReferralCode: code,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestResolveReferrer_NoReferral(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := createUser(t, db, "solo@example.com", "SOLO01")

	referrerID, err := service.ResolveReferrer(user.ID)
	require.NoError(t, err)
	assert.Nil(t, referrerID)
}

func TestCreateFromCodeAndResolve(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	referrer := createUser(t, db, "anna@example.com", "ANNA01")
	referred := createUser(t, db, "bruno@example.com", "BRUNO1")

	ref, err := service.CreateFromCode(db, "ANNA01", referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, ref.ReferrerID)
	assert.Equal(t, models.ReferralPending, ref.Status)
	assert.True(t, ref.Bonus.IsZero())

	resolved, err := service.ResolveReferrer(referred.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, referrer.ID, *resolved)
}

func TestCreateFromCode_UnknownCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	referred := createUser(t, db, "carla@example.com", "CARLA1")

	_, err := service.CreateFromCode(db, "NOSUCH", referred.ID)
	assert.ErrorIs(t, err, ErrReferralCodeNotFound)
}

func TestCreateFromCode_SelfReferral(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	user := createUser(t, db, "dora@example.com", "DORA01")

	_, err := service.CreateFromCode(db, "DORA01", user.ID)
	assert.ErrorIs(t, err, ErrSelfReferral)
}

func TestAccrueBonus_AccumulatesAcrossPurchases(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	createUser(t, db, "eva@example.com", "EVA001")
	referred := createUser(t, db, "felix@example.com", "FELIX1")

	ref, err := service.CreateFromCode(db, "EVA001", referred.ID)
	require.NoError(t, err)

	require.NoError(t, service.AccrueBonusTx(db, ref, decimal.RequireFromString("1.00")))
	require.NoError(t, service.AccrueBonusTx(db, ref, decimal.RequireFromString("0.50")))

	var stored models.Referral
	require.NoError(t, db.First(&stored, "id = ?", ref.ID).Error)
	assert.Equal(t, "1.50", stored.Bonus.StringFixed(2))
	assert.Equal(t, models.ReferralCompleted, stored.Status)
	assert.NotNil(t, stored.LastBonusAt)
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	referrer := createUser(t, db, "gina@example.com", "GINA01")
	first := createUser(t, db, "hugo@example.com", "HUGO01")
	second := createUser(t, db, "ines@example.com", "INES01")

	refOne, err := service.CreateFromCode(db, "GINA01", first.ID)
	require.NoError(t, err)
	_, err = service.CreateFromCode(db, "GINA01", second.ID)
	require.NoError(t, err)

	require.NoError(t, service.AccrueBonusTx(db, refOne, decimal.RequireFromString("2.25")))

	stats, err := service.GetStats(referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, "2.25", stats.TotalBonus.StringFixed(2))
}
