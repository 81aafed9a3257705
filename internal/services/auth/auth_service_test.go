package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/referral"
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

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Merchant{},
		&models.Referral{},
		&models.CashbackBalance{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	return NewService(db, referral.NewService(db)), db
}

func TestRegister_CreatesUserWithBalance(t *testing.T) {
	service, db := newTestService(t)

	user, err := service.Register(RegisterInput{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleClient, user.Role)
	assert.NotEmpty(t, user.ReferralCode)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	var balance models.CashbackBalance
	require.NoError(t, db.First(&balance, "user_id = ?", user.ID).Error)
	assert.True(t, balance.Balance.IsZero())
}

func TestRegister_EmailTaken(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Register(RegisterInput{Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{Email: "dup@example.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WithReferralCode(t *testing.T) {
	service, db := newTestService(t)

	referrer, err := service.Register(RegisterInput{Email: "referrer@example.com", Password: "secret123"})
	require.NoError(t, err)

	referred, err := service.Register(RegisterInput{
		Email:        "referred@example.com",
		Password:     "secret123",
		ReferralCode: referrer.ReferralCode,
	})
	require.NoError(t, err)

	var ref models.Referral
	require.NoError(t, db.First(&ref, "referred_user_id = ?", referred.ID).Error)
	assert.Equal(t, referrer.ID, ref.ReferrerID)
	assert.Equal(t, models.ReferralPending, ref.Status)
}

func TestRegister_BadReferralCodeRollsBackAccount(t *testing.T) {
	service, db := newTestService(t)

	_, err := service.Register(RegisterInput{
		Email:        "hopeful@example.com",
		Password:     "secret123",
		ReferralCode: "NOSUCH",
	})
	assert.ErrorIs(t, err, referral.ErrReferralCodeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "hopeful@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterMerchant(t *testing.T) {
	service, _ := newTestService(t)

	user, merchant, err := service.RegisterMerchant(MerchantRegisterInput{
		RegisterInput: RegisterInput{
			Email:    "loja@example.com",
			Password: "secret123",
		},
		StoreName: "Padaria do João",
		Category:  "food",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleMerchant, user.Role)
	assert.Equal(t, "padaria-do-joao", merchant.StoreSlug)
	assert.False(t, merchant.Approved)
	assert.Nil(t, merchant.CommissionRate)
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(t)

	registered, err := service.Register(RegisterInput{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, tokens, err := service.Login("login@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Register(RegisterInput{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = service.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.Login("ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	service, db := newTestService(t)

	user, err := service.Register(RegisterInput{Email: "frozen@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = service.Login("frozen@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
