package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/referral"
	"github.com/valecashback/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled is returned when a deactivated user tries to log in
	ErrAccountDisabled = errors.New("account is disabled")
)

// Service handles registration and login
type Service struct {
	db        *gorm.DB
	referrals *referral.Service
}

// NewService creates a new auth service
func NewService(db *gorm.DB, referrals *referral.Service) *Service {
	return &Service{db: db, referrals: referrals}
}

// RegisterInput carries a client registration
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	PhoneNumber  *string
	ReferralCode string
}

// MerchantRegisterInput carries a merchant registration
type MerchantRegisterInput struct {
	RegisterInput
	StoreName string
	Category  string
}

// Register creates a client account. When a referral code is supplied the
// referral row is created in the same transaction, so an account never
// exists with a half-applied referral.
func (s *Service) Register(input RegisterInput) (*models.User, error) {
	user, err := s.createUser(input, models.RoleClient, nil)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterMerchant creates a merchant account with an unapproved merchant
// profile. Sales are rejected until an admin approves the profile.
func (s *Service) RegisterMerchant(input MerchantRegisterInput) (*models.User, *models.Merchant, error) {
	var merchant *models.Merchant
	user, err := s.createUser(input.RegisterInput, models.RoleMerchant, func(tx *gorm.DB, user *models.User) error {
		merchant = &models.Merchant{
			ID:        uuid.New(),
			UserID:    user.ID,
			StoreName: input.StoreName,
			StoreSlug: slug.Make(input.StoreName),
			Category:  input.Category,
			Approved:  false,
		}
		if err := tx.Create(merchant).Error; err != nil {
			return fmt.Errorf("error creating merchant profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, merchant, nil
}

// Login verifies credentials and returns the user with a fresh token pair
func (s *Service) Login(email, password string) (*models.User, utils.TokenPair, error) {
	var user models.User
	err := s.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("error finding user: %w", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, utils.TokenPair{}, ErrAccountDisabled
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("error generating tokens: %w", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("error updating last login: %w", err)
	}

	return &user, tokens, nil
}

func (s *Service) createUser(input RegisterInput, role models.Role, extra func(tx *gorm.DB, user *models.User) error) (*models.User, error) {
	var existing models.User
	err := s.db.First(&existing, "email = ?", input.Email).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
		ReferralCode: utils.GenerateReferralCode(),
		IsActive:     true,
		PhoneNumber:  input.PhoneNumber,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		// Every account starts with an empty cashback balance row
		balance := models.CashbackBalance{
			ID:          uuid.New(),
			UserID:      user.ID,
			Balance:     decimal.Zero,
			TotalEarned: decimal.Zero,
		}
		if err := tx.Create(&balance).Error; err != nil {
			return fmt.Errorf("error creating cashback balance: %w", err)
		}

		if input.ReferralCode != "" {
			if _, err := s.referrals.CreateFromCode(tx, input.ReferralCode, user.ID); err != nil {
				return err
			}
		}

		if extra != nil {
			return extra(tx, &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
