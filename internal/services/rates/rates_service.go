package rates

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"gorm.io/gorm"
)

// SettingsKey is the settings table key holding the global rate configuration
const SettingsKey = "cashback_rates"

var (
	// ErrConfigurationMissing is returned when no global rate configuration exists
	ErrConfigurationMissing = errors.New("cashback rates are not configured")
	// ErrInvalidRates is returned when a rate configuration violates the rate invariants
	ErrInvalidRates = errors.New("invalid rate configuration")
)

// RateConfig holds the four percentages applied to every settlement.
// All values are percentages of the gross transaction amount. The referral
// bonus is funded from the platform's share and is not part of the 100% cap.
type RateConfig struct {
	PlatformFeePct        decimal.Decimal `json:"platform_fee_pct"`
	MerchantCommissionPct decimal.Decimal `json:"merchant_commission_pct"`
	ClientCashbackPct     decimal.Decimal `json:"client_cashback_pct"`
	ReferralBonusPct      decimal.Decimal `json:"referral_bonus_pct"`
}

// DefaultRates returns the documented launch configuration: 2% platform fee,
// 1% merchant commission, 2% client cashback, 1% referral bonus.
func DefaultRates() RateConfig {
	return RateConfig{
		PlatformFeePct:        decimal.NewFromInt(2),
		MerchantCommissionPct: decimal.NewFromInt(1),
		ClientCashbackPct:     decimal.NewFromInt(2),
		ReferralBonusPct:      decimal.NewFromInt(1),
	}
}

// Validate checks the rate invariants: every percentage is non-negative and
// platform fee + merchant commission + client cashback does not exceed 100.
func (r RateConfig) Validate() error {
	for _, pct := range []decimal.Decimal{r.PlatformFeePct, r.MerchantCommissionPct, r.ClientCashbackPct, r.ReferralBonusPct} {
		if pct.IsNegative() {
			return fmt.Errorf("%w: percentages must not be negative", ErrInvalidRates)
		}
	}
	sum := r.PlatformFeePct.Add(r.MerchantCommissionPct).Add(r.ClientCashbackPct)
	if sum.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: platform fee, commission and cashback sum to %s%%", ErrInvalidRates, sum)
	}
	return nil
}

// Service resolves and manages rate configuration
type Service struct {
	db *gorm.DB
}

// NewService creates a new rates service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetGlobalRates loads the global rate configuration from the settings store
func (s *Service) GetGlobalRates() (RateConfig, error) {
	var setting models.Setting
	err := s.db.First(&setting, "key = ?", SettingsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RateConfig{}, ErrConfigurationMissing
	}
	if err != nil {
		return RateConfig{}, fmt.Errorf("error loading rate configuration: %w", err)
	}

	var config RateConfig
	if err := json.Unmarshal([]byte(setting.Value), &config); err != nil {
		return RateConfig{}, fmt.Errorf("error decoding rate configuration: %w", err)
	}
	return config, nil
}

// GetRates resolves the rate configuration for a settlement with the given
// merchant. An approved merchant with a stored commission rate overrides the
// global merchant commission; everything else always comes from the global
// configuration.
func (s *Service) GetRates(merchantID uuid.UUID) (RateConfig, error) {
	config, err := s.GetGlobalRates()
	if err != nil {
		return RateConfig{}, err
	}

	var merchant models.Merchant
	err = s.db.First(&merchant, "id = ?", merchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return config, nil
	}
	if err != nil {
		return RateConfig{}, fmt.Errorf("error loading merchant: %w", err)
	}

	if merchant.Approved && merchant.CommissionRate != nil {
		config.MerchantCommissionPct = *merchant.CommissionRate
	}
	return config, nil
}

// UpdateGlobalRates validates and persists a new global rate configuration
func (s *Service) UpdateGlobalRates(config RateConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("error encoding rate configuration: %w", err)
	}

	setting := models.Setting{Key: SettingsKey, Value: string(value)}
	if err := s.db.Save(&setting).Error; err != nil {
		return fmt.Errorf("error saving rate configuration: %w", err)
	}
	return nil
}
