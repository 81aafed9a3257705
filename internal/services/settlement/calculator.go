// Package settlement computes the four-way split applied to every sale:
// platform fee, merchant commission, client cashback and referral bonus.
package settlement

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/services/rates"
)

// ErrInvalidAmount is returned when the transaction amount is zero or negative
var ErrInvalidAmount = errors.New("transaction amount must be greater than zero")

var oneHundred = decimal.NewFromInt(100)

// Settlement is the computed split for one transaction. Cashback and referral
// bonus are credited out of the platform's margin; they are not subtracted
// from the merchant's net a second time.
type Settlement struct {
	PlatformFee        decimal.Decimal `json:"platform_fee"`
	MerchantCommission decimal.Decimal `json:"merchant_commission"`
	ClientCashback     decimal.Decimal `json:"client_cashback"`
	ReferralBonus      decimal.Decimal `json:"referral_bonus"`
	MerchantNet        decimal.Decimal `json:"merchant_net"`
}

// Compute splits amount according to the given rates. It is pure and
// deterministic: equal inputs always produce equal outputs, and no state is
// read or written. Each component is rounded half-up to 2 decimal places.
func Compute(amount decimal.Decimal, config rates.RateConfig) (Settlement, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Settlement{}, ErrInvalidAmount
	}

	platformFee := percentOf(amount, config.PlatformFeePct)
	merchantCommission := percentOf(amount, config.MerchantCommissionPct)

	return Settlement{
		PlatformFee:        platformFee,
		MerchantCommission: merchantCommission,
		ClientCashback:     percentOf(amount, config.ClientCashbackPct),
		ReferralBonus:      percentOf(amount, config.ReferralBonusPct),
		MerchantNet:        amount.Sub(platformFee).Sub(merchantCommission),
	}, nil
}

// percentOf returns amount * pct / 100 rounded half-up to currency minor units
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(oneHundred).Round(2)
}
