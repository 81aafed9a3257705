package referral

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrReferralCodeNotFound is returned when a referral code matches no user
	ErrReferralCodeNotFound = errors.New("referral code not found")
	// ErrSelfReferral is returned when a user tries to refer themselves
	ErrSelfReferral = errors.New("users cannot refer themselves")
)

// Service resolves referrers and manages referral records
type Service struct {
	db *gorm.DB
}

// NewService creates a new referral service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveReferrer returns the id of the user who referred userID, or nil when
// no referral exists. Eligibility is keyed solely on the row existing; there
// is no cap on how many purchases accrue bonus and status does not gate it.
func (s *Service) ResolveReferrer(userID uuid.UUID) (*uuid.UUID, error) {
	ref, err := s.FindByReferredTx(s.db, userID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, nil
	}
	return &ref.ReferrerID, nil
}

// FindByReferredTx loads the referral row for a referred user within the
// given transaction handle. Returns nil without error when no row exists.
func (s *Service) FindByReferredTx(tx *gorm.DB, referredUserID uuid.UUID) (*models.Referral, error) {
	var ref models.Referral
	err := tx.First(&ref, "referred_user_id = ?", referredUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding referral: %w", err)
	}
	return &ref, nil
}

// CreateFromCode creates a referral row linking the owner of code to the
// newly registered user. Runs on the caller's transaction so registration
// and referral creation commit together.
func (s *Service) CreateFromCode(tx *gorm.DB, code string, referredUserID uuid.UUID) (*models.Referral, error) {
	var referrer models.User
	err := tx.First(&referrer, "referral_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReferralCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding referrer: %w", err)
	}
	if referrer.ID == referredUserID {
		return nil, ErrSelfReferral
	}

	ref := models.Referral{
		ID:             uuid.New(),
		ReferrerID:     referrer.ID,
		ReferredUserID: referredUserID,
		Bonus:          decimal.Zero,
		Status:         models.ReferralPending,
	}
	if err := tx.Create(&ref).Error; err != nil {
		return nil, fmt.Errorf("error creating referral: %w", err)
	}
	return &ref, nil
}

// AccrueBonusTx adds bonus to a referral row and marks it completed.
// Must be called inside the same transaction that credits the referrer.
func (s *Service) AccrueBonusTx(tx *gorm.DB, ref *models.Referral, bonus decimal.Decimal) error {
	now := time.Now()
	ref.Bonus = ref.Bonus.Add(bonus)
	ref.Status = models.ReferralCompleted
	ref.LastBonusAt = &now
	ref.UpdatedAt = now

	if err := tx.Save(ref).Error; err != nil {
		return fmt.Errorf("error updating referral bonus: %w", err)
	}
	return nil
}

// GetReferrals lists all referrals made by a user
func (s *Service) GetReferrals(referrerID uuid.UUID) ([]models.Referral, error) {
	var refs []models.Referral
	if err := s.db.Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("error finding referrals: %w", err)
	}
	return refs, nil
}

// ReferralStats summarizes a user's referral activity
type ReferralStats struct {
	Count      int64           `json:"count"`
	TotalBonus decimal.Decimal `json:"total_bonus"`
}

// GetStats returns how many users a referrer brought in and their total bonus
func (s *Service) GetStats(referrerID uuid.UUID) (*ReferralStats, error) {
	refs, err := s.GetReferrals(referrerID)
	if err != nil {
		return nil, err
	}

	stats := ReferralStats{Count: int64(len(refs)), TotalBonus: decimal.Zero}
	for _, ref := range refs {
		stats.TotalBonus = stats.TotalBonus.Add(ref.Bonus)
	}
	return &stats, nil
}
