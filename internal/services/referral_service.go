package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"sodtech/internal/models"
)

// ReferralService pays the registration bonuses triggered by a referral code.
// The unique index on referred_id makes the fan-out exactly-once: a replayed
// registration cannot create a second referral or double-pay.
type ReferralService struct {
	db     *gorm.DB
	ledger *LedgerService
}

// NewReferralService creates a new ReferralService
func NewReferralService(db *gorm.DB, ledger *LedgerService) *ReferralService {
	return &ReferralService{db: db, ledger: ledger}
}

// RegisterWithReferral resolves the code, records the referral and pays both
// sides, all in one transaction. An unresolvable or self-referential code
// returns ErrInvalidReferral with no state change; registration itself is
// unaffected either way.
func (s *ReferralService) RegisterWithReferral(newUserID uint, code string) error {
	if code == "" {
		return ErrInvalidReferral
	}

	var referrer models.User
	if err := s.db.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInvalidReferral
		}
		return err
	}

	if referrer.ID == newUserID {
		return ErrInvalidReferral
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		referral := models.Referral{
			ReferrerID: referrer.ID,
			ReferredID: newUserID,
			Status:     models.ReferralStatusRegistered,
		}

		if err := tx.Create(&referral).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// This user has already been referred once; never pay again.
				return ErrInvalidReferral
			}
			return fmt.Errorf("failed to create referral: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", newUserID).
			Update("referred_by", referrer.ID).Error; err != nil {
			return err
		}

		if _, err := s.ledger.ApplyDeltaTx(
			tx, newUserID, models.CurrencySOD, models.ReferralSignupBonus,
			models.TxTypeReferralBonus, "signup bonus for joining with a referral code",
		); err != nil {
			return err
		}

		if _, err := s.ledger.ApplyDeltaTx(
			tx, referrer.ID, models.CurrencyToman, models.ReferralReward,
			models.TxTypeReferralReward, fmt.Sprintf("reward for inviting user %d", newUserID),
		); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return err
	}

	log.Printf("[Referral] User %d registered with code %s of user %d", newUserID, code, referrer.ID)
	return nil
}

// GetReferrals returns everyone the user has referred, newest first
func (s *ReferralService) GetReferrals(userID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", userID).
		Preload("Referred").
		Order("created_at DESC").
		Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
