package services

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sodtech/internal/models"
)

// MiningService converts mining actions into SOD credits and manages the
// boost window. The award, the stats update and the ledger write share one
// transaction boundary: a mine either fully happens or not at all.
type MiningService struct {
	db     *gorm.DB
	ledger *LedgerService

	now func() time.Time
}

// NewMiningService creates a new MiningService
func NewMiningService(db *gorm.DB, ledger *LedgerService) *MiningService {
	return &MiningService{
		db:     db,
		ledger: ledger,
		now:    time.Now,
	}
}

// Mine performs one mining action for the user and returns the earned amount.
// The multiplier comes from the stored boost end time, never from the client.
func (s *MiningService) Mine(userID uint) (decimal.Decimal, error) {
	var earned decimal.Decimal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stats models.MiningStats
		if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		now := s.now()
		boost := stats.BoostStateAt(now)
		earned = decimal.NewFromInt(stats.MiningPower * boost.Multiplier)

		if _, err := s.ledger.ApplyDeltaTx(
			tx, userID, models.CurrencySOD, earned,
			models.TxTypeMining, "manual mining",
		); err != nil {
			return err
		}

		result := tx.Model(&models.MiningStats{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"today_earned":   gorm.Expr("today_earned + ?", earned),
				"total_mined":    gorm.Expr("total_mined + ?", earned),
				"last_mine_time": now,
				"updated_at":     now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update mining stats: %w", result.Error)
		}

		return nil
	})

	if err != nil {
		return decimal.Zero, err
	}
	return earned, nil
}

// ActivateBoost buys a 30-second 3x boost for 5000 SOD. One boost at a time:
// a request while an unexpired boost is running is rejected, and the debit
// plus the new end time commit together.
func (s *MiningService) ActivateBoost(userID uint) (*models.BoostState, error) {
	var state models.BoostState

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stats models.MiningStats
		if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		now := s.now()
		endTime := now.Add(models.BoostDuration)

		// The one-boost rule lives in the UPDATE itself: only a row without a
		// live window can take the new end time, so two racing activations
		// cannot both claim one. The window is claimed before the debit; a
		// failed debit rolls the claim back with the transaction.
		result := tx.Model(&models.MiningStats{}).
			Where("user_id = ?", userID).
			Where("boost_end_time IS NULL OR boost_end_time <= ?", now).
			Updates(map[string]interface{}{
				"boost_end_time": endTime,
				"updated_at":     now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to set boost end time: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBoostAlreadyActive
		}

		if _, err := s.ledger.ApplyDeltaTx(
			tx, userID, models.CurrencySOD, models.BoostCost.Neg(),
			models.TxTypeBoostPurchase, "mining boost activation",
		); err != nil {
			return err
		}

		state = models.BoostState{
			Active:     true,
			Multiplier: models.BoostMultiplier,
			EndTime:    &endTime,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Printf("[Mining] Boost activated for user %d until %s", userID, state.EndTime.Format(time.RFC3339))
	return &state, nil
}

// GetBoostState reports the boost state as of now. Expiry is lazy: once the
// end time has passed any read reports inactive without anything firing.
func (s *MiningService) GetBoostState(userID uint) (*models.BoostState, error) {
	stats, err := s.GetStats(userID)
	if err != nil {
		return nil, err
	}

	state := stats.BoostStateAt(s.now())
	return &state, nil
}

// GetStats returns a user's mining stats
func (s *MiningService) GetStats(userID uint) (*models.MiningStats, error) {
	var stats models.MiningStats
	if err := s.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &stats, nil
}
