package jobs

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"sodtech/internal/models"
)

// DailyMiningReset zeroes today_earned at midnight. TotalMined is untouched;
// it only ever grows.
type DailyMiningReset struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewDailyMiningReset creates the reset job
func NewDailyMiningReset(db *gorm.DB) *DailyMiningReset {
	return &DailyMiningReset{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the midnight sweep
func (j *DailyMiningReset) Start() error {
	if _, err := j.cron.AddFunc("0 0 * * *", j.run); err != nil {
		return err
	}
	j.cron.Start()
	log.Println("[DailyReset] Mining daily reset scheduled for midnight")
	return nil
}

// Stop halts the scheduler
func (j *DailyMiningReset) Stop() {
	j.cron.Stop()
}

func (j *DailyMiningReset) run() {
	result := j.db.Model(&models.MiningStats{}).
		Where("today_earned <> 0").
		Update("today_earned", 0)
	if result.Error != nil {
		log.Printf("[DailyReset] Failed to reset today_earned: %v", result.Error)
		return
	}
	log.Printf("[DailyReset] Reset today_earned for %d users", result.RowsAffected)
}
