package jobs

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sodtech/internal/database"
	"sodtech/internal/models"
)

func TestDailyResetZeroesTodayOnly(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	stats := models.MiningStats{
		UserID:      1,
		MiningPower: models.DefaultMiningPower,
		TodayEarned: decimal.NewFromInt(75),
		TotalMined:  decimal.NewFromInt(980),
	}
	if err := db.Create(&stats).Error; err != nil {
		t.Fatalf("failed to create stats: %v", err)
	}

	job := NewDailyMiningReset(db)
	job.run()

	var after models.MiningStats
	if err := db.Where("user_id = ?", 1).First(&after).Error; err != nil {
		t.Fatalf("failed to reload stats: %v", err)
	}
	if !after.TodayEarned.IsZero() {
		t.Errorf("expected today_earned 0, got %s", after.TodayEarned)
	}
	if !after.TotalMined.Equal(decimal.NewFromInt(980)) {
		t.Errorf("expected total_mined untouched, got %s", after.TotalMined)
	}
}
