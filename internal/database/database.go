package database

import (
	"fmt"
	"log"

	"sodtech/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database. TranslateError
// is on so unique-constraint violations surface as gorm.ErrDuplicatedKey —
// the participation and referral engines depend on that to stay race-safe.
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs automatic migrations for all models on the given handle
func Migrate(db *gorm.DB) error {
	allModels := []interface{}{
		&models.User{},
		&models.Wallet{},
		&models.MiningStats{},
		&models.Transaction{},
		&models.Campaign{},
		&models.CampaignParticipation{},
		&models.Referral{},
	}

	for _, model := range allModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
