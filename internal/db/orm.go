package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amonic/skydesk/internal/logging"
	gormModels "amonic/skydesk/internal/models/gorm"
)

// InitJournalORM opens the journal database for driver "postgres" or
// "sqlite" and migrates the journal table.
func InitJournalORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	logging.Info("Journal database ready", "driver", driver)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormModels.JournalEntry{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}
