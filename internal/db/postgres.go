package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// InitPostgres opens a sqlx handle through lib/pq, retrying while the
// database starts up.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return db, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}

// InitJournalSQL returns the sqlx handle for journal reads. Postgres gets its
// own lib/pq pool; sqlite shares the GORM connection.
func InitJournalSQL(driver, dsn string, orm *gorm.DB) (*sqlx.DB, error) {
	if driver == "postgres" {
		return InitPostgres(dsn)
	}
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}
