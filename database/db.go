package database

import (
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shortlink/logging"
	"shortlink/models"
)

const (
	maxRetries = 5
	retryDelay = 3 * time.Second
)

// Connect opens the database named by dsn, waits out transient connection
// failures, and migrates the schema. A "postgres://" (or key=value) DSN
// selects Postgres; anything else is treated as a SQLite file path.
func Connect(dsn string, logger *slog.Logger) (*gorm.DB, error) {
	log := logger.With(logging.PackageKey, "db")
	dialector, isSQLite := openDialector(dsn)

	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError: true,
		})
		if err == nil {
			break
		}
		log.Warn("database connect failed, retrying", "attempt", i+1, "error", err)
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, err
	}

	if isSQLite {
		// SQLite tolerates a single writer; a pool of one also makes the
		// in-memory DSN behave, since each pooled conn would otherwise get
		// its own empty database.
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(&models.ShortLink{}, &models.ClickEvent{}); err != nil {
		return nil, err
	}
	log.Info("database ready", "dsn", dsn)
	return db, nil
}

func openDialector(dsn string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") {
		return postgres.Open(dsn), false
	}
	return sqlite.Open(dsn), true
}
