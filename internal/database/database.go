package database

import (
	"fmt"
	"time"

	"github.com/eldrex/core/internal/config"
	"github.com/eldrex/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts  = 3
	connectBaseDelay = 500 * time.Millisecond
)

// Connect opens a MySQL connection, retrying with exponential backoff before
// giving up, and optionally runs auto-migration. Exhausting the retry budget
// is a fatal initialization error; there is no automatic re-entry afterwards.
func Connect(cfg *config.AppConfig, log *zap.Logger, autoMigrate bool) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	delay := connectBaseDelay
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = openDB(cfg, resolveLogLevel(cfg))
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("database connection failed after %d attempts: %w", connectAttempts, err)
		}
		if log != nil {
			log.Warn("database connect failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(err))
		}
		time.Sleep(delay)
		delay *= 2
	}

	if autoMigrate {
		if err := migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return db, nil
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

func openDB(cfg *config.AppConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// migrate runs GORM auto-migration for all models.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.OwnerModel{},
		&models.VisitorModel{},
		&models.CommentModel{},
		&models.ReplyModel{},
		&models.ReportModel{},
		&models.PostModel{},
		&models.LinkModel{},
		&models.QuoteModel{},
	)
}
