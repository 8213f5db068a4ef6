package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/viennagloria/boss-task-tracker/internal/config"
	"github.com/viennagloria/boss-task-tracker/internal/logger"
	"github.com/viennagloria/boss-task-tracker/internal/models"
)

// Initialize opens the SQLite store at the configured path, creating the
// parent directory and the schema if absent, and returns the connection.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	logger.Infof("Opening database at %s", cfg.Database.Path)

	db, err := Open(cfg.Database.Path, cfg.Logger.Level)
	if err != nil {
		return nil, err
	}

	logger.Infof("Database initialized at %s", cfg.Database.Path)
	return db, nil
}

// Open opens a SQLite database file and runs migrations. Split out from
// Initialize so tests can point repositories at throwaway store files.
func Open(path, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PinnedMessage{}); err != nil {
		return err
	}

	// Databases created before the status column existed need it added
	// with the pending default. The ALTER fails with "duplicate column"
	// on every later start; that failure is expected and ignored.
	err := db.Exec(`ALTER TABLE pinned_messages ADD COLUMN status TEXT NOT NULL DEFAULT 'pending'`).Error
	if err != nil {
		if strings.Contains(err.Error(), "duplicate column") {
			logger.Debugf("Migration skipped (status column already exists)")
		} else {
			return err
		}
	}

	return nil
}
