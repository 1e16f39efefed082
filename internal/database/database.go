package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the GORM driver for a DATABASE_URL. sqlite is used for
// sqlite://, sqlite: and file: URLs and bare *.db paths; everything else is postgres.
func Dialector(databaseURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:"))
	case strings.HasPrefix(databaseURL, "file:"), strings.HasSuffix(databaseURL, ".db"):
		return sqlite.Open(databaseURL)
	default:
		return postgres.Open(databaseURL)
	}
}

// Open connects to databaseURL without touching the package-level DB.
func Open(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// ConnectDB opens databaseURL and stores the handle in DB.
func ConnectDB(databaseURL string, production bool, log *zap.Logger) error {
	level := logger.Info
	if production {
		level = logger.Warn
	}

	db, err := Open(databaseURL, level)
	if err != nil {
		return err
	}
	DB = db

	log.Info("Database connected", zap.String("dialect", db.Dialector.Name()))
	return nil
}
