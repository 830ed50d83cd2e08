package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

var DB *gorm.DB

// ConnectDatabase opens the database named by databaseURL.
// A "sqlite:<path>" URL selects the SQLite driver, anything else is handed to Postgres.
func ConnectDatabase(databaseURL string, log *zap.Logger) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, sqlitePrefix) {
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, sqlitePrefix))
	} else {
		dialector = postgres.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// gorm.Open is lazy for some drivers; make sure the server is reachable
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if db.Dialector.Name() == "sqlite" {
		// SQLite serialises writers; one connection also keeps :memory: a single database
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	if log != nil {
		log.Info("database connection established", zap.String("dialect", db.Dialector.Name()))
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
