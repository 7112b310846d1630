package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// New opens the override database. sqlite:// URLs are used for development
// and tests; anything else is treated as a PostgreSQL DSN. driver selects the
// database/sql driver behind gorm's postgres dialector ("pgx" or "pq").
func New(databaseURL, driver string, logLevel string) (*Database, error) {
	var db *gorm.DB
	var err error

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(logLevel)),
	}

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		if dir := filepath.Dir(dbPath); dir != "." && !strings.HasPrefix(dbPath, "file:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(dbPath), gormConfig)
	} else if driver == "pq" {
		// PostgreSQL through lib/pq
		db, err = gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        databaseURL,
		}), gormConfig)
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Plain SQL that both sqlite and postgres accept
	createTablesSQL := []string{
		`CREATE TABLE IF NOT EXISTS product_overrides (
			id TEXT PRIMARY KEY,
			manufacturer TEXT NOT NULL,
			category TEXT NOT NULL,
			product_name TEXT NOT NULL,
			custom_name TEXT,
			price_factor DECIMAL(10,4) NOT NULL DEFAULT 1,
			discount DECIMAL(5,2),
			created_at TIMESTAMP,
			updated_at TIMESTAMP,
			UNIQUE (manufacturer, category, product_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_overrides_manufacturer ON product_overrides (manufacturer)`,
	}

	for _, stmt := range createTablesSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &Database{DB: db}, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
