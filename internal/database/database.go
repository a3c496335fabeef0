// Package database opens the song store and keeps its schema current.
package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	sqlitePrefix    = "sqlite://"
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect opens the database named by dsn. A "sqlite://<path>" DSN opens a
// local SQLite file (":memory:" works too); anything else is handed to the
// Postgres driver.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialector.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	log.Printf("✅ Connected to %s database", dialector.Name())
	return db, nil
}

// Migrate creates or updates the song tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Song{}, &models.SongChordSection{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
