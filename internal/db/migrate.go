package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/config"
	"github.com/zkdev/invoicer/internal/models"
)

// Connect opens the configured database. Postgres connections are retried a
// few times so the app can start before the database finishes booting.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite database %s: %w", cfg.Path, err)
		}
		return db, nil
	case "postgres", "":
		var db *gorm.DB
		var err error
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
			if err == nil {
				return db, nil
			}
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connect to postgres: %w", err)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Migrate applies the GORM auto-migrations for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
