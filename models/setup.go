package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"startuphub/config"
)

var DB *gorm.DB

// idleConns remembers the configured idle pool size so ResetConnection can restore it.
var idleConns = 5

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Connect opens the configured database, sizes the pool and stores the handle in DB.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	d, err := dialector(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	db, err := Open(d)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		idleConns = cfg.DBMaxIdleConns
	}
	sqlDB.SetMaxIdleConns(idleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info().
		Str("driver", cfg.DBDriver).
		Int("max_open", cfg.DBMaxOpenConns).
		Int("max_idle", idleConns).
		Msg("connected to database")

	DB = db
	return db, nil
}

// Open opens a gorm handle on the given dialector without touching the package DB.
func Open(d gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// All lists every model managed by AutoMigrate, parents before children.
func All() []any {
	return []any{
		&User{},
		&StartupCall{},
		&Application{},
		&Review{},
		&Startup{},
		&Milestone{},
		&Task{},
		&Budget{},
		&BudgetCategory{},
		&Expense{},
		&SponsorshipOpportunity{},
		&SponsorshipApplication{},
		&Event{},
		&Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// ResetConnection drops every idle pooled connection so the next query dials a fresh one.
func ResetConnection(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(idleConns)
	return nil
}
