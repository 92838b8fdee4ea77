package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDB connects to postgres and migrates the events table.
func OpenDB(cfg DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.New(
			&logger,
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&Event{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info().Msg("database connected and migrated")
	return db, nil
}

// NewStore picks the event store for the configured driver.
func NewStore(cfg DatabaseConfig, logger zerolog.Logger) (EventStore, func(), error) {
	if cfg.Driver == storeDriverMemory {
		logger.Warn().Msg("using in-memory event store; data is lost on restart")
		return NewMemoryStore(), func() {}, nil
	}

	db, err := OpenDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return NewGormStore(db), closeFn, nil
}
