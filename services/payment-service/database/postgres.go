package database

import (
	"context"
	"fmt"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/retry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectAttempts = 10

// Connect opens the Postgres pool, retrying while the database comes up, and
// migrates the given models.
func Connect(ctx context.Context, dsn string, logger *zap.Logger, models ...interface{}) (*gorm.DB, error) {
	var db *gorm.DB
	err := retry.Do(ctx, retry.Policy{
		Attempts: connectAttempts,
		Delay:    func(n int) time.Duration { return time.Duration(n) * 2 * time.Second },
		OnRetry: func(n int, err error, d time.Duration) {
			logger.Warn("DB connection failed, retrying", zap.Int("attempt", n), zap.Duration("backoff", d), zap.Error(err))
		},
	}, func(ctx context.Context, attempt int) error {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return err
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	logger.Info("Connected to PostgreSQL successfully")

	if len(models) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("AutoMigrate failed: %w", err)
		}
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
