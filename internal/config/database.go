package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"farelink_admin/internal/logger"
	"farelink_admin/internal/models"
)

// DSN builds the Postgres data source name for the audit database.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimezone,
	)
}

// InitDB opens the audit database and migrates it. It returns nil, nil when no
// database is configured.
func InitDB(cfg Config) (*gorm.DB, error) {
	if cfg.DBHost == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.New(logger.GormLogger(), gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.AuditEntry{}); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}
	return db, nil
}
