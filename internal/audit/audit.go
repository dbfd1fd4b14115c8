// Package audit records route writes made through the route builder.
package audit

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"farelink_admin/internal/models"
)

type Logger interface {
	Record(ctx context.Context, entry models.AuditEntry) error
	Recent(ctx context.Context, companyID string, limit int) ([]models.AuditEntry, error)
}

// GormLogger appends entries to the audit_entries table.
type GormLogger struct {
	db *gorm.DB
}

func NewGormLogger(db *gorm.DB) *GormLogger {
	return &GormLogger{db: db}
}

func (l *GormLogger) Record(ctx context.Context, entry models.AuditEntry) error {
	return l.db.WithContext(ctx).Create(&entry).Error
}

// Recent returns the latest entries for a company, newest first.
func (l *GormLogger) Recent(ctx context.Context, companyID string, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := l.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Nop discards entries; used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, models.AuditEntry) error { return nil }

func (Nop) Recent(context.Context, string, int) ([]models.AuditEntry, error) {
	return []models.AuditEntry{}, nil
}

// Record writes entry and only logs a failure: auditing never fails a route write.
func Record(ctx context.Context, l Logger, entry models.AuditEntry) {
	if err := l.Record(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":   entry.Action,
			"route_id": entry.RouteID,
		}).Error("audit: failed to record entry")
	}
}
