package service

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pageza/smartfridge/internal/model"
)

// DefaultCallsLimit and MaxCallsLimit bound RecentCalls
const (
	DefaultCallsLimit = 20
	MaxCallsLimit     = 200
)

// AuditLog persists a record of every LLM call. A nil *AuditLog, or one
// without a database, records nothing.
type AuditLog struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewAuditLog creates an audit log backed by db
func NewAuditLog(db *gorm.DB, logger *slog.Logger) *AuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLog{db: db, logger: logger}
}

func (a *AuditLog) enabled() bool {
	return a != nil && a.db != nil
}

// Record stores call. Failures are logged and otherwise ignored.
func (a *AuditLog) Record(ctx context.Context, call *model.LLMCall) {
	if !a.enabled() {
		return
	}
	if err := a.db.WithContext(ctx).Create(call).Error; err != nil {
		a.logger.Warn("failed to record LLM call", "operation", call.Operation, "error", err)
	}
}

// Recent returns up to limit calls, newest first
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]model.LLMCall, error) {
	if !a.enabled() {
		return []model.LLMCall{}, nil
	}
	if limit <= 0 {
		limit = DefaultCallsLimit
	}
	if limit > MaxCallsLimit {
		limit = MaxCallsLimit
	}

	var calls []model.LLMCall
	if err := a.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}
