// Package journal persists the operator-action audit trail.
package journal

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"escape-ops-console/internal/model"
)

// Journaled action names.
const (
	ActionErrorResolved       = "error_resolved"
	ActionGroupGuided         = "group_guided"
	ActionGroupRegistered     = "group_registered"
	ActionCertificateIssued   = "certificate_issued"
	ActionCertificateReissued = "certificate_reissued"
	ActionSnackGiven          = "snack_given"
)

// Store defines the journal operations.
type Store interface {
	Record(ctx context.Context, action, subject, detail string) error
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)
	DB() *gorm.DB
}

// gormStore implements Store using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed journal store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Record appends one audited action.
func (s *gormStore) Record(ctx context.Context, action, subject, detail string) error {
	entry := model.JournalEntry{
		Action:     action,
		Subject:    subject,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *gormStore) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []model.JournalEntry
	if err := s.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	return entries, nil
}

// DB exposes the underlying connection for the subscription handlers and
// the notification worker.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
