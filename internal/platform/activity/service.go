// Package activity is the console's journal of analyst actions.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fraudguard/console/pkg/logger"
)

// DefaultListLimit bounds the journal page.
const DefaultListLimit = 100

var ErrMissingEventType = errors.New("event type is required")

// Service records and lists analyst actions
type Service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new activity service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.Component("activity"),
		now:    time.Now,
	}
}

// Record stores entry, filling its ID and time.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if entry.EventType == "" {
		return ErrMissingEventType
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	s.logger.WithContext(ctx).Info("activity recorded",
		"event_type", entry.EventType,
		"analyst", entry.Analyst,
		"transaction_id", entry.TransactionID.ValueOrZero(),
		"case_id", entry.CaseID.ValueOrZero(),
	)
	return nil
}

// RecordQuietly is Record for callers whose own action already succeeded:
// a journal failure is logged and swallowed.
func (s *Service) RecordQuietly(ctx context.Context, entry Entry) {
	if err := s.Record(ctx, entry); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("activity not recorded", "event_type", entry.EventType)
	}
}

// List returns the newest entries first.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}
