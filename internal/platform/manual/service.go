// Package manual submits analyst-assembled transactions for evaluation.
package manual

import (
	"context"
	"time"

	"github.com/guregu/null/v5"

	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/pkg/format"
	"github.com/fraudguard/console/pkg/logger"
)

// Creator is the slice of the backend client the entry form needs.
type Creator interface {
	CreateTransaction(ctx context.Context, draft fraud.Draft) (*fraud.TransactionDetail, error)
}

// EntryStore keeps the analyst's form between requests.
type EntryStore interface {
	Entry(ctx context.Context, analyst string) (fraud.Draft, bool, error)
	SaveEntry(ctx context.Context, analyst string, entry fraud.Draft) error
	ClearEntry(ctx context.Context, analyst string) error
}

// Journal records analyst actions.
type Journal interface {
	RecordQuietly(ctx context.Context, entry activity.Entry)
}

// Service handles manual transaction entry
type Service struct {
	creator Creator
	entries EntryStore
	journal Journal
	logger  *logger.Logger
	now     func() time.Time
}

// NewService creates a new manual entry service
func NewService(creator Creator, entries EntryStore, journal Journal, log *logger.Logger) *Service {
	return &Service{
		creator: creator,
		entries: entries,
		journal: journal,
		logger:  log.Component("manual_entry"),
		now:     time.Now,
	}
}

// Form returns the analyst's saved draft, or the defaults.
func (s *Service) Form(ctx context.Context, analyst string) fraud.Draft {
	entry, ok, err := s.entries.Entry(ctx, analyst)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to load entry draft")
	}
	if !ok {
		return fraud.NewDraft(s.now())
	}
	return entry
}

// Submit validates and posts the draft, returning the evaluated record. The
// draft is saved before the call so a failure never loses the analyst's input;
// it is cleared once the backend accepts it.
func (s *Service) Submit(ctx context.Context, analyst string, d fraud.Draft) (*fraud.TransactionDetail, error) {
	log := s.logger.WithContext(ctx)

	if err := s.entries.SaveEntry(ctx, analyst, d); err != nil {
		log.WithError(err).Warn("failed to save entry draft")
	}

	if err := Validate(d); err != nil {
		return nil, err
	}

	start := time.Now()
	detail, err := s.creator.CreateTransaction(ctx, d)
	if err != nil {
		log.WithError(err).Warn("transaction submission failed")
		return nil, err
	}

	if err := s.entries.ClearEntry(ctx, analyst); err != nil {
		log.WithError(err).Warn("failed to clear entry draft")
	}
	s.journal.RecordQuietly(ctx, activity.Entry{
		Analyst:       analyst,
		EventType:     activity.EventTransactionSubmitted,
		TransactionID: null.StringFrom(detail.ID),
		Description:   string(detail.Decision),
		Metadata: map[string]string{
			"amount":   format.Amount(d.Amount, d.Currency),
			"customer": d.CustomerID,
		},
	})
	log.WithDuration(time.Since(start)).Info("transaction submitted", "transaction_id", detail.ID, "decision", detail.Decision)
	return detail, nil
}
