// Package hitl drives the human-in-the-loop review queue.
package hitl

import (
	"context"
	"fmt"

	"github.com/guregu/null/v5"

	"github.com/fraudguard/console/internal/infra/metrics"
	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/pkg/logger"
)

// Backend is the slice of the backend client the queue needs.
type Backend interface {
	ListCases(ctx context.Context) ([]fraud.Case, error)
	ResolveCase(ctx context.Context, id string, resolution fraud.Resolution) error
}

// NotesStore keeps notes drafts per analyst and case.
type NotesStore interface {
	Notes(ctx context.Context, analyst, caseID string) (string, error)
	SaveNotes(ctx context.Context, analyst, caseID, notes string) error
	ClearNotes(ctx context.Context, analyst, caseID string) error
}

// Journal records analyst actions.
type Journal interface {
	RecordQuietly(ctx context.Context, entry activity.Entry)
}

// Queue is what the review page renders.
type Queue struct {
	State    view.State
	Err      error
	Cases    []fraud.Case
	Selected *fraud.Case
	Notes    string
}

// Service handles the review queue
type Service struct {
	backend Backend
	notes   NotesStore
	journal Journal
	logger  *logger.Logger
}

// NewService creates a new queue service
func NewService(backend Backend, notes NotesStore, journal Journal, log *logger.Logger) *Service {
	return &Service{
		backend: backend,
		notes:   notes,
		journal: journal,
		logger:  log.Component("hitl"),
	}
}

// List returns the cases still awaiting review.
func (s *Service) List(ctx context.Context) ([]fraud.Case, error) {
	cases, err := s.backend.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]fraud.Case, 0, len(cases))
	for _, c := range cases {
		if c.Status.IsPending() {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

// Load fetches the queue and, when caseID names a listed case, selects it
// together with the analyst's saved notes. An unknown caseID selects nothing.
func (s *Service) Load(ctx context.Context, analyst, caseID string) Queue {
	cases, err := s.List(ctx)
	q := Queue{State: view.ForList(len(cases), err), Err: err, Cases: cases}
	if err != nil || caseID == "" {
		return q
	}

	for i := range cases {
		if cases[i].ID == caseID {
			q.Selected = &cases[i]
			break
		}
	}
	if q.Selected == nil {
		return q
	}

	notes, err := s.notes.Notes(ctx, analyst, caseID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to load notes draft", "case_id", caseID)
	}
	q.Notes = notes
	return q
}

// Retain reloads the queue after a failed submission. The case stays selected
// with the submitted notes even when the list cannot be fetched or no longer
// contains it.
func (s *Service) Retain(ctx context.Context, analyst, caseID, notes string) Queue {
	q := s.Load(ctx, analyst, caseID)
	if q.Selected == nil && caseID != "" {
		q.Selected = &fraud.Case{ID: caseID}
	}
	q.Notes = notes
	return q
}

// SaveNotes stores the analyst's notes for a case.
func (s *Service) SaveNotes(ctx context.Context, analyst, caseID, notes string) error {
	if caseID == "" {
		return fraud.ErrMissingCaseID
	}
	if err := s.notes.SaveNotes(ctx, analyst, caseID, notes); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}

// Resolve submits the analyst's resolution. On success the notes draft is
// cleared and the action journaled. On failure the notes are kept as a draft.
func (s *Service) Resolve(ctx context.Context, analyst, caseID string, resolution fraud.Resolution) error {
	if caseID == "" {
		return fraud.ErrMissingCaseID
	}
	if !resolution.Decision.IsResolution() {
		return fraud.ErrInvalidResolution
	}
	log := s.logger.WithContext(ctx).WithField("case_id", caseID)

	if err := s.backend.ResolveCase(ctx, caseID, resolution); err != nil {
		if saveErr := s.notes.SaveNotes(ctx, analyst, caseID, resolution.Notes); saveErr != nil {
			log.WithError(saveErr).Warn("failed to keep notes draft")
		}
		log.WithError(err).Warn("case resolution failed", "decision", resolution.Decision)
		return err
	}

	if err := s.notes.ClearNotes(ctx, analyst, caseID); err != nil {
		log.WithError(err).Warn("failed to clear notes draft")
	}
	metrics.HITLResolutions.WithLabelValues(string(resolution.Decision)).Inc()
	s.journal.RecordQuietly(ctx, activity.Entry{
		Analyst:     analyst,
		EventType:   activity.EventCaseResolved,
		CaseID:      null.StringFrom(caseID),
		Description: string(resolution.Decision),
		Metadata:    map[string]string{"notes": resolution.Notes},
	})
	log.Info("case resolved", "decision", resolution.Decision)
	return nil
}
