package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fraudguard/console/internal/platform/fraud"
)

// Drafts stores typed drafts on top of a Store.
type Drafts struct {
	store Store
}

// New creates a Drafts over store
func New(store Store) *Drafts {
	return &Drafts{store: store}
}

func notesKey(analyst, caseID string) string {
	return fmt.Sprintf("notes:%s:%s", analyst, caseID)
}

func entryKey(analyst string) string {
	return fmt.Sprintf("entry:%s", analyst)
}

// Notes returns the saved notes for a case, or "" when none were saved.
func (d *Drafts) Notes(ctx context.Context, analyst, caseID string) (string, error) {
	raw, ok, err := d.store.Get(ctx, notesKey(analyst, caseID))
	if err != nil || !ok {
		return "", err
	}
	return string(raw), nil
}

// SaveNotes stores the notes for a case. Empty notes remove the draft.
func (d *Drafts) SaveNotes(ctx context.Context, analyst, caseID, notes string) error {
	if notes == "" {
		return d.ClearNotes(ctx, analyst, caseID)
	}
	return d.store.Set(ctx, notesKey(analyst, caseID), []byte(notes))
}

// ClearNotes removes the notes draft of a case.
func (d *Drafts) ClearNotes(ctx context.Context, analyst, caseID string) error {
	return d.store.Delete(ctx, notesKey(analyst, caseID))
}

// Entry returns the analyst's saved manual entry form.
func (d *Drafts) Entry(ctx context.Context, analyst string) (fraud.Draft, bool, error) {
	raw, ok, err := d.store.Get(ctx, entryKey(analyst))
	if err != nil || !ok {
		return fraud.Draft{}, false, err
	}
	var entry fraud.Draft
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fraud.Draft{}, false, fmt.Errorf("failed to decode entry draft: %w", err)
	}
	return entry, true, nil
}

// SaveEntry stores the analyst's manual entry form.
func (d *Drafts) SaveEntry(ctx context.Context, analyst string, entry fraud.Draft) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry draft: %w", err)
	}
	return d.store.Set(ctx, entryKey(analyst), raw)
}

// ClearEntry removes the analyst's manual entry form.
func (d *Drafts) ClearEntry(ctx context.Context, analyst string) error {
	return d.store.Delete(ctx, entryKey(analyst))
}
