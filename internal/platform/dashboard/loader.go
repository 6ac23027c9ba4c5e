// Package dashboard loads the dashboard snapshot and keeps it fresh.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/view"
)

// Source is the slice of the backend client the dashboard needs.
type Source interface {
	GetStats(ctx context.Context) (*fraud.Stats, error)
	ListTransactions(ctx context.Context) ([]fraud.TransactionSummary, error)
}

// Snapshot is one load of the dashboard. Stats and transactions fail
// independently.
type Snapshot struct {
	Seq          uint64
	LoadedAt     time.Time
	Stats        *fraud.Stats
	StatsErr     error
	Transactions []fraud.TransactionSummary
	TxErr        error
}

// StatsState is the rendering state of the stat cards.
func (s Snapshot) StatsState() view.State {
	return view.ForItem(s.Stats != nil, s.StatsErr)
}

// TransactionsState is the rendering state of the transaction table.
func (s Snapshot) TransactionsState() view.State {
	return view.ForList(len(s.Transactions), s.TxErr)
}

// Loader fetches dashboard snapshots.
type Loader struct {
	source Source
	now    func() time.Time
}

// NewLoader creates a loader over source
func NewLoader(source Source) *Loader {
	return &Loader{source: source, now: time.Now}
}

// Load requests stats and transactions concurrently. Neither failure cancels
// the other request.
func (l *Loader) Load(ctx context.Context) Snapshot {
	var snap Snapshot
	var g errgroup.Group

	g.Go(func() error {
		snap.Stats, snap.StatsErr = l.source.GetStats(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Transactions, snap.TxErr = l.source.ListTransactions(ctx)
		return nil
	})
	_ = g.Wait()

	if snap.StatsErr != nil {
		snap.Stats = nil
	}
	if snap.TxErr != nil {
		snap.Transactions = nil
	}
	snap.LoadedAt = l.now()
	return snap
}
