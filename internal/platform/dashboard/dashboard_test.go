package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/console/internal/platform/dashboard"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/pkg/logger"
)

type stubSource struct {
	stats    func(ctx context.Context) (*fraud.Stats, error)
	listings func(ctx context.Context, call int32) ([]fraud.TransactionSummary, error)
	calls    int32
}

func (s *stubSource) GetStats(ctx context.Context) (*fraud.Stats, error) {
	if s.stats == nil {
		return &fraud.Stats{}, nil
	}
	return s.stats(ctx)
}

func (s *stubSource) ListTransactions(ctx context.Context) ([]fraud.TransactionSummary, error) {
	call := atomic.AddInt32(&s.calls, 1)
	return s.listings(ctx, call)
}

func rows(ids ...string) []fraud.TransactionSummary {
	out := make([]fraud.TransactionSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, fraud.TransactionSummary{Transaction: fraud.Transaction{ID: id}, Decision: fraud.DecisionApprove})
	}
	return out
}

func ids(snap dashboard.Snapshot) []string {
	out := make([]string, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		out = append(out, tx.ID)
	}
	return out
}

// =============================================================================
// Loader Tests
// =============================================================================

func TestLoader_PartialFailure(t *testing.T) {
	src := &stubSource{
		stats: func(context.Context) (*fraud.Stats, error) {
			return nil, errors.New("stats down")
		},
		listings: func(context.Context, int32) ([]fraud.TransactionSummary, error) {
			return rows("T-1", "T-2"), nil
		},
	}

	snap := dashboard.NewLoader(src).Load(context.Background())

	assert.Error(t, snap.StatsErr)
	assert.Nil(t, snap.Stats)
	assert.Equal(t, view.StateUnavailable, snap.StatsState())
	assert.NoError(t, snap.TxErr)
	assert.Equal(t, []string{"T-1", "T-2"}, ids(snap))
	assert.Equal(t, view.StateReady, snap.TransactionsState())
}

func TestLoader_EmptyList(t *testing.T) {
	src := &stubSource{
		stats: func(context.Context) (*fraud.Stats, error) {
			return &fraud.Stats{TotalAnalyzed: 3}, nil
		},
		listings: func(context.Context, int32) ([]fraud.TransactionSummary, error) {
			return []fraud.TransactionSummary{}, nil
		},
	}

	snap := dashboard.NewLoader(src).Load(context.Background())

	assert.Equal(t, view.StateReady, snap.StatsState())
	assert.Equal(t, view.StateEmpty, snap.TransactionsState())
}

func TestLoader_RequestsRunConcurrently(t *testing.T) {
	statsStarted := make(chan struct{})
	src := &stubSource{
		stats: func(ctx context.Context) (*fraud.Stats, error) {
			close(statsStarted)
			return &fraud.Stats{}, nil
		},
		listings: func(ctx context.Context, _ int32) ([]fraud.TransactionSummary, error) {
			select {
			case <-statsStarted:
				return rows("T-1"), nil
			case <-time.After(time.Second):
				return nil, errors.New("stats was not requested concurrently")
			}
		},
	}

	snap := dashboard.NewLoader(src).Load(context.Background())
	assert.NoError(t, snap.TxErr)
}

// =============================================================================
// Poller Tests
// =============================================================================

type recorder struct {
	mu    sync.Mutex
	snaps []dashboard.Snapshot
}

func (r *recorder) publish(s dashboard.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []dashboard.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dashboard.Snapshot(nil), r.snaps...)
}

func TestPoller_LatestRefreshWins(t *testing.T) {
	releaseA := make(chan struct{})
	src := &stubSource{
		listings: func(ctx context.Context, call int32) ([]fraud.TransactionSummary, error) {
			if call == 1 {
				<-releaseA
				return rows("A-1", "A-2"), nil
			}
			return rows("B-1"), nil
		},
	}
	poller := dashboard.NewPoller(dashboard.NewLoader(src), 20*time.Millisecond, logger.Discard())
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx, rec.publish)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(rec.all()) > 0 }, time.Second, 5*time.Millisecond)
	close(releaseA)
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	snaps := rec.all()
	require.NotEmpty(t, snaps)
	for _, s := range snaps {
		assert.Equal(t, []string{"B-1"}, ids(s), "the older refresh must never replace a newer one")
	}
	for i := 1; i < len(snaps); i++ {
		assert.Greater(t, snaps[i].Seq, snaps[i-1].Seq)
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	src := &stubSource{
		listings: func(ctx context.Context, _ int32) ([]fraud.TransactionSummary, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	poller := dashboard.NewPoller(dashboard.NewLoader(src), time.Hour, logger.Discard())

	var published int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx, func(dashboard.Snapshot) { atomic.AddInt32(&published, 1) })
		close(done)
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&src.calls) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&published), "nothing is published once the page is closed")
}

func TestPoller_ImmediateFirstLoad(t *testing.T) {
	src := &stubSource{
		listings: func(context.Context, int32) ([]fraud.TransactionSummary, error) {
			return rows("T-1"), nil
		},
	}
	poller := dashboard.NewPoller(dashboard.NewLoader(src), time.Hour, logger.Discard())
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx, rec.publish)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), rec.all()[0].Seq)
}

func TestPoller_BoundsConcurrentLoads(t *testing.T) {
	src := &stubSource{
		listings: func(ctx context.Context, _ int32) ([]fraud.TransactionSummary, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	poller := dashboard.NewPoller(dashboard.NewLoader(src), 5*time.Millisecond, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx, func(dashboard.Snapshot) {})
		close(done)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&src.calls) == dashboard.MaxInFlight
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(dashboard.MaxInFlight), atomic.LoadInt32(&src.calls), "stalled loads hold further ticks back")

	cancel()
	<-done
}
