package simulator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/pkg/logger"
)

type seedFunc func(ctx context.Context) (string, error)

func (f seedFunc) Seed(ctx context.Context) (string, error) { return f(ctx) }

type nopJournal struct{}

func (nopJournal) RecordQuietly(context.Context, activity.Entry) {}

func newTestRunner(seed seedFunc) (*Runner, *time.Time) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRunner(seed, nopJournal{}, time.Second, logger.Discard())
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRunner_StatusDoesNotTrackSessions(t *testing.T) {
	r, _ := newTestRunner(func(context.Context) (string, error) { return "ok", nil })

	for i := 0; i < 1000; i++ {
		assert.Equal(t, StateIdle, r.Status(fmt.Sprintf("anon-%d", i)).State)
	}

	assert.Empty(t, r.machines)
}

func TestRunner_RetryDropsSession(t *testing.T) {
	r, _ := newTestRunner(func(context.Context) (string, error) { return "", errors.New("boom") })

	require.NoError(t, r.Run(context.Background(), "s1", "ana"))
	r.Wait()
	require.Len(t, r.machines, 1)

	require.NoError(t, r.Retry("s1"))
	assert.Empty(t, r.machines)
	assert.ErrorIs(t, r.Retry("s1"), ErrInvalidTransition)
	assert.Empty(t, r.machines)
}

func TestRunner_EvictsFinishedSessions(t *testing.T) {
	release := make(chan struct{})
	r, clock := newTestRunner(func(ctx context.Context) (string, error) {
		if ctx.Value(ctxKeyBlock{}) != nil {
			<-release
		}
		return "", errors.New("boom")
	})

	require.NoError(t, r.Run(context.WithValue(context.Background(), ctxKeyBlock{}, true), "running", "ana"))
	require.NoError(t, r.Run(context.Background(), "failed", "ana"))
	require.Eventually(t, func() bool { return r.Status("failed").State == StateError }, time.Second, 5*time.Millisecond)

	r.mu.Lock()
	*clock = clock.Add(FinishedTTL)
	r.mu.Unlock()
	require.NoError(t, r.Run(context.Background(), "fresh", "ana"))

	r.mu.Lock()
	_, failedKept := r.machines["failed"]
	_, runningKept := r.machines["running"]
	r.mu.Unlock()
	assert.False(t, failedKept, "an abandoned error state is evicted")
	assert.True(t, runningKept, "a running seed is never evicted")

	close(release)
	r.Wait()
}

type ctxKeyBlock struct{}
