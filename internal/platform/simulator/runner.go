package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/infra/metrics"
	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/pkg/logger"
)

// Seeder is the slice of the backend client the simulator needs.
type Seeder interface {
	Seed(ctx context.Context) (string, error)
}

// Journal records analyst actions.
type Journal interface {
	RecordQuietly(ctx context.Context, entry activity.Entry)
}

// Status is a snapshot of one session's machine.
type Status struct {
	State   State
	Message string
}

// FinishedTTL is how long a finished session keeps its outcome.
const FinishedTTL = 30 * time.Minute

// Runner holds one machine per session and runs seeds in the background.
// Only sessions that started a seed are tracked: an idle session has no
// entry, and finished ones are evicted after FinishedTTL.
type Runner struct {
	seeder  Seeder
	journal Journal
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	machines  map[string]*tracked
	lastSweep time.Time
	wg        sync.WaitGroup
}

type tracked struct {
	machine *Machine
	touched time.Time
}

// NewRunner creates a runner. Each seed is bounded by timeout.
func NewRunner(seeder Seeder, journal Journal, timeout time.Duration, log *logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = fraudapi.DefaultTimeout
	}
	return &Runner{
		seeder:   seeder,
		journal:  journal,
		timeout:  timeout,
		logger:   log.Component("simulator"),
		now:      time.Now,
		machines: make(map[string]*tracked),
	}
}

// track returns the session's entry, creating it when absent.
func (r *Runner) track(session string) *tracked {
	t, ok := r.machines[session]
	if !ok {
		t = &tracked{machine: NewMachine()}
		r.machines[session] = t
	}
	t.touched = r.now()
	return t
}

// sweep evicts finished sessions untouched for FinishedTTL. It runs at most
// once per FinishedTTL.
func (r *Runner) sweep() {
	now := r.now()
	if now.Sub(r.lastSweep) < FinishedTTL {
		return
	}
	r.lastSweep = now
	for key, t := range r.machines {
		if t.machine.State() != StateLoading && now.Sub(t.touched) >= FinishedTTL {
			delete(r.machines, key)
		}
	}
}

// Status returns the session's current state. It never creates an entry.
func (r *Runner) Status(session string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.machines[session]
	if !ok {
		return Status{State: StateIdle}
	}
	return Status{State: t.machine.State(), Message: t.machine.Message()}
}

// Run starts a seed for the session. It returns ErrInvalidTransition unless
// the session is idle. The seed outlives the request that started it but keeps
// its request-scoped values.
func (r *Runner) Run(ctx context.Context, session, analyst string) error {
	r.mu.Lock()
	r.sweep()
	err := r.track(session).machine.Start()
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		seedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		start := time.Now()
		status, err := r.seeder.Seed(seedCtx)
		log := r.logger.WithContext(ctx).WithDuration(time.Since(start))

		r.mu.Lock()
		m := r.track(session).machine
		entry := activity.Entry{Analyst: analyst}
		if err != nil {
			msg := fraudapi.UserMessage(err, err.Error())
			_ = m.Fail(msg)
			entry.EventType = activity.EventSeedFailed
			entry.Description = msg
		} else {
			_ = m.Succeed(status)
			entry.EventType = activity.EventSeedTriggered
			entry.Description = m.Message()
		}
		r.mu.Unlock()

		if err != nil {
			metrics.SeedRuns.WithLabelValues("error").Inc()
			log.WithError(err).Warn("seed failed")
		} else {
			metrics.SeedRuns.WithLabelValues("success").Inc()
			log.Info("seed completed", "status", status)
		}
		r.journal.RecordQuietly(seedCtx, entry)
	}()
	return nil
}

// Retry returns an errored session to idle, dropping its entry.
func (r *Runner) Retry(session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.machines[session]
	if !ok {
		return NewMachine().Retry()
	}
	if err := t.machine.Retry(); err != nil {
		return err
	}
	delete(r.machines, session)
	return nil
}

// Reset forgets a finished session so its next visit starts idle. Loading
// sessions are left alone.
func (r *Runner) Reset(session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.machines[session]
	if !ok {
		return nil
	}
	if t.machine.State() == StateLoading {
		return fmt.Errorf("%w: seed still running", ErrInvalidTransition)
	}
	delete(r.machines, session)
	return nil
}

// Wait blocks until every background seed has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
