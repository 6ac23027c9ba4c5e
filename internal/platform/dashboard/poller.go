package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/fraudguard/console/pkg/logger"
)

// DefaultInterval is the dashboard refresh period.
const DefaultInterval = 30 * time.Second

// MaxInFlight bounds the loads one poller runs at once. A tick that finds the
// bound reached is skipped.
const MaxInFlight = 2

// Poller reloads the dashboard on a fixed interval until its context ends.
// Loads may overlap; a snapshot is published only when it is newer than the
// last one published.
type Poller struct {
	loader   *Loader
	interval time.Duration
	logger   *logger.Logger
}

// NewPoller creates a poller. A non-positive interval falls back to DefaultInterval.
func NewPoller(loader *Loader, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		loader:   loader,
		interval: interval,
		logger:   log.Component("dashboard_poller"),
	}
}

// Run loads once immediately and then on every tick, calling publish with
// each accepted snapshot. Ticks are skipped while MaxInFlight loads are
// outstanding. It blocks until ctx is done and every in-flight load
// has returned; publish is never called after Run returns.
func (p *Poller) Run(ctx context.Context, publish func(Snapshot)) {
	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		seq       uint64
		published uint64
		inFlight  int
	)

	load := func() {
		mu.Lock()
		if inFlight >= MaxInFlight {
			mu.Unlock()
			p.logger.Debug("skipping dashboard refresh, loads still running", "in_flight", MaxInFlight)
			return
		}
		inFlight++
		mu.Unlock()

		seq++
		n := seq
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := p.loader.Load(ctx)
			snap.Seq = n

			mu.Lock()
			defer mu.Unlock()
			inFlight--
			if ctx.Err() != nil {
				return
			}
			if n <= published {
				p.logger.Debug("dropping stale dashboard snapshot", "seq", n, "published", published)
				return
			}
			published = n
			publish(snap)
		}()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	load()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			load()
		}
	}
}
