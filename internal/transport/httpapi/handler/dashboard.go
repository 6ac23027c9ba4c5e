package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/infra/metrics"
	"github.com/fraudguard/console/internal/platform/dashboard"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/pkg/format"
	"github.com/fraudguard/console/pkg/logger"
)

// DashboardView is the data of the live dashboard region.
type DashboardView struct {
	Snap              dashboard.Snapshot
	StreamURL         string
	StatsError        string
	TransactionsError string
}

func newDashboardView(snap dashboard.Snapshot) DashboardView {
	v := DashboardView{Snap: snap, StreamURL: "/dashboard/stream"}
	if snap.StatsErr != nil {
		v.StatsError = fraudapi.UserMessage(snap.StatsErr, view.UnavailableText)
	}
	if snap.TxErr != nil {
		v.TransactionsError = fraudapi.UserMessage(snap.TxErr, view.UnavailableText)
	}
	return v
}

// snapshotEvent is the payload of one SSE "snapshot" event.
type snapshotEvent struct {
	Seq      uint64 `json:"seq"`
	LoadedAt string `json:"loaded_at"`
	HTML     string `json:"html"`
}

// DashboardHandler serves the dashboard page and its live stream
type DashboardHandler struct {
	pages
	loader   *dashboard.Loader
	interval time.Duration
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(loader *dashboard.Loader, interval time.Duration, renderer Renderer, authEnabled bool, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		pages:    pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		loader:   loader,
		interval: interval,
	}
}

// GetDashboard handles GET /
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.loader.Load(r.Context())
	h.render(w, r, http.StatusOK, "dashboard", h.page(r, "Dashboard", "/", newDashboardView(snap)))
}

// Stream handles GET /dashboard/stream. Every accepted snapshot replaces
// the whole live region on the client; the poller stops when the client goes away.
func (h *DashboardHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server's write timeout would cut the stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Debug("write deadline not adjustable")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	metrics.DashboardStreams.Inc()
	defer metrics.DashboardStreams.Dec()

	log := h.logger.WithContext(r.Context())
	poller := dashboard.NewPoller(h.loader, h.interval, h.logger)
	poller.Run(r.Context(), func(snap dashboard.Snapshot) {
		if err := h.writeSnapshot(w, snap); err != nil {
			log.WithError(err).Warn("failed to write dashboard snapshot", "seq", snap.Seq)
			return
		}
		if err := rc.Flush(); err != nil {
			log.WithError(err).Debug("failed to flush dashboard stream")
		}
	})
}

func (h *DashboardHandler) writeSnapshot(w http.ResponseWriter, snap dashboard.Snapshot) error {
	var buf bytes.Buffer
	if err := h.renderer.Fragment(&buf, "dashboard", "dashboard_live", newDashboardView(snap)); err != nil {
		return err
	}

	payload, err := json.Marshal(snapshotEvent{
		Seq:      snap.Seq,
		LoadedAt: format.Clock(snap.LoadedAt),
		HTML:     buf.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Seq, payload)
	return err
}
