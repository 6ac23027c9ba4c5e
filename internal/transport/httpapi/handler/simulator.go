package handler

import (
	"errors"
	"net/http"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/platform/simulator"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// simulatorRefresh is how often the page reloads while a seed runs.
const simulatorRefresh = 3

// SimulatorHandler serves the data simulator
type SimulatorHandler struct {
	pages
	runner *simulator.Runner
}

// NewSimulatorHandler creates a new simulator handler
func NewSimulatorHandler(runner *simulator.Runner, renderer Renderer, authEnabled bool, log *logger.Logger) *SimulatorHandler {
	return &SimulatorHandler{
		pages:  pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		runner: runner,
	}
}

// GetSimulator handles GET /simulator. A success is shown once; the next
// visit starts idle again.
func (h *SimulatorHandler) GetSimulator(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	status := h.runner.Status(key)

	page := h.page(r, "Simulador", "/simulator", status)
	if status.State == simulator.StateLoading {
		page.Refresh = simulatorRefresh
	}
	h.render(w, r, http.StatusOK, "simulator", page)

	if status.State == simulator.StateSuccess {
		if err := h.runner.Reset(key); err != nil {
			h.logger.WithContext(r.Context()).WithError(err).Warn("failed to reset simulator")
		}
	}
}

// Run handles POST /simulator/run
func (h *SimulatorHandler) Run(w http.ResponseWriter, r *http.Request) {
	err := h.runner.Run(r.Context(), sessionKey(r), session.AnalystFromContext(r.Context()))
	h.afterTransition(w, r, err)
}

// Retry handles POST /simulator/retry
func (h *SimulatorHandler) Retry(w http.ResponseWriter, r *http.Request) {
	h.afterTransition(w, r, h.runner.Retry(sessionKey(r)))
}

func (h *SimulatorHandler) afterTransition(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		seeOther(w, r, "/simulator")
		return
	}
	middleware.CaptureError(r.Context(), err)

	if errors.Is(err, simulator.ErrInvalidTransition) {
		page := h.page(r, "Simulador", "/simulator", h.runner.Status(sessionKey(r)))
		page.Error = "La simulación no admite esa acción en su estado actual."
		h.render(w, r, http.StatusConflict, "simulator", page)
		return
	}
	h.respondError(w, r, http.StatusInternalServerError, "Simulador", "No se pudo iniciar la simulación.")
}

// sessionKey identifies the browser session the simulator state belongs to.
func sessionKey(r *http.Request) string {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess.ID.String()
	}
	return session.DefaultAnalyst
}
