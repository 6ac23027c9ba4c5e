package handler

import (
	"net/http"
	"strconv"

	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// ActivityView is the data of the activity page.
type ActivityView struct {
	State   view.State
	Entries []activity.Entry
	Message string
}

// ActivityHandler serves the analyst activity journal
type ActivityHandler struct {
	pages
	service *activity.Service
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *activity.Service, renderer Renderer, authEnabled bool, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		pages:   pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		service: service,
	}
}

// GetActivity handles GET /activity
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := activity.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := h.service.List(r.Context(), limit)
	v := ActivityView{State: view.ForList(len(entries), err), Entries: entries}
	status := http.StatusOK
	if err != nil {
		middleware.CaptureError(r.Context(), err)
		v.Message = "No se pudo leer el registro de actividad."
		status = http.StatusInternalServerError
	}

	h.render(w, r, status, "activity", h.page(r, "Actividad", "/activity", v))
}
