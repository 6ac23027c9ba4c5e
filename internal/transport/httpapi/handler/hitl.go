package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/hitl"
	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// HITLView is the data of the review queue page.
type HITLView struct {
	Queue      hitl.Queue
	SelectedID string
	Message    string
	FormError  string
}

// HITLHandler serves the human review queue
type HITLHandler struct {
	pages
	service *hitl.Service
}

// NewHITLHandler creates a new review queue handler
func NewHITLHandler(service *hitl.Service, renderer Renderer, authEnabled bool, log *logger.Logger) *HITLHandler {
	return &HITLHandler{
		pages:   pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		service: service,
	}
}

// GetQueue handles GET /hitl. The case query parameter selects a case.
func (h *HITLHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	analyst := session.AnalystFromContext(r.Context())
	q := h.service.Load(r.Context(), analyst, r.URL.Query().Get("case"))
	h.renderQueue(w, r, http.StatusOK, q, "")
}

// SaveNotes handles POST /hitl/cases/{id}/notes
func (h *HITLHandler) SaveNotes(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")
	analyst := session.AnalystFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Solicitud inválida", "No se pudo leer el formulario.")
		return
	}
	if err := h.service.SaveNotes(r.Context(), analyst, caseID, r.PostForm.Get("notes")); err != nil {
		middleware.CaptureError(r.Context(), err)
		q := h.service.Retain(r.Context(), analyst, caseID, r.PostForm.Get("notes"))
		h.renderQueue(w, r, http.StatusInternalServerError, q, "No se pudieron guardar las notas.")
		return
	}

	seeOther(w, r, "/hitl?case="+url.QueryEscape(caseID))
}

// Resolve handles POST /hitl/cases/{id}/resolve. Success clears the
// selection; failure re-renders the case with the analyst's notes and an
// inline error.
func (h *HITLHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")
	analyst := session.AnalystFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Solicitud inválida", "No se pudo leer el formulario.")
		return
	}
	resolution := fraud.Resolution{
		Decision: fraud.ParseDecision(r.PostForm.Get("decision")),
		Notes:    r.PostForm.Get("notes"),
	}

	err := h.service.Resolve(r.Context(), analyst, caseID, resolution)
	if err == nil {
		seeOther(w, r, "/hitl")
		return
	}
	middleware.CaptureError(r.Context(), err)

	status := http.StatusBadGateway
	message := "Error al resolver el caso: " + fraudapi.UserMessage(err, "intenta nuevamente.")
	if errors.Is(err, fraud.ErrInvalidResolution) || errors.Is(err, fraud.ErrMissingCaseID) {
		status = http.StatusUnprocessableEntity
		message = "Selecciona una decisión válida: APPROVE, CHALLENGE o BLOCK."
	}

	q := h.service.Retain(r.Context(), analyst, caseID, resolution.Notes)
	h.renderQueue(w, r, status, q, message)
}

func (h *HITLHandler) renderQueue(w http.ResponseWriter, r *http.Request, status int, q hitl.Queue, formError string) {
	v := HITLView{Queue: q, FormError: formError}
	if q.Selected != nil {
		v.SelectedID = q.Selected.ID
	}
	if q.State == view.StateUnavailable {
		middleware.CaptureError(r.Context(), q.Err)
		v.Message = fraudapi.UserMessage(q.Err, view.UnavailableText)
	}
	h.render(w, r, status, "hitl", h.page(r, "Cola HITL", "/hitl", v))
}
