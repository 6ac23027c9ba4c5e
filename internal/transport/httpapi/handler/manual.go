package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/manual"
	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// submitFallback is shown when the backend gives no reason for a failure.
const submitFallback = "no se pudo contactar al servidor de análisis."

// ManualView is the data of the manual entry form.
type ManualView struct {
	Draft      fraud.Draft
	Fields     manual.FieldErrors
	Message    string
	Currencies []fraud.Option
	Countries  []fraud.Option
	Channels   []fraud.Option
}

func newManualView(d fraud.Draft) ManualView {
	return ManualView{
		Draft:      d,
		Currencies: fraud.CurrencyOptions,
		Countries:  fraud.CountryOptions,
		Channels:   fraud.ChannelOptions,
	}
}

// ManualHandler serves the manual entry form
type ManualHandler struct {
	pages
	service *manual.Service
}

// NewManualHandler creates a new manual entry handler
func NewManualHandler(service *manual.Service, renderer Renderer, authEnabled bool, log *logger.Logger) *ManualHandler {
	return &ManualHandler{
		pages:   pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		service: service,
	}
}

// GetForm handles GET /manual-entry
func (h *ManualHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	d := h.service.Form(r.Context(), session.AnalystFromContext(r.Context()))
	h.renderForm(w, r, http.StatusOK, newManualView(d))
}

// Submit handles POST /manual-entry. On success the browser is sent to the
// evaluated transaction; on failure the form comes back with what was typed.
func (h *ManualHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Solicitud inválida", "No se pudo leer el formulario.")
		return
	}

	d, fieldErrs := manual.DraftFromForm(r.PostForm)
	v := newManualView(d)
	if len(fieldErrs) > 0 {
		v.Fields = fieldErrs
		h.renderForm(w, r, http.StatusUnprocessableEntity, v)
		return
	}

	detail, err := h.service.Submit(r.Context(), session.AnalystFromContext(r.Context()), d)
	if err != nil {
		middleware.CaptureError(r.Context(), err)

		var fe manual.FieldErrors
		if errors.As(err, &fe) {
			v.Fields = fe
			h.renderForm(w, r, http.StatusUnprocessableEntity, v)
			return
		}
		v.Message = fraudapi.UserMessage(err, submitFallback)
		h.renderForm(w, r, http.StatusBadGateway, v)
		return
	}

	seeOther(w, r, "/transaction/"+url.PathEscape(detail.ID))
}

func (h *ManualHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, v ManualView) {
	h.render(w, r, status, "manual", h.page(r, "Entrada Manual", "/manual-entry", v))
}
