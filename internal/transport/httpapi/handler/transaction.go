package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// TransactionReader is the slice of the backend client the detail page needs.
type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) (*fraud.TransactionDetail, error)
	ReportPDFURL(transactionID string) string
}

// TransactionView is the data of the detail page.
type TransactionView struct {
	ID      string
	State   view.State
	Detail  *fraud.TransactionDetail
	Message string
	PDFURL  string
}

// TransactionHandler serves the transaction detail page
type TransactionHandler struct {
	pages
	reader TransactionReader
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(reader TransactionReader, renderer Renderer, authEnabled bool, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		pages:  pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		reader: reader,
	}
}

// GetTransaction handles GET /transaction/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := TransactionView{ID: id, PDFURL: h.reader.ReportPDFURL(id)}
	status := http.StatusOK

	detail, err := h.reader.GetTransaction(r.Context(), id)
	switch {
	case fraudapi.IsNotFound(err):
		v.State = view.StateEmpty
		status = http.StatusNotFound
	case err != nil:
		middleware.CaptureError(r.Context(), err)
		v.State = view.StateUnavailable
		v.Message = fraudapi.UserMessage(err, view.UnavailableText)
		status = http.StatusBadGateway
	default:
		v.State = view.StateReady
		v.Detail = detail
	}

	h.render(w, r, status, "transaction", h.page(r, "Transacción "+id, "/", v))
}
