package handler

import (
	"context"
	"net/http"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/view"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// ReportLister is the slice of the backend client the reports page needs.
type ReportLister interface {
	ListReports(ctx context.Context) ([]fraud.Report, error)
	ReportPDFURL(transactionID string) string
}

// ReportRow is one report card. PDFURL is empty without a transaction reference.
type ReportRow struct {
	fraud.Report
	PDFURL string
}

// ReportsView is the data of the reports page.
type ReportsView struct {
	State   view.State
	Rows    []ReportRow
	Message string
}

// ReportsHandler serves the audit reports page
type ReportsHandler struct {
	pages
	lister ReportLister
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(lister ReportLister, renderer Renderer, authEnabled bool, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		pages:  pages{renderer: renderer, authEnabled: authEnabled, logger: log},
		lister: lister,
	}
}

// GetReports handles GET /reports
func (h *ReportsHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.lister.ListReports(r.Context())
	v := ReportsView{State: view.ForList(len(reports), err)}
	status := http.StatusOK

	if err != nil {
		middleware.CaptureError(r.Context(), err)
		v.Message = fraudapi.UserMessage(err, view.UnavailableText)
		status = http.StatusBadGateway
	}

	v.Rows = make([]ReportRow, 0, len(reports))
	for _, rep := range reports {
		row := ReportRow{Report: rep}
		if rep.TransactionRef.Valid {
			row.PDFURL = h.lister.ReportPDFURL(rep.TransactionRef.String)
		}
		v.Rows = append(v.Rows, row)
	}

	h.render(w, r, status, "reports", h.page(r, "Reportes de Auditoría", "/reports", v))
}
