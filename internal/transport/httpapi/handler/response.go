package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// Renderer renders pages inside the console layout.
type Renderer interface {
	Page(w io.Writer, name string, data any) error
	Fragment(w io.Writer, page, block string, data any) error
}

// Page is the data every page template receives. Data holds the
// page-specific view.
type Page struct {
	Title       string
	Active      string
	Analyst     string
	AuthEnabled bool
	Refresh     int // seconds; 0 disables the meta refresh
	Error       string
	Data        any
}

// ErrorView is rendered by the error page.
type ErrorView struct {
	Title   string
	Message string
}

// pages bundles what every page handler needs to render.
type pages struct {
	renderer    Renderer
	authEnabled bool
	logger      *logger.Logger
}

func (p pages) page(r *http.Request, title, active string, data any) Page {
	return Page{
		Title:       title,
		Active:      active,
		Analyst:     session.AnalystFromContext(r.Context()),
		AuthEnabled: p.authEnabled,
		Data:        data,
	}
}

// render writes a full page with the given status.
func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := p.renderer.Page(&buf, name, page); err != nil {
		middleware.CaptureError(r.Context(), err)
		p.logger.WithContext(r.Context()).WithError(err).Error("failed to render page", "page", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// respondError renders the error page.
func (p pages) respondError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	p.render(w, r, status, "error", p.page(r, title, "", ErrorView{Title: title, Message: message}))
}

// seeOther redirects after a successful form post.
func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, map[string]string{"error": message}, statusCode)
}
