// Package web holds the console's embedded templates and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// NavItem is one entry of the side menu.
type NavItem struct {
	Path string
	Name string
}

// Nav is the fixed side menu, in display order.
var Nav = []NavItem{
	{Path: "/", Name: "Dashboard"},
	{Path: "/hitl", Name: "Cola HITL"},
	{Path: "/manual-entry", Name: "Entrada Manual"},
	{Path: "/simulator", Name: "Simulador"},
	{Path: "/reports", Name: "Reportes de Auditoría"},
	{Path: "/activity", Name: "Actividad"},
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"badge": func(d fraud.Decision) fraud.Badge {
			return d.Badge()
		},
		"percent":    format.ConfidenceLabel,
		"percentNum": format.ConfidencePercent,
		"level":      format.ConfidenceLevel,
		"amount":     format.Amount,
		"count":      format.Count,
		"markup":     format.Markup,
		"timestamp":  format.Timestamp,
		"date":       format.Date,
		"clock":      format.Clock,
		"nav": func() []NavItem {
			return Nav
		},
		"initial": func(s string) string {
			if s == "" {
				return "?"
			}
			r := []rune(s)
			return strings.ToUpper(string(r[0]))
		},
		"accuracy": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
	}
}

// Renderer renders full pages inside the layout, and named fragments.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template against the shared layout.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(Funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" || name == "partials" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, path); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Renderer{pages: pages}, nil
}

// Page renders the named page inside the layout. Output is buffered so a
// template error never leaves a half-written response.
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	return r.execute(w, name, "layout", data)
}

// Fragment renders one named template of a page without the layout.
func (r *Renderer) Fragment(w io.Writer, page, block string, data any) error {
	return r.execute(w, page, block, data)
}

func (r *Renderer) execute(w io.Writer, page, block string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("failed to render %s/%s: %w", page, block, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
