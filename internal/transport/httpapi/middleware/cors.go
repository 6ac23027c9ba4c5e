package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// ReportCORS lets the listed origins fetch report PDFs through the /api
// pass-through. With no origins it adds nothing and only same-origin use works.
func ReportCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead},
		AllowedHeaders:   []string{"Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           600,
	})
}
