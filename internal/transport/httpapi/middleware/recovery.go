package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fraudguard/console/internal/infra/metrics"
	"github.com/fraudguard/console/pkg/logger"
)

// Recovery turns a handler panic into a plain 500 page that quotes the
// request ID, so an analyst can report it. Aborted responses keep panicking
// for net/http to handle.
func Recovery(log *logger.Logger) func(next http.Handler) http.Handler {
	log = log.Component("recovery")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				reqID := chimiddleware.GetReqID(r.Context())
				metrics.PanicsRecovered.Inc()
				log.Error("handler panicked",
					"request_id", reqID,
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "Error interno de la consola. Referencia: %s\n", reqID)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
