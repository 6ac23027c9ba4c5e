package middleware

import (
	"context"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fraudguard/console/pkg/logger"
)

type requestInfoKey struct{}

// requestInfo is filled in by inner handlers and read back when the request
// is logged.
type requestInfo struct {
	analyst string
	err     error
}

// CaptureError attaches err to the request log line.
func CaptureError(ctx context.Context, err error) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok && err != nil {
		info.err = err
	}
}

func setAnalyst(ctx context.Context, analyst string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.analyst = analyst
	}
}

// Logger returns a request logging middleware
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			info := &requestInfo{}

			ctx := context.WithValue(r.Context(), requestInfoKey{}, info)
			reqID := chimiddleware.GetReqID(ctx)
			if reqID != "" {
				ctx = logger.ContextWithRequestID(ctx, reqID)
			}
			r = r.WithContext(ctx)

			defer func() {
				status := ww.Status()
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"user_agent", r.UserAgent(),
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}
				if info.analyst != "" {
					attrs = append(attrs, "analyst", info.analyst)
				}
				if info.err != nil {
					attrs = append(attrs, "error", info.err.Error())
				}

				switch {
				case status >= 500:
					log.Error("HTTP request", attrs...)
				case status >= 400 || info.err != nil:
					log.Warn("HTTP request", attrs...)
				default:
					log.Info("HTTP request", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
