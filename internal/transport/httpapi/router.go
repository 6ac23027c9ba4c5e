package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/transport/httpapi/handler"
	"github.com/fraudguard/console/internal/transport/httpapi/middleware"
	"github.com/fraudguard/console/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	Sessions           *session.Service
	Static             http.Handler
	Metrics            http.Handler
	APIProxy           http.Handler
	AuthHandler        *handler.AuthHandler
	DashboardHandler   *handler.DashboardHandler
	TransactionHandler *handler.TransactionHandler
	HITLHandler        *handler.HITLHandler
	ManualHandler      *handler.ManualHandler
	SimulatorHandler   *handler.SimulatorHandler
	ReportsHandler     *handler.ReportsHandler
	ActivityHandler    *handler.ActivityHandler
	HealthHandler      *handler.HealthHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no session required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	if cfg.Static != nil {
		r.Handle("/static/*", cfg.Static)
	}

	// Backend pass-through for report downloads
	if cfg.APIProxy != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ReportCORS(cfg.AllowedOrigins))
			r.Handle("/api/*", cfg.APIProxy)
		})
	}

	if cfg.AuthHandler != nil {
		r.Get("/login", cfg.AuthHandler.GetLogin)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/logout", cfg.AuthHandler.Logout)
	}

	// Console pages (require a session)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Sessions, cfg.Logger))

		if cfg.DashboardHandler != nil {
			r.Get("/", cfg.DashboardHandler.GetDashboard)
			r.Get("/dashboard/stream", cfg.DashboardHandler.Stream)
		}

		if cfg.TransactionHandler != nil {
			r.Get("/transaction/{id}", cfg.TransactionHandler.GetTransaction)
		}

		if cfg.HITLHandler != nil {
			r.Get("/hitl", cfg.HITLHandler.GetQueue)
			r.Post("/hitl/cases/{id}/notes", cfg.HITLHandler.SaveNotes)
			r.Post("/hitl/cases/{id}/resolve", cfg.HITLHandler.Resolve)
		}

		if cfg.ManualHandler != nil {
			r.Get("/manual-entry", cfg.ManualHandler.GetForm)
			r.Post("/manual-entry", cfg.ManualHandler.Submit)
		}

		if cfg.SimulatorHandler != nil {
			r.Get("/simulator", cfg.SimulatorHandler.GetSimulator)
			r.Post("/simulator/run", cfg.SimulatorHandler.Run)
			r.Post("/simulator/retry", cfg.SimulatorHandler.Retry)
		}

		if cfg.ReportsHandler != nil {
			r.Get("/reports", cfg.ReportsHandler.GetReports)
		}

		if cfg.ActivityHandler != nil {
			r.Get("/activity", cfg.ActivityHandler.GetActivity)
		}
	})

	return r
}
