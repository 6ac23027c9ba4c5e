package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fraudguard/console/internal/infra/gateway/fraudapi"
	"github.com/fraudguard/console/internal/infra/postgres"
	infraRedis "github.com/fraudguard/console/internal/infra/redis"
	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/internal/platform/dashboard"
	"github.com/fraudguard/console/internal/platform/draft"
	"github.com/fraudguard/console/internal/platform/hitl"
	"github.com/fraudguard/console/internal/platform/manual"
	"github.com/fraudguard/console/internal/platform/session"
	"github.com/fraudguard/console/internal/platform/simulator"
	"github.com/fraudguard/console/internal/transport/httpapi"
	"github.com/fraudguard/console/internal/transport/httpapi/handler"
	"github.com/fraudguard/console/internal/transport/httpapi/web"
	"github.com/fraudguard/console/pkg/config"
	"github.com/fraudguard/console/pkg/logger"
)

// journalCapacity bounds the in-memory activity journal.
const journalCapacity = 500

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting fraud console",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_url", cfg.APIURL,
		"sign_in", cfg.AuthEnabled(),
	)

	// Backend client: the console calls the absolute URL, browsers get the configured one
	client := fraudapi.NewClient(cfg.BackendURL(),
		fraudapi.WithTimeout(cfg.APITimeout),
		fraudapi.WithLogger(log),
		fraudapi.WithPublicBaseURL(cfg.APIURL),
	)
	healthDeps := make(map[string]handler.Pinger)

	// Draft store: Redis when configured, process memory otherwise
	var draftStore draft.Store = draft.NewMemoryStore(draft.DefaultTTL)
	if cfg.RedisURL != "" {
		redisClient, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		draftStore = infraRedis.NewDraftStore(redisClient, log)
		healthDeps["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Redis draft store enabled")
	} else {
		log.Warn("REDIS_URL not configured, drafts kept in memory")
	}
	drafts := draft.New(draftStore)

	// Activity journal: Postgres when configured, bounded memory otherwise
	var journalRepo activity.Repository = activity.NewMemoryRepository(journalCapacity)
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
		journalRepo = postgres.NewActivityRepository(db.Pool)
		healthDeps["database"] = db
		log.Info("Postgres activity journal enabled")
	} else {
		log.Warn("DATABASE_URL not configured, activity journal kept in memory")
	}
	journal := activity.NewService(journalRepo, log)

	// Sessions
	sessions, err := session.NewService(cfg.SessionSecret, cfg.AccessCode)
	if err != nil {
		log.Error("Failed to initialize sessions", "error", err)
		os.Exit(1)
	}

	// Services
	loader := dashboard.NewLoader(client)
	hitlSvc := hitl.NewService(client, drafts, journal, log)
	manualSvc := manual.NewService(client, drafts, journal, log)
	runner := simulator.NewRunner(client, journal, cfg.APITimeout, log)

	// Templates
	renderer, err := web.NewRenderer()
	if err != nil {
		log.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}
	authEnabled := sessions.Enabled()

	// Pass-through proxy for browser downloads when the backend URL is relative
	var apiProxy http.Handler
	if cfg.APIRelative() {
		apiProxy, err = httpapi.NewAPIProxy(cfg.APIUpstream, log)
		if err != nil {
			log.Error("Failed to configure API proxy", "error", err)
			os.Exit(1)
		}
	}

	// Create HTTP router
	routerCfg := httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		Sessions:           sessions,
		Static:             web.Static(),
		Metrics:            promhttp.Handler(),
		APIProxy:           apiProxy,
		AuthHandler:        handler.NewAuthHandler(sessions, renderer, log),
		DashboardHandler:   handler.NewDashboardHandler(loader, cfg.RefreshInterval, renderer, authEnabled, log),
		TransactionHandler: handler.NewTransactionHandler(client, renderer, authEnabled, log),
		HITLHandler:        handler.NewHITLHandler(hitlSvc, renderer, authEnabled, log),
		ManualHandler:      handler.NewManualHandler(manualSvc, renderer, authEnabled, log),
		SimulatorHandler:   handler.NewSimulatorHandler(runner, renderer, authEnabled, log),
		ReportsHandler:     handler.NewReportsHandler(client, renderer, authEnabled, log),
		ActivityHandler:    handler.NewActivityHandler(journal, renderer, authEnabled, log),
		HealthHandler:      handler.NewHealthHandler(client, healthDeps),
	}
	r := httpapi.NewRouter(routerCfg)

	// Create HTTP server. The dashboard stream clears its own write deadline.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		// Request contexts end on shutdown so open dashboard streams return.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	// Let running seeds record their outcome
	runner.Wait()
	log.Info("Server stopped gracefully")
}
