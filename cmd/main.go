package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acumen-hq/acumen/internal/adapters/http/api"
	"github.com/acumen-hq/acumen/internal/adapters/http/swagger"
	"github.com/acumen-hq/acumen/internal/adapters/store"
	"github.com/acumen-hq/acumen/internal/adapters/syncq"
	app "github.com/acumen-hq/acumen/internal/app"
	"github.com/acumen-hq/acumen/internal/config"
	"github.com/acumen-hq/acumen/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	hoursPerDay       = 24
)

func main() {
	// Disable default Go metrics collection; the engine registers its own
	// registry and the default collectors would double up on scrape.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Capability catalog: configured file, or the built-in defaults.
	capabilities := config.DefaultCapabilities()
	if cfg.CapabilitiesFile != "" {
		capabilities, err = config.LoadCapabilities(ctx, cfg.CapabilitiesFile)
		if err != nil {
			os.Stderr.WriteString("failed to load capabilities: " + err.Error() + "\n")
			return
		}
		log.Info(ctx, "loaded capability catalog",
			logger.String("path", cfg.CapabilitiesFile),
			logger.Int("capabilities", len(capabilities)),
		)
	}

	// Durable store: SQLite on disk, degrading to the in-memory store so
	// a broken data directory never takes capture down with it.
	var eventStore store.Store
	eventStore, err = store.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		log.Warn(ctx, "sqlite unavailable; events will not survive restarts",
			logger.String("path", cfg.DBPath),
			logger.Error(err),
		)
		eventStore = store.NewMemoryStore()
	}

	// Sync queue delivering batches to the collector endpoint.
	transport := syncq.NewHTTPTransport(cfg.CollectorURL)
	queue := syncq.New(transport,
		syncq.WithBatchSize(cfg.SyncBatchSize),
		syncq.WithFlushInterval(time.Duration(cfg.SyncFlushIntervalMS)*time.Millisecond),
		syncq.WithLogger(log.Named("syncq")),
	)

	svc := app.New(
		app.WithLogger(log.Named("engine")),
		app.WithStore(eventStore),
		app.WithQueue(queue),
		app.WithCapabilities(capabilities),
		app.WithRetention(time.Duration(cfg.RetentionDays)*hoursPerDay*time.Hour),
		app.WithDedupeSize(cfg.DedupeSize),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// API documentation under /api-docs
	swagger.Register(ctx, mux)

	// Business API routes with the engine dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
