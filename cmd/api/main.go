package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/lorrc/ticket-report-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-report-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-report-backend/internal/adapters/secondary/export"
	"github.com/lorrc/ticket-report-backend/internal/adapters/secondary/memstore"
	"github.com/lorrc/ticket-report-backend/internal/config"
	"github.com/lorrc/ticket-report-backend/internal/core/services"
	"github.com/lorrc/ticket-report-backend/internal/infrastructure/logging"
	"github.com/lorrc/ticket-report-backend/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Metrics
	pipelineMetrics := metrics.NewPipeline()
	if err := pipelineMetrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Rate Limiters
	var generalRateLimiter, uploadRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		uploadRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.UploadRPS,
			BurstSize:         cfg.RateLimit.UploadBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Dataset cache (Secondary Adapter)
	store := memstore.NewDatasetStore(cfg.Cache.Capacity)

	// CSV export (Secondary Adapter)
	csvWriter := export.NewCSVWriter()

	// Services (Core)
	loaderService := services.NewLoaderService(logger)
	datasetService := services.NewDatasetService(loaderService, store, pipelineMetrics, logger)
	reportService := services.NewReportService(datasetService, pipelineMetrics, logger)

	// Handlers (Primary Adapters)
	reportHandler := httpAdapter.NewReportHandler(reportService, csvWriter, errorHandler, logger)
	datasetHandler := httpAdapter.NewDatasetHandler(datasetService, errorHandler, cfg.Upload.MaxBytes, logger)
	healthHandler := httpAdapter.NewHealthHandler(store, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(pipelineMetrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		MaxAge:         300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			// Upload triggers a full clean-and-derive pass; rate limit it harder
			r.Group(func(r chi.Router) {
				if uploadRateLimiter != nil {
					r.Use(uploadRateLimiter.Middleware)
				}
				r.Post("/", datasetHandler.HandleUploadDataset)
			})

			r.Route("/{datasetID}", func(r chi.Router) {
				r.Get("/", datasetHandler.HandleGetDataset)
				reportHandler.RegisterRoutes(r)
			})
		})
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
