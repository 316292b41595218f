package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refayetSiam/SpareHub/internal"
	"github.com/refayetSiam/SpareHub/internal/catalog"
	"github.com/refayetSiam/SpareHub/internal/handler"
	"github.com/refayetSiam/SpareHub/internal/metrics"
	"github.com/refayetSiam/SpareHub/internal/middleware"
	"github.com/refayetSiam/SpareHub/internal/repository"
	"github.com/refayetSiam/SpareHub/internal/service"
	"github.com/refayetSiam/SpareHub/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository and catalog
	repo := repository.NewPostgres(db)
	cat := catalog.Default()

	// Initialize services
	workOrderService := service.NewWorkOrderService(repo, cat, logger)
	fleetService := service.NewFleetService(repo, cat, workOrderService, logger)

	// Initialize background scanner
	var scanner *worker.Scanner
	if cfg.ScanEnabled {
		scanner, err = worker.New(fleetService, workOrderService, worker.Config{
			ScanInterval:    cfg.ScanInterval,
			ShutdownTimeout: cfg.ScanShutdownTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("scanner initialization failed: %w", err)
		}
		scanner.Start(ctx)
		defer scanner.Stop()
	} else {
		logger.Info("Fleet scanner disabled")
	}

	// Initialize middleware
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	fleetHandler := handler.NewFleetHandler(fleetService, repo, logger)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// API routes
	fleetHandler.RegisterRoutes(mux)
	workOrderHandler.RegisterRoutes(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: loggingMw.Handler(metrics.Middleware(mux)),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
