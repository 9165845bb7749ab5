/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll service.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Build the zap logger
  3. Load the rate table (file or built-in) and validate it
  4. Initialize SQLite store and record the rate table version
  5. Create engine, API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -addr    Listen address (PAYROLL_ADDR, default :8080)
  -db      SQLite database path (PAYROLL_DB, default payroll.db)
           Use ":memory:" for in-memory database
  -rates   Rate table file, .json or .yaml (PAYROLL_RATES_FILE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (PAYROLL_SHUTDOWN_TIMEOUT)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Run with a rate table file
  ./server -rates="./rates/ke-2025.yaml"

  # Run on different address
  ./server -addr=":3000"

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - statutory/kenya.go: Built-in rate table
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	ratesFile := flag.String("rates", cfg.RatesFile, "Rate table file (.json, .yaml)")
	flag.Parse()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rates, err := loadRates(*ratesFile)
	if err != nil {
		logger.Fatal("failed to load rate table", zap.String("file", *ratesFile), zap.Error(err))
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("db", *dbPath), zap.Error(err))
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, payroll.NewEngine(rates, logger), logger)
	if err := handler.RecordRateTable(context.Background()); err != nil {
		logger.Fatal("failed to record rate table", zap.Error(err))
	}

	// Create server
	server := &http.Server{
		Addr:         *addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.String("addr", *addr),
			zap.String("db", *dbPath),
			zap.String("rate_table", rates.Name),
			zap.String("env", cfg.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

// loadRates reads the rate table file, or falls back to the built-in table.
func loadRates(path string) (payroll.RateTable, error) {
	if path == "" {
		table := statutory.Kenya2025()
		return table, table.Validate()
	}
	return factory.NewRateTableFactory().LoadFile(path)
}
