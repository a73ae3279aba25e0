package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerpos/credit-terminal/internal/application/services"
	"github.com/ledgerpos/credit-terminal/internal/config"
	"github.com/ledgerpos/credit-terminal/internal/infrastructure/ledger"
	"github.com/ledgerpos/credit-terminal/internal/infrastructure/persistence"
	"github.com/ledgerpos/credit-terminal/internal/infrastructure/persistence/postgres"
	"github.com/ledgerpos/credit-terminal/internal/interfaces/rest/handlers"
	"github.com/ledgerpos/credit-terminal/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting credit terminal",
		"port", cfg.Server.Port,
		"store_id", cfg.Primary.StoreID,
		"ledger_url", cfg.Ledger.BaseURL,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db.Pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	journal := postgres.NewJournalRepository(db)

	ledgerClient := ledger.NewLedgerClient(cfg.Ledger)
	retryingLedger := ledger.NewRetryLedgerClient(ledgerClient, cfg.Retry)

	slipService := services.NewSlipService(retryingLedger, journal, cfg.Primary.StoreID, logger)
	paymentService := services.NewPaymentService(retryingLedger, journal, cfg.Primary.StoreID, logger)
	queryService := services.NewQueryService(retryingLedger, logger)

	h := handlers.NewHandlers(slipService, paymentService, queryService, logger)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      h.Router(cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewJournalSweeper(journal, cfg.Sweeper, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
