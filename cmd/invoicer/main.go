package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rechnung/invoicing-core/internal/config"
	"github.com/rechnung/invoicing-core/internal/core/epc"
	"github.com/rechnung/invoicing-core/internal/core/numbering"
	"github.com/rechnung/invoicing-core/internal/core/service"
	"github.com/rechnung/invoicing-core/internal/infrastructure/persistence"
	"github.com/rechnung/invoicing-core/internal/infrastructure/persistence/postgres"
	"github.com/rechnung/invoicing-core/internal/interfaces/rest/handlers"
	"github.com/rechnung/invoicing-core/internal/interfaces/rest/middleware"
	"github.com/rechnung/invoicing-core/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting invoicer service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"number_format", cfg.Numbering.Format,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	invoiceRepo := postgres.NewInvoiceRepository(db)
	partyRepo := postgres.NewPartyRepository(db)
	counterStore := postgres.NewCounterStore(db)

	format := numbering.Compile(cfg.Numbering.Format)
	epcOpts := epc.Options{
		Version:          cfg.Payment.Version,
		Encoding:         cfg.Payment.Encoding,
		Instant:          cfg.Payment.Instant,
		AlwaysIncludeBIC: cfg.Payment.AlwaysIncludeBIC,
		CRLF:             cfg.Payment.CRLF,
	}

	invoiceService := service.NewInvoiceService(
		invoiceRepo,
		partyRepo,
		counterStore,
		format,
		epcOpts,
		logger,
	)

	h := handlers.NewHandlers(invoiceService, logger)

	router := http.Handler(h.Routes())

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	overdueWorker := worker.NewOverdueWorker(
		invoiceRepo,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go overdueWorker.Start(workerCtx)

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
