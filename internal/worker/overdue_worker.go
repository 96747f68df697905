// Package worker runs the background jobs of the invoicer.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/rechnung/invoicing-core/internal/core/domain"
)

// OverdueSource lists unpaid invoices whose due date has passed.
type OverdueSource interface {
	FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*domain.Invoice, error)
}

// OverdueWorker periodically scans for overdue invoices and emits one
// structured log line per hit, feeding the operator's dunning process.
// It never mutates invoices.
type OverdueWorker struct {
	invoices  OverdueSource
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewOverdueWorker(
	invoices OverdueSource,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *OverdueWorker {
	return &OverdueWorker{
		invoices:  invoices,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	w.logger.Info("overdue worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.processOverdue(ctx); err != nil {
		w.logger.Error("overdue scan failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("overdue worker stopping")
			return
		case <-ticker.C:
			if err := w.processOverdue(ctx); err != nil {
				w.logger.Error("overdue scan failed", "error", err)
			}
		}
	}
}

func (w *OverdueWorker) processOverdue(ctx context.Context) error {
	now := time.Now().UTC()

	overdue, err := w.invoices.FindOverdue(ctx, now, w.batchSize)
	if err != nil {
		return err
	}

	if len(overdue) == 0 {
		return nil
	}

	for _, inv := range overdue {
		w.logger.Warn("invoice overdue",
			"invoice_id", inv.ID,
			"number", inv.Number,
			"vendor_id", inv.VendorID,
			"due_date", inv.DueDate,
			"days_overdue", int(now.Sub(*inv.DueDate).Hours()/24),
			"total", inv.TotalString(),
		)
	}

	w.logger.Info("processed overdue scan", "overdue", len(overdue))
	return nil
}
