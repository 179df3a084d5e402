// Package worker drains the export and alert queues and keeps the
// spreadsheet mirror caught up with the local store.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/export"
	"kharcha/internal/notify"
)

// ExportStore is the slice of the repository the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListPendingExports(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

type Worker struct {
	store     ExportStore
	sheet     export.Appender
	notifier  notify.Notifier
	batchSize int
}

func New(store ExportStore, sheet export.Appender, notifier notify.Notifier, batchSize int) *Worker {
	return &Worker{
		store:     store,
		sheet:     sheet,
		notifier:  notifier,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP.
func (w *Worker) HandleExportMessage(ctx context.Context, msg *amqp.ExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.ID)

	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportToSheet(ctx, msg.ID, tx); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}

// HandleAlertMessage delivers a budget alert through the configured notifier.
func (w *Worker) HandleAlertMessage(ctx context.Context, msg *amqp.AlertMessage) error {
	slog.InfoContext(ctx, "Processing alert message",
		"owner", msg.OwnerID,
		"threshold", msg.Threshold)

	if w.notifier == nil {
		slog.WarnContext(ctx, "No notifier configured, dropping alert",
			"owner", msg.OwnerID,
			"threshold", msg.Threshold)
		return nil
	}

	if err := w.notifier.Notify(ctx, msg.OwnerID, msg.Message); err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	return nil
}

// ProcessPendingExports drains transactions that never made it to the
// sheet. Backup path for lost AMQP messages.
func (w *Worker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.ListPendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportToSheet(ctx, tx.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", tx.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupCheck runs a larger pending sweep once at worker startup to
// recover from downtime.
func (w *Worker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	exported := 0
	failed := 0
	for _, tx := range pending {
		if err := w.exportToSheet(ctx, tx.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", tx.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)
	return nil
}

// RunSweep periodically re-processes pending exports until ctx is done.
func (w *Worker) RunSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPendingExports(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending export sweep failed", "error", err)
			}
		}
	}
}

func (w *Worker) exportToSheet(ctx context.Context, id int64, tx core.Transaction) error {
	if w.sheet == nil {
		slog.WarnContext(ctx, "No sheet configured, leaving transaction pending", "id", id)
		return nil
	}

	ref, err := w.sheet.Append(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		// The row is already on the sheet; do not fail the message.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", id,
		"sheet_ref", ref,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return nil
}
