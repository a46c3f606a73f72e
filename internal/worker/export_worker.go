// Package worker exports posted ledger entries to the spreadsheet. It is
// driven by queue messages, with a periodic sweep over pending rows as a
// backup for lost messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/amqp"
	"contas/internal/core"
	"contas/internal/sheets"
	"contas/internal/storage"
)

// ExportStore is the slice of the repository the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListPendingExport(ctx context.Context, limit int) ([]storage.PendingExportTransaction, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

type ExportWorker struct {
	store     ExportStore
	appender  sheets.TransactionAppender
	batchSize int
}

func NewExportWorker(store ExportStore, appender sheets.TransactionAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single queue message. The row is reloaded
// from the database so the sheet reflects the stored state, not the message.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionPostedMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.ID)

	txn, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.export(ctx, txn); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}

// ProcessPending sweeps rows that never got an export message through.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending export: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		txn, err := w.store.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.export(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupCheck recovers from worker downtime with a larger sweep batch.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending export for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup", "count", len(pending))

	exported := 0
	failed := 0
	for _, p := range pending {
		txn, err := w.store.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup export",
				"id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}
		if err := w.export(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup", "id", p.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)
	return nil
}

func (w *ExportWorker) export(ctx context.Context, txn core.Transaction) error {
	ref, err := w.appender.Append(ctx, txn)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, txn.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", txn.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	// The append succeeded even if the status update fails, so no error.
	if err := w.store.MarkExported(ctx, txn.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", txn.ID, "error", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", txn.ID,
		"sheet_ref", ref,
		"amount_cents", txn.Amount.Cents)
	return nil
}
