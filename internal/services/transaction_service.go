package services

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
	applog "kharcha/internal/log"
	"kharcha/internal/store"
)

// ExportPublisher enqueues transactions for the spreadsheet mirror.
type ExportPublisher interface {
	PublishExport(ctx context.Context, id int64) error
}

// TransactionService orchestrates transaction writes across the store and
// the export queue. Publishing is best-effort: the local write is the
// source of truth and a broker outage never fails the request.
type TransactionService struct {
	txs       store.TransactionStore
	publisher ExportPublisher
}

func NewTransactionService(txs store.TransactionStore, publisher ExportPublisher) *TransactionService {
	return &TransactionService{txs: txs, publisher: publisher}
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.txs.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	fields := applog.NewFields().
		WithTransaction(saved.OwnerID, string(saved.Kind), saved.Category, saved.Amount.Cents).
		WithOperation(applog.OpCreate).
		WithComponent(applog.ComponentStorage)
	slog.InfoContext(ctx, "Transaction created", fields.ToSlice()...)

	if s.publisher == nil {
		return saved, nil
	}
	if err := s.publisher.PublishExport(ctx, saved.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", saved.ID, "error", err)
		// Don't fail the request - the transaction is saved locally
	}
	return saved, nil
}

func (s *TransactionService) List(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.txs.ListTransactions(ctx, ownerID)
}

func (s *TransactionService) Delete(ctx context.Context, ownerID string, id int64) error {
	return s.txs.DeleteTransaction(ctx, ownerID, id)
}
