package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
)

// TransactionService posts manual ledger entries and serves ledger reads.
type TransactionService struct {
	ledger    TransactionStore
	publisher ExportPublisher
}

func NewTransactionService(ledger TransactionStore, publisher ExportPublisher) *TransactionService {
	return &TransactionService{
		ledger:    ledger,
		publisher: publisher,
	}
}

// CreateTransactionInput carries the fields of a manual income/expense entry.
type CreateTransactionInput struct {
	Owner       string
	Type        core.TransactionType
	Description string
	Category    string
	Amount      core.Money
	Date        core.Date
}

// Create validates and posts a ledger entry, then queues it for export.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		ID:          uuid.NewString(),
		Owner:       in.Owner,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if _, err := s.ledger.Insert(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction posted",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionPosted(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"transaction_id", t.ID, "error", err)
		}
	}

	return t, nil
}

// List returns the owner's ledger entries for a year+month.
func (s *TransactionService) List(ctx context.Context, owner string, year, month int) ([]core.Transaction, error) {
	txns, err := s.ledger.List(ctx, owner, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// MonthOverview returns the owner's dashboard summary for a year+month.
func (s *TransactionService) MonthOverview(ctx context.Context, owner string, year, month int) (core.MonthOverview, error) {
	overview, err := s.ledger.MonthOverview(ctx, owner, year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("month overview: %w", err)
	}
	return overview, nil
}
