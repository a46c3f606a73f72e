// Package services provides business logic and orchestration on top of the
// store ports: the obligation ledger bridge, budget aggregation and goal
// tracking. "Today" is always supplied by the caller so every operation is
// deterministic and testable without clock mocking.
package services

import (
	"context"

	"contas/internal/core"
)

// Ports for outbound adapters.
type (
	ObligationStore interface {
		Get(ctx context.Context, id string) (core.Obligation, error)
		ListActive(ctx context.Context, owner string) ([]core.Obligation, error)
		Create(ctx context.Context, o core.Obligation) error
		Update(ctx context.Context, o core.Obligation) error
		Deactivate(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
	}

	TransactionStore interface {
		Insert(ctx context.Context, t core.Transaction) (string, error)
		List(ctx context.Context, owner string, year, month int) ([]core.Transaction, error)
		SumByCategoryAndDateRange(ctx context.Context, owner string, categoryIDs []string, from, to core.Date) (core.Money, error)
		MonthOverview(ctx context.Context, owner string, year, month int) (core.MonthOverview, error)
	}

	// PaymentRecorder persists a payment as one logical transaction: the
	// ledger insert and the obligation's due-date update either both apply
	// or neither does.
	PaymentRecorder interface {
		RecordPayment(ctx context.Context, txn core.Transaction, obligationID string, newDue core.Date) error
	}

	// CategoryResolver maps a budget's category display name to the set of
	// category ids it covers (the owner's own plus built-in defaults; two
	// categories may share one display name).
	CategoryResolver interface {
		DisplayNameToIDs(ctx context.Context, owner, displayName string) ([]string, error)
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, owner string) ([]core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) error
	}

	GoalStore interface {
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		ListGoals(ctx context.Context, owner string) ([]core.Goal, error)
		CreateGoal(ctx context.Context, g core.Goal) error
		UpdateGoal(ctx context.Context, g core.Goal) error
	}

	// ExportPublisher queues a posted transaction for the spreadsheet export
	// worker. Publishing is best-effort; the periodic sweep catches misses.
	ExportPublisher interface {
		PublishTransactionPosted(ctx context.Context, id string) error
	}
)
