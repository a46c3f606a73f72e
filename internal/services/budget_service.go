package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"contas/internal/core"
)

// BudgetService computes spend against configured limits. Spend is derived
// from the ledger on every read, never stored.
type BudgetService struct {
	budgets  BudgetStore
	ledger   TransactionStore
	resolver CategoryResolver
}

func NewBudgetService(budgets BudgetStore, ledger TransactionStore, resolver CategoryResolver) *BudgetService {
	return &BudgetService{
		budgets:  budgets,
		ledger:   ledger,
		resolver: resolver,
	}
}

// PeriodWindow returns the inclusive date range a budget period covers as of
// today: the current calendar month, or the current calendar year.
func PeriodWindow(period core.BudgetPeriod, today core.Date) (from, to core.Date) {
	switch period {
	case core.PeriodAnnual:
		return core.NewDate(today.Year(), 1, 1), core.NewDate(today.Year(), 12, 31)
	default:
		// Day 0 of the next month is the last day of this one.
		return core.NewDate(today.Year(), today.Month(), 1),
			core.NewDate(today.Year(), today.Month()+1, 0)
	}
}

// SpendFor sums the owner's expense entries for a category display name over
// the period window. The display name fans out to every matching category id
// (the owner's own and built-in defaults). Returns the raw sum; percentage
// and over-limit flags are the caller's concern.
func (s *BudgetService) SpendFor(ctx context.Context, owner, category string, period core.BudgetPeriod, today core.Date) (core.Money, error) {
	ids, err := s.resolver.DisplayNameToIDs(ctx, owner, category)
	if err != nil {
		return core.Money{}, fmt.Errorf("resolve category %q: %w", category, err)
	}
	if len(ids) == 0 {
		return core.Money{}, nil
	}

	from, to := PeriodWindow(period, today)
	spend, err := s.ledger.SumByCategoryAndDateRange(ctx, owner, ids, from, to)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return spend, nil
}

// BudgetStatus pairs a budget with its computed spend.
type BudgetStatus struct {
	Budget core.Budget
	Spent  core.Money
}

// Statuses returns every budget of the owner with its spend as of today.
func (s *BudgetService) Statuses(ctx context.Context, owner string, today core.Date) ([]BudgetStatus, error) {
	budgets, err := s.budgets.ListBudgets(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		spent, err := s.SpendFor(ctx, owner, b.Category, b.Period, today)
		if err != nil {
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		out[i] = BudgetStatus{Budget: b, Spent: spent}
	}
	return out, nil
}

// Create stores a new budget.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.budgets.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID,
		"category", b.Category,
		"period", b.Period,
		"limit_cents", b.Limit.Cents)

	return b, nil
}
