package services

import (
	"context"
	"fmt"
	"sort"

	"contas/internal/core"
)

// In-memory port fakes for service tests. The payment recorder mirrors the
// SQLite implementation's contract: insert failure leaves the obligation
// untouched, update failure discards the inserted transaction.

type memStore struct {
	obligations map[string]core.Obligation
	txns        []core.Transaction
	budgets     []core.Budget
	goals       map[string]core.Goal
	categories  []core.Category

	failLedgerInsert    bool
	failObligationWrite bool

	published []string
}

func newMemStore() *memStore {
	return &memStore{
		obligations: make(map[string]core.Obligation),
		goals:       make(map[string]core.Goal),
	}
}

func (m *memStore) Get(_ context.Context, id string) (core.Obligation, error) {
	o, ok := m.obligations[id]
	if !ok {
		return core.Obligation{}, core.ErrNotFound
	}
	return o, nil
}

func (m *memStore) ListActive(_ context.Context, owner string) ([]core.Obligation, error) {
	var out []core.Obligation
	for _, o := range m.obligations {
		if o.Owner == owner && o.Active {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Create(_ context.Context, o core.Obligation) error {
	if m.failObligationWrite {
		return core.ErrWriteFailed
	}
	m.obligations[o.ID] = o
	return nil
}

func (m *memStore) Update(_ context.Context, o core.Obligation) error {
	if m.failObligationWrite {
		return core.ErrWriteFailed
	}
	if _, ok := m.obligations[o.ID]; !ok {
		return core.ErrNotFound
	}
	m.obligations[o.ID] = o
	return nil
}

func (m *memStore) Deactivate(_ context.Context, id string) error {
	o, ok := m.obligations[id]
	if !ok {
		return core.ErrNotFound
	}
	o.Active = false
	m.obligations[id] = o
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.obligations[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.obligations, id)
	return nil
}

func (m *memStore) Insert(_ context.Context, t core.Transaction) (string, error) {
	if m.failLedgerInsert {
		return "", fmt.Errorf("insert: %w", core.ErrLedgerWriteFailed)
	}
	m.txns = append(m.txns, t)
	return t.ID, nil
}

func (m *memStore) List(_ context.Context, owner string, year, month int) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.txns {
		if t.Owner == owner && t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) SumByCategoryAndDateRange(_ context.Context, owner string, categoryIDs []string, from, to core.Date) (core.Money, error) {
	var owned []core.Transaction
	for _, t := range m.txns {
		if t.Owner == owner {
			owned = append(owned, t)
		}
	}
	return core.SumExpenses(owned, categoryIDs, from, to), nil
}

func (m *memStore) MonthOverview(_ context.Context, owner string, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}
	for _, t := range m.txns {
		if t.Owner != owner || t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		if t.Type == core.Income {
			overview.Income.Cents += t.Amount.Cents
		} else {
			overview.Expenses.Cents += t.Amount.Cents
		}
	}
	return overview, nil
}

func (m *memStore) RecordPayment(ctx context.Context, txn core.Transaction, obligationID string, newDue core.Date) error {
	if m.failLedgerInsert {
		return fmt.Errorf("insert payment transaction: %w", core.ErrLedgerWriteFailed)
	}
	o, ok := m.obligations[obligationID]
	if !ok {
		return core.ErrNotFound
	}
	if m.failObligationWrite {
		return fmt.Errorf("update obligation due date: %w", core.ErrWriteFailed)
	}
	m.txns = append(m.txns, txn)
	o.NextDueDate = newDue
	m.obligations[obligationID] = o
	return nil
}

func (m *memStore) DisplayNameToIDs(_ context.Context, owner, displayName string) ([]string, error) {
	var ids []string
	for _, c := range m.categories {
		if c.Name == displayName && c.Type == core.Expense && (c.Owner == "" || c.Owner == owner) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (m *memStore) ListBudgets(ctx context.Context, owner string) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range m.budgets {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) CreateBudget(_ context.Context, b core.Budget) error {
	m.budgets = append(m.budgets, b)
	return nil
}

func (m *memStore) GetGoal(_ context.Context, id string) (core.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (m *memStore) ListGoals(_ context.Context, owner string) ([]core.Goal, error) {
	var out []core.Goal
	for _, g := range m.goals {
		if g.Owner == owner {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateGoal(_ context.Context, g core.Goal) error {
	m.goals[g.ID] = g
	return nil
}

func (m *memStore) UpdateGoal(_ context.Context, g core.Goal) error {
	if _, ok := m.goals[g.ID]; !ok {
		return core.ErrNotFound
	}
	m.goals[g.ID] = g
	return nil
}

func (m *memStore) PublishTransactionPosted(_ context.Context, id string) error {
	m.published = append(m.published, id)
	return nil
}
