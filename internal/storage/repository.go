// Package storage persists the tracker's entities in SQLite and implements
// the service-layer store ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"contas/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- obligations ---

const obligationColumns = "id, owner, description, category_id, amount_cents, frequency, next_due_date, active"

func scanObligation(row interface{ Scan(...any) error }) (core.Obligation, error) {
	var (
		o      core.Obligation
		dueStr string
		freq   string
		active int64
	)
	if err := row.Scan(&o.ID, &o.Owner, &o.Description, &o.Category, &o.Amount.Cents, &freq, &dueStr, &active); err != nil {
		return core.Obligation{}, err
	}
	due, err := core.ParseDate(dueStr)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("stored due date: %w", err)
	}
	o.Frequency = core.Frequency(freq)
	o.NextDueDate = due
	o.Active = active != 0
	return o, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Obligation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+obligationColumns+" FROM obligations WHERE id = ?", id)
	o, err := scanObligation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Obligation{}, fmt.Errorf("obligation %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Obligation{}, fmt.Errorf("get obligation: %w", err)
	}
	return o, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context, owner string) ([]core.Obligation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+obligationColumns+" FROM obligations WHERE owner = ? AND active = 1 ORDER BY next_due_date, id",
		owner)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	defer rows.Close()

	var out []core.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Create(ctx context.Context, o core.Obligation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO obligations (id, owner, description, category_id, amount_cents, frequency, next_due_date, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Owner, o.Description, o.Category, o.Amount.Cents, string(o.Frequency), o.NextDueDate.String(), boolToInt(o.Active))
	if err != nil {
		return fmt.Errorf("insert obligation: %w", errors.Join(core.ErrWriteFailed, err))
	}

	slog.InfoContext(ctx, "Obligation saved",
		"id", o.ID,
		"description", o.Description,
		"frequency", o.Frequency,
		"next_due", o.NextDueDate.String())
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, o core.Obligation) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE obligations
		 SET description = ?, category_id = ?, amount_cents = ?, frequency = ?, next_due_date = ?, active = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		o.Description, o.Category, o.Amount.Cents, string(o.Frequency), o.NextDueDate.String(), boolToInt(o.Active), o.ID)
	if err != nil {
		return fmt.Errorf("update obligation: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return requireRow(res, o.ID)
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE obligations SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deactivate obligation: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM obligations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete obligation: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return requireRow(res, id)
}

// --- transactions ---

func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) (string, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner, type, description, category_id, amount_cents, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Owner, string(t.Type), t.Description, t.Category, t.Amount.Cents, t.Date.String())
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", errors.Join(core.ErrLedgerWriteFailed, err))
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())
	return t.ID, nil
}

const transactionColumns = "id, owner, type, description, category_id, amount_cents, date"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t       core.Transaction
		typ     string
		dateStr string
	)
	if err := row.Scan(&t.ID, &t.Owner, &typ, &t.Description, &t.Category, &t.Amount.Cents, &dateStr); err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date: %w", err)
	}
	t.Type = core.TransactionType(typ)
	t.Date = date
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context, owner string, year, month int) ([]core.Transaction, error) {
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month+1, 0)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner = ? AND date BETWEEN ? AND ? ORDER BY date, created_at",
		owner, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumByCategoryAndDateRange sums expense entries over an inclusive date
// window. The text date format (YYYY-MM-DD) compares lexicographically.
func (r *SQLiteRepository) SumByCategoryAndDateRange(ctx context.Context, owner string, categoryIDs []string, from, to core.Date) (core.Money, error) {
	if len(categoryIDs) == 0 {
		return core.Money{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(categoryIDs)), ",")
	args := make([]any, 0, len(categoryIDs)+3)
	args = append(args, owner)
	for _, id := range categoryIDs {
		args = append(args, id)
	}
	args = append(args, from.String(), to.String())

	var cents sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM transactions
		 WHERE owner = ? AND type = 'expense' AND category_id IN (`+placeholders+`) AND date BETWEEN ? AND ?`,
		args...).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: cents.Int64}, nil
}

func (r *SQLiteRepository) MonthOverview(ctx context.Context, owner string, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month+1, 0)

	var income, expenses sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT
		   SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END),
		   SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END)
		 FROM transactions WHERE owner = ? AND date BETWEEN ? AND ?`,
		owner, from.String(), to.String()).Scan(&income, &expenses)
	if err != nil {
		return overview, fmt.Errorf("month totals: %w", err)
	}
	overview.Income = core.Money{Cents: income.Int64}
	overview.Expenses = core.Money{Cents: expenses.Int64}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.name, SUM(t.amount_cents)
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.owner = ? AND t.type = 'expense' AND t.date BETWEEN ? AND ?
		 GROUP BY c.name ORDER BY SUM(t.amount_cents) DESC`,
		owner, from.String(), to.String())
	if err != nil {
		return overview, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return overview, fmt.Errorf("scan category sum: %w", err)
		}
		overview.ByCategory = append(overview.ByCategory, ca)
	}
	return overview, rows.Err()
}

// RecordPayment applies the two sides of an obligation payment in one SQL
// transaction: the ledger insert and the due-date roll-forward commit or
// roll back together. No partial state is ever observable.
func (r *SQLiteRepository) RecordPayment(ctx context.Context, txn core.Transaction, obligationID string, newDue core.Date) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", errors.Join(core.ErrLedgerWriteFailed, err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner, type, description, category_id, amount_cents, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Owner, string(txn.Type), txn.Description, txn.Category, txn.Amount.Cents, txn.Date.String())
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", errors.Join(core.ErrLedgerWriteFailed, err))
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE obligations SET next_due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		newDue.String(), obligationID)
	if err != nil {
		return fmt.Errorf("update obligation due date: %w", errors.Join(core.ErrWriteFailed, err))
	}
	if err := requireRow(res, obligationID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", errors.Join(core.ErrWriteFailed, err))
	}

	slog.InfoContext(ctx, "Payment recorded",
		"obligation_id", obligationID,
		"transaction_id", txn.ID,
		"paid_date", txn.Date.String(),
		"next_due", newDue.String())
	return nil
}

// --- categories ---

// DisplayNameToIDs resolves a category display name to every matching
// expense category id visible to the owner: their own plus the built-in
// defaults. Several ids may share one display name.
func (r *SQLiteRepository) DisplayNameToIDs(ctx context.Context, owner, displayName string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM categories WHERE name = ? AND type = 'expense' AND (owner IS NULL OR owner = ?)",
		displayName, owner)
	if err != nil {
		return nil, fmt.Errorf("resolve category name: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListCategories returns the categories visible to the owner for a type.
func (r *SQLiteRepository) ListCategories(ctx context.Context, owner string, typ core.TransactionType) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, COALESCE(owner, ''), name, type FROM categories WHERE type = ? AND (owner IS NULL OR owner = ?) ORDER BY name",
		string(typ), owner)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var ctype string
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &ctype); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(ctype)
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- budgets ---

func (r *SQLiteRepository) ListBudgets(ctx context.Context, owner string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, owner, category, limit_cents, period FROM budgets WHERE owner = ? ORDER BY category", owner)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var period string
		if err := rows.Scan(&b.ID, &b.Owner, &b.Category, &b.Limit.Cents, &period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Period = core.BudgetPeriod(period)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO budgets (id, owner, category, limit_cents, period) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.Owner, b.Category, b.Limit.Cents, string(b.Period))
	if err != nil {
		return fmt.Errorf("insert budget: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return nil
}

// --- goals ---

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g        core.Goal
		deadline sql.NullString
		category sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Owner, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline, &category); err != nil {
		return core.Goal{}, err
	}
	if deadline.Valid && deadline.String != "" {
		d, err := core.ParseDate(deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("stored deadline: %w", err)
		}
		g.Deadline = d
	}
	g.Category = category.String
	return g, nil
}

const goalColumns = "id, owner, name, target_cents, current_cents, deadline, category"

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, owner string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE owner = ? ORDER BY name", owner)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO goals (id, owner, name, target_cents, current_cents, deadline, category) VALUES (?, ?, ?, ?, ?, ?, ?)",
		g.ID, g.Owner, g.Name, g.Target.Cents, g.Current.Cents, nullableDate(g.Deadline), nullableString(g.Category))
	if err != nil {
		return fmt.Errorf("insert goal: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE goals SET current_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		g.Current.Cents, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", errors.Join(core.ErrWriteFailed, err))
	}
	return requireRow(res, g.ID)
}

// --- export queue ---

// PendingExportTransaction is the minimal row the export worker needs.
type PendingExportTransaction struct {
	ID string
}

// GetTransaction loads a single ledger entry by id for export.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListPendingExport returns ids of entries not yet appended to the export
// sheet, oldest first. Backup path for lost queue messages.
func (r *SQLiteRepository) ListPendingExport(ctx context.Context, limit int) ([]PendingExportTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM transactions WHERE sync_status = 'pending' ORDER BY created_at LIMIT ?", int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	var out []PendingExportTransaction
	for rows.Next() {
		var p PendingExportTransaction
		if err := rows.Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkExported marks an entry as appended to the export sheet.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = 'synced' WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked exported", "id", id)
	return nil
}

// MarkExportError records a failed export attempt; the row stays pending
// error-side so operators can spot it, the sweep will not retry it.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = 'error', sync_attempts = sync_attempts + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

// --- helpers ---

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
