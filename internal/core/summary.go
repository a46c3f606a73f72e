package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact dashboard summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Income     Money
	Expenses   Money
	ByCategory []CategoryAmount
}

// SumExpenses sums the expense transactions whose category id is in
// categoryIDs and whose date falls inside [from, to] inclusive. Income
// entries and out-of-window dates never count. The SQLite store does this
// aggregation in SQL; in-memory ledger implementations build on this.
func SumExpenses(txns []Transaction, categoryIDs []string, from, to Date) Money {
	ids := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		ids[id] = struct{}{}
	}

	var total int64
	for _, t := range txns {
		if t.Type != Expense {
			continue
		}
		if _, ok := ids[t.Category]; !ok {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		total += t.Amount.Cents
	}
	return Money{Cents: total}
}
