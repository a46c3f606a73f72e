package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"1000000", 100_000_000, false},
		{"1000000.01", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSumExpenses(t *testing.T) {
	today := NewDate(2024, 6, 15)
	from := NewDate(2024, 6, 1)
	to := NewDate(2024, 6, 30)

	txns := []Transaction{
		{Type: Expense, Category: "cat-housing", Amount: Money{Cents: 50000}, Date: today},
		{Type: Expense, Category: "cat-housing", Amount: Money{Cents: 30000}, Date: NewDate(2024, 6, 2)},
		{Type: Expense, Category: "cat-housing", Amount: Money{Cents: 10000}, Date: NewDate(2024, 5, 20)},
		{Type: Expense, Category: "cat-food", Amount: Money{Cents: 7000}, Date: today},
		{Type: Income, Category: "cat-housing", Amount: Money{Cents: 99999}, Date: today},
	}

	got := SumExpenses(txns, []string{"cat-housing"}, from, to)
	if got.Cents != 80000 {
		t.Errorf("SumExpenses() = %d, want 80000 (out-of-month and income rows excluded)", got.Cents)
	}

	// Two ids sharing one display name both count.
	got = SumExpenses(txns, []string{"cat-housing", "cat-food"}, from, to)
	if got.Cents != 87000 {
		t.Errorf("SumExpenses() with two ids = %d, want 87000", got.Cents)
	}

	got = SumExpenses(txns, nil, from, to)
	if got.Cents != 0 {
		t.Errorf("SumExpenses() with no ids = %d, want 0", got.Cents)
	}
}
