package core

import (
	"errors"
	"strings"
	"testing"
)

func validObligation() Obligation {
	return Obligation{
		ID:          "ob-1",
		Owner:       "user-1",
		Description: "Rent",
		Category:    "cat-housing",
		Amount:      Money{Cents: 120000},
		Frequency:   Monthly,
		NextDueDate: NewDate(2024, 7, 1),
		Active:      true,
	}
}

func TestObligation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Obligation)
		wantErr error
	}{
		{"valid", func(o *Obligation) {}, nil},
		{"empty owner", func(o *Obligation) { o.Owner = " " }, ErrEmptyOwner},
		{"empty description", func(o *Obligation) { o.Description = "" }, ErrEmptyDescription},
		{"empty category", func(o *Obligation) { o.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(o *Obligation) { o.Amount = Money{} }, ErrInvalidAmount},
		{"over cap", func(o *Obligation) { o.Amount = Money{Cents: MaxAmountCents + 1} }, ErrInvalidAmount},
		{"unknown frequency", func(o *Obligation) { o.Frequency = "fortnightly" }, ErrInvalidFrequency},
		{"zero due date", func(o *Obligation) { o.NextDueDate = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validObligation()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		o := validObligation()
		o.Description = strings.Repeat("x", 101)
		if err := o.Validate(); err == nil {
			t.Error("Validate() expected error for 101-char description")
		}
	})
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []Frequency{Monthly, Bimonthly, Quarterly, Semiannual, Annual, FifthBusinessDay} {
		if !ValidFrequency(f) {
			t.Errorf("ValidFrequency(%q) = false, want true", f)
		}
	}
	for _, f := range []Frequency{"", "weekly", "MONTHLY", "fifth_business_day"} {
		if ValidFrequency(f) {
			t.Errorf("ValidFrequency(%q) = true, want false", f)
		}
	}
}

func TestGoal_Contribute(t *testing.T) {
	goal := Goal{
		ID:      "g-1",
		Owner:   "user-1",
		Name:    "Emergency fund",
		Target:  Money{Cents: 100000},
		Current: Money{Cents: 90000},
	}

	updated, err := goal.Contribute(Money{Cents: 15000})
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	if updated.Current.Cents != 105000 {
		t.Errorf("Current = %d, want 105000", updated.Current.Cents)
	}
	if !updated.IsComplete() {
		t.Error("IsComplete() = false after passing target, want true")
	}

	// Original value is untouched; Contribute works on a copy.
	if goal.Current.Cents != 90000 {
		t.Errorf("original goal mutated: Current = %d", goal.Current.Cents)
	}

	_, err = goal.Contribute(Money{Cents: -1000})
	if !errors.Is(err, ErrNonPositiveContribution) {
		t.Errorf("Contribute(-10.00) error = %v, want ErrNonPositiveContribution", err)
	}
	_, err = goal.Contribute(Money{})
	if !errors.Is(err, ErrNonPositiveContribution) {
		t.Errorf("Contribute(0) error = %v, want ErrNonPositiveContribution", err)
	}
}

func TestGoal_IsComplete(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		target  int64
		want    bool
	}{
		{"below target", 99999, 100000, false},
		{"exactly at target", 100000, 100000, true},
		{"above target", 105000, 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{Target: Money{Cents: tt.target}, Current: Money{Cents: tt.current}}
			if got := g.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}
