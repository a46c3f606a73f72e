package core

import (
	"errors"
	"strings"
)

// Frequency is the schedule tag of a recurring obligation.
const (
	Monthly          Frequency = "monthly"
	Bimonthly        Frequency = "bimonthly"
	Quarterly        Frequency = "quarterly"
	Semiannual       Frequency = "semiannual"
	Annual           Frequency = "annual"
	FifthBusinessDay Frequency = "fifth-business-day"
)

// TransactionType distinguishes ledger entries.
const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// BudgetPeriod is the window a budget limit is evaluated against.
const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodAnnual  BudgetPeriod = "annual"
)

type (
	Frequency       string
	TransactionType string
	BudgetPeriod    string

	// Obligation is a recurring expense commitment with a schedule.
	// NextDueDate is advanced past "today" at creation and on every payment;
	// it is never moved by a background process.
	Obligation struct {
		ID          string
		Owner       string
		Description string
		Category    string // expense category id
		Amount      Money
		Frequency   Frequency
		NextDueDate Date
		Active      bool
	}

	// Transaction is a posted ledger entry.
	Transaction struct {
		ID          string
		Owner       string
		Type        TransactionType
		Description string
		Category    string // category id
		Amount      Money
		Date        Date
	}

	// Budget is a spending limit for a category display name over a period.
	// Spend against it is always computed from the ledger, never stored.
	Budget struct {
		ID       string
		Owner    string
		Category string // display name, resolved to category ids at read time
		Limit    Money
		Period   BudgetPeriod
	}

	// Goal is a savings target. Deadline and Category are descriptive only.
	Goal struct {
		ID       string
		Owner    string
		Name     string
		Target   Money
		Current  Money
		Deadline Date   // optional
		Category string // optional label
	}

	// Category is a transaction category. Owner is empty for built-in
	// defaults shared by every user.
	Category struct {
		ID    string
		Owner string
		Name  string
		Type  TransactionType
	}
)

var (
	ErrInvalidFrequency        = errors.New("invalid frequency")
	ErrInactiveObligation      = errors.New("obligation is inactive")
	ErrNonPositiveContribution = errors.New("contribution must be positive")
	ErrLedgerWriteFailed       = errors.New("ledger write failed")
	ErrWriteFailed             = errors.New("write failed")
	ErrNotFound                = errors.New("not found")

	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrEmptyDescription       = errors.New("empty description")
	ErrEmptyCategory          = errors.New("empty category")
	ErrEmptyOwner             = errors.New("empty owner")
	ErrDescriptionTooLong     = errors.New("description too long (max 100 characters)")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidBudgetPeriod    = errors.New("invalid budget period")
)

// ValidFrequency reports whether f is one of the recognized schedule tags.
// There is no default: an unrecognized tag is always an error.
func ValidFrequency(f Frequency) bool {
	switch f {
	case Monthly, Bimonthly, Quarterly, Semiannual, Annual, FifthBusinessDay:
		return true
	}
	return false
}

const maxDescriptionLen = 100

func (o Obligation) Validate() error {
	if strings.TrimSpace(o.Owner) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(o.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(o.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(o.Category) == "" {
		return ErrEmptyCategory
	}
	if err := o.Amount.Validate(); err != nil {
		return err
	}
	if !ValidFrequency(o.Frequency) {
		return ErrInvalidFrequency
	}
	return o.NextDueDate.Validate()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidTransactionType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.Period != PeriodMonthly && b.Period != PeriodAnnual {
		return ErrInvalidBudgetPeriod
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Owner) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyDescription
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Contribute returns a copy of g with amount added to its current total.
// Contributions must be strictly positive; the goal comes back unchanged
// alongside ErrNonPositiveContribution otherwise. Completed goals keep
// accepting contributions, there is no automatic reset.
func (g Goal) Contribute(amount Money) (Goal, error) {
	if amount.Cents <= 0 {
		return g, ErrNonPositiveContribution
	}
	g.Current = Money{Cents: g.Current.Cents + amount.Cents}
	return g, nil
}

// IsComplete reports whether the goal has reached its target.
func (g Goal) IsComplete() bool {
	return g.Current.Cents >= g.Target.Cents
}
