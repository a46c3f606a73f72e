package services

import (
	"context"
	"errors"
	"testing"

	"contas/internal/core"
	"contas/internal/schedule"
)

func TestObligationService_Create_AdvancesPastToday(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	today := core.NewDate(2024, 6, 15)

	o, err := svc.Create(context.Background(), CreateObligationInput{
		Owner:       "user-1",
		Description: "Rent",
		Category:    "cat-housing",
		Amount:      core.Money{Cents: 120000},
		Frequency:   core.Monthly,
		StartDate:   core.NewDate(2024, 1, 10),
	}, today)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !o.NextDueDate.After(today) {
		t.Errorf("NextDueDate = %s, want strictly after %s", o.NextDueDate, today)
	}
	if !o.NextDueDate.Equal(core.NewDate(2024, 7, 10)) {
		t.Errorf("NextDueDate = %s, want 2024-07-10", o.NextDueDate)
	}
	if !o.Active {
		t.Error("new obligation should be active")
	}
	if _, ok := store.obligations[o.ID]; !ok {
		t.Error("obligation not persisted")
	}
}

func TestObligationService_Create_FutureStartDateKept(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	today := core.NewDate(2024, 6, 15)
	start := core.NewDate(2024, 8, 1)

	o, err := svc.Create(context.Background(), CreateObligationInput{
		Owner:       "user-1",
		Description: "Insurance",
		Category:    "cat-housing",
		Amount:      core.Money{Cents: 9900},
		Frequency:   core.Quarterly,
		StartDate:   start,
	}, today)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !o.NextDueDate.Equal(start) {
		t.Errorf("NextDueDate = %s, want the untouched start date %s", o.NextDueDate, start)
	}
}

func TestObligationService_Create_InvalidFrequency(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)

	_, err := svc.Create(context.Background(), CreateObligationInput{
		Owner:       "user-1",
		Description: "Rent",
		Category:    "cat-housing",
		Amount:      core.Money{Cents: 120000},
		Frequency:   "weekly",
		StartDate:   core.NewDate(2024, 1, 10),
	}, core.NewDate(2024, 6, 15))
	if !errors.Is(err, core.ErrInvalidFrequency) {
		t.Errorf("Create() error = %v, want ErrInvalidFrequency", err)
	}
	if len(store.obligations) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func seedObligation(store *memStore, due core.Date, active bool) core.Obligation {
	o := core.Obligation{
		ID:          "ob-1",
		Owner:       "user-1",
		Description: "Rent",
		Category:    "cat-housing",
		Amount:      core.Money{Cents: 120000},
		Frequency:   core.Monthly,
		NextDueDate: due,
		Active:      active,
	}
	store.obligations[o.ID] = o
	return o
}

func TestObligationService_Pay(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	today := core.NewDate(2024, 6, 15)
	due := core.NewDate(2024, 6, 10)
	seedObligation(store, due, true)

	res, err := svc.Pay(context.Background(), "user-1", "ob-1", today)
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}

	txn := res.Transaction
	if txn.Type != core.Expense {
		t.Errorf("transaction type = %s, want expense", txn.Type)
	}
	if !txn.Date.Equal(due) {
		t.Errorf("transaction date = %s, want the scheduled due date %s (not today)", txn.Date, due)
	}
	if txn.Amount.Cents != 120000 || txn.Category != "cat-housing" || txn.Description != "Rent" {
		t.Errorf("transaction fields not copied from obligation: %+v", txn)
	}

	if !res.Obligation.NextDueDate.Equal(core.NewDate(2024, 7, 10)) {
		t.Errorf("new due date = %s, want 2024-07-10", res.Obligation.NextDueDate)
	}
	if got := store.obligations["ob-1"].NextDueDate; !got.Equal(core.NewDate(2024, 7, 10)) {
		t.Errorf("persisted due date = %s, want 2024-07-10", got)
	}
	if len(store.txns) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(store.txns))
	}
	if len(store.published) != 1 || store.published[0] != txn.ID {
		t.Errorf("export publish = %v, want [%s]", store.published, txn.ID)
	}
}

func TestObligationService_Pay_TwiceIsNotIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	today := core.NewDate(2024, 6, 15)
	seedObligation(store, core.NewDate(2024, 6, 10), true)

	first, err := svc.Pay(context.Background(), "user-1", "ob-1", today)
	if err != nil {
		t.Fatalf("first Pay() error = %v", err)
	}
	second, err := svc.Pay(context.Background(), "user-1", "ob-1", today)
	if err != nil {
		t.Fatalf("second Pay() error = %v", err)
	}

	if len(store.txns) != 2 {
		t.Fatalf("ledger has %d entries after two payments, want 2", len(store.txns))
	}
	if first.Transaction.ID == second.Transaction.ID {
		t.Error("both payments produced the same transaction id")
	}
	// The second payment posts at the rolled-forward due date, not the original.
	if !second.Transaction.Date.Equal(core.NewDate(2024, 7, 10)) {
		t.Errorf("second transaction date = %s, want 2024-07-10", second.Transaction.Date)
	}
	if !second.Obligation.NextDueDate.Equal(core.NewDate(2024, 8, 10)) {
		t.Errorf("due date after two payments = %s, want 2024-08-10", second.Obligation.NextDueDate)
	}
}

func TestObligationService_Pay_Inactive(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	seedObligation(store, core.NewDate(2024, 6, 10), false)

	_, err := svc.Pay(context.Background(), "user-1", "ob-1", core.NewDate(2024, 6, 15))
	if !errors.Is(err, core.ErrInactiveObligation) {
		t.Errorf("Pay() error = %v, want ErrInactiveObligation", err)
	}
	if len(store.txns) != 0 {
		t.Error("no ledger entry should be written for an inactive obligation")
	}
}

func TestObligationService_Pay_LedgerFailureLeavesObligationUntouched(t *testing.T) {
	store := newMemStore()
	store.failLedgerInsert = true
	svc := NewObligationService(store, store, store)
	due := core.NewDate(2024, 6, 10)
	seedObligation(store, due, true)

	_, err := svc.Pay(context.Background(), "user-1", "ob-1", core.NewDate(2024, 6, 15))
	if !errors.Is(err, core.ErrLedgerWriteFailed) {
		t.Fatalf("Pay() error = %v, want ErrLedgerWriteFailed", err)
	}

	if got := store.obligations["ob-1"].NextDueDate; !got.Equal(due) {
		t.Errorf("due date = %s after failed payment, want unchanged %s", got, due)
	}
	if len(store.published) != 0 {
		t.Error("nothing should be queued for export when the payment fails")
	}
}

func TestObligationService_Pay_WrongOwner(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	seedObligation(store, core.NewDate(2024, 6, 10), true)

	_, err := svc.Pay(context.Background(), "user-2", "ob-1", core.NewDate(2024, 6, 15))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Pay() error = %v, want ErrNotFound for another owner's obligation", err)
	}
}

func TestObligationService_ListWithStatus(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	today := core.NewDate(2024, 6, 15)

	store.obligations["a"] = core.Obligation{ID: "a", Owner: "user-1", Active: true, NextDueDate: core.NewDate(2024, 6, 12)}
	store.obligations["b"] = core.Obligation{ID: "b", Owner: "user-1", Active: true, NextDueDate: core.NewDate(2024, 6, 20)}
	store.obligations["c"] = core.Obligation{ID: "c", Owner: "user-1", Active: true, NextDueDate: core.NewDate(2024, 8, 1)}
	store.obligations["d"] = core.Obligation{ID: "d", Owner: "user-1", Active: false, NextDueDate: core.NewDate(2024, 6, 1)}
	store.obligations["e"] = core.Obligation{ID: "e", Owner: "user-2", Active: true, NextDueDate: core.NewDate(2024, 6, 1)}

	got, err := svc.ListWithStatus(context.Background(), "user-1", today)
	if err != nil {
		t.Fatalf("ListWithStatus() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListWithStatus() returned %d obligations, want 3 (inactive and foreign excluded)", len(got))
	}

	want := map[string]schedule.Bucket{
		"a": schedule.Overdue,
		"b": schedule.DueSoon,
		"c": schedule.Scheduled,
	}
	for _, os := range got {
		if os.Status.Bucket != want[os.Obligation.ID] {
			t.Errorf("obligation %s bucket = %s, want %s", os.Obligation.ID, os.Status.Bucket, want[os.Obligation.ID])
		}
	}
}

func TestObligationService_Update_OverridesDueDate(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	seedObligation(store, core.NewDate(2024, 7, 10), true)

	// Owner edits may set an arbitrary due date, including one in the past.
	o, err := svc.Update(context.Background(), "user-1", "ob-1", UpdateObligationInput{
		Description: "Rent (renegotiated)",
		Category:    "cat-housing",
		Amount:      core.Money{Cents: 110000},
		Frequency:   core.Monthly,
		NextDueDate: core.NewDate(2024, 1, 5),
		Active:      true,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !o.NextDueDate.Equal(core.NewDate(2024, 1, 5)) {
		t.Errorf("NextDueDate = %s, want the override 2024-01-05", o.NextDueDate)
	}
	if store.obligations["ob-1"].Amount.Cents != 110000 {
		t.Error("amount change not persisted")
	}
}

func TestObligationService_Deactivate(t *testing.T) {
	store := newMemStore()
	svc := NewObligationService(store, store, store)
	seedObligation(store, core.NewDate(2024, 7, 10), true)

	if err := svc.Deactivate(context.Background(), "user-1", "ob-1"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if store.obligations["ob-1"].Active {
		t.Error("obligation still active after Deactivate")
	}

	got, err := svc.ListWithStatus(context.Background(), "user-1", core.NewDate(2024, 6, 15))
	if err != nil {
		t.Fatalf("ListWithStatus() error = %v", err)
	}
	if len(got) != 0 {
		t.Error("deactivated obligation still visible in reads")
	}
}
