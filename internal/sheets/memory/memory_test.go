package memory

import (
	"context"
	"testing"

	"contas/internal/core"
)

func validTransaction() core.Transaction {
	return core.Transaction{
		ID:          "txn-1",
		Owner:       "user-1",
		Type:        core.Expense,
		Description: "Aluguel",
		Category:    "cat-moradia",
		Amount:      core.Money{Cents: 150000},
		Date:        core.NewDate(2024, 6, 5),
	}
}

func TestStore_Append(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), validTransaction())
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("Append() ref = %q, want %q", ref, "mem:1")
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("Items() len = %d, want 1", len(items))
	}
	if items[0].ID != "txn-1" {
		t.Errorf("stored ID = %q, want %q", items[0].ID, "txn-1")
	}
}

func TestStore_AppendRejectsInvalid(t *testing.T) {
	s := New()

	bad := validTransaction()
	bad.Description = ""

	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Error("Append() should reject an invalid transaction")
	}
	if len(s.Items()) != 0 {
		t.Error("invalid transaction must not be stored")
	}
}
