package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
	"contas/internal/schedule"
)

// ObligationService owns the recurring-obligation lifecycle: creation with
// roll-forward past today, due-status reads, payment (the obligation ledger
// bridge), overrides and removal.
type ObligationService struct {
	obligations ObligationStore
	payments    PaymentRecorder
	publisher   ExportPublisher
}

func NewObligationService(obligations ObligationStore, payments PaymentRecorder, publisher ExportPublisher) *ObligationService {
	return &ObligationService{
		obligations: obligations,
		payments:    payments,
		publisher:   publisher,
	}
}

// CreateObligationInput carries the owner-supplied fields of a new obligation.
// StartDate may lie in the past; elapsed occurrences are skipped.
type CreateObligationInput struct {
	Owner       string
	Description string
	Category    string
	Amount      core.Money
	Frequency   core.Frequency
	StartDate   core.Date
}

// Create builds a new active obligation whose first due date is the first
// occurrence of StartDate's schedule strictly after today.
func (s *ObligationService) Create(ctx context.Context, in CreateObligationInput, today core.Date) (core.Obligation, error) {
	nextDue, err := schedule.AdvanceUntilFuture(in.StartDate, in.Frequency, today)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("advance start date: %w", err)
	}

	o := core.Obligation{
		ID:          uuid.NewString(),
		Owner:       in.Owner,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Amount:      in.Amount,
		Frequency:   in.Frequency,
		NextDueDate: nextDue,
		Active:      true,
	}
	if err := o.Validate(); err != nil {
		return core.Obligation{}, fmt.Errorf("validate obligation: %w", err)
	}

	if err := s.obligations.Create(ctx, o); err != nil {
		return core.Obligation{}, fmt.Errorf("create obligation: %w", err)
	}

	slog.InfoContext(ctx, "Obligation created",
		"id", o.ID,
		"description", o.Description,
		"frequency", o.Frequency,
		"next_due", o.NextDueDate.String())

	return o, nil
}

// ObligationStatus pairs an obligation with its due-status classification.
type ObligationStatus struct {
	Obligation core.Obligation
	Status     schedule.Status
}

// ListWithStatus returns the owner's active obligations, each classified
// against today. Inactive obligations are excluded from all reads.
func (s *ObligationService) ListWithStatus(ctx context.Context, owner string, today core.Date) ([]ObligationStatus, error) {
	obligations, err := s.obligations.ListActive(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}

	out := make([]ObligationStatus, len(obligations))
	for i, o := range obligations {
		out[i] = ObligationStatus{
			Obligation: o,
			Status:     schedule.Classify(o.NextDueDate, today),
		}
	}
	return out, nil
}

// PayResult carries both sides of a successful payment so callers can
// refresh derived views without re-fetching.
type PayResult struct {
	Transaction core.Transaction
	Obligation  core.Obligation
}

// Pay converts the obligation's pending occurrence into a ledger entry and
// rolls the due date forward, atomically. The transaction is dated at the
// obligation's scheduled due date, not at the payment action date. Pay is
// deliberately not idempotent: each call posts one entry and advances once.
func (s *ObligationService) Pay(ctx context.Context, owner, id string, today core.Date) (PayResult, error) {
	o, err := s.obligations.Get(ctx, id)
	if err != nil {
		return PayResult{}, fmt.Errorf("get obligation: %w", err)
	}
	if o.Owner != owner {
		return PayResult{}, fmt.Errorf("get obligation: %w", core.ErrNotFound)
	}
	if !o.Active {
		return PayResult{}, core.ErrInactiveObligation
	}

	newDue, err := schedule.AdvanceAfterPayment(o.NextDueDate, o.Frequency, today)
	if err != nil {
		return PayResult{}, fmt.Errorf("advance due date: %w", err)
	}

	txn := core.Transaction{
		ID:          uuid.NewString(),
		Owner:       o.Owner,
		Type:        core.Expense,
		Description: o.Description,
		Category:    o.Category,
		Amount:      o.Amount,
		Date:        o.NextDueDate,
	}

	if err := s.payments.RecordPayment(ctx, txn, o.ID, newDue); err != nil {
		return PayResult{}, fmt.Errorf("record payment: %w", err)
	}

	slog.InfoContext(ctx, "Obligation paid",
		"id", o.ID,
		"transaction_id", txn.ID,
		"paid_date", txn.Date.String(),
		"next_due", newDue.String())

	// Queue the posted entry for export. Best-effort: the payment is already
	// committed and the worker's periodic sweep picks up anything missed.
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionPosted(ctx, txn.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"transaction_id", txn.ID, "error", err)
		}
	}

	o.NextDueDate = newDue
	return PayResult{Transaction: txn, Obligation: o}, nil
}

// UpdateObligationInput carries an owner edit. Any field may change,
// including an arbitrary due-date override.
type UpdateObligationInput struct {
	Description string
	Category    string
	Amount      core.Money
	Frequency   core.Frequency
	NextDueDate core.Date
	Active      bool
}

// Update overwrites the obligation's editable fields.
func (s *ObligationService) Update(ctx context.Context, owner, id string, in UpdateObligationInput) (core.Obligation, error) {
	o, err := s.obligations.Get(ctx, id)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("get obligation: %w", err)
	}
	if o.Owner != owner {
		return core.Obligation{}, fmt.Errorf("get obligation: %w", core.ErrNotFound)
	}

	o.Description = strings.TrimSpace(in.Description)
	o.Category = in.Category
	o.Amount = in.Amount
	o.Frequency = in.Frequency
	o.NextDueDate = in.NextDueDate
	o.Active = in.Active

	if err := o.Validate(); err != nil {
		return core.Obligation{}, fmt.Errorf("validate obligation: %w", err)
	}
	if err := s.obligations.Update(ctx, o); err != nil {
		return core.Obligation{}, fmt.Errorf("update obligation: %w", err)
	}
	return o, nil
}

// Deactivate soft-deletes the obligation; it disappears from all reads but
// its posted ledger entries remain.
func (s *ObligationService) Deactivate(ctx context.Context, owner, id string) error {
	o, err := s.obligations.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get obligation: %w", err)
	}
	if o.Owner != owner {
		return fmt.Errorf("get obligation: %w", core.ErrNotFound)
	}
	if err := s.obligations.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate obligation: %w", err)
	}
	return nil
}

// Delete hard-deletes the obligation.
func (s *ObligationService) Delete(ctx context.Context, owner, id string) error {
	o, err := s.obligations.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get obligation: %w", err)
	}
	if o.Owner != owner {
		return fmt.Errorf("get obligation: %w", core.ErrNotFound)
	}
	if err := s.obligations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete obligation: %w", err)
	}
	return nil
}
