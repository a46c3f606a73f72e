package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
)

// GoalService persists savings goals and their contributions. The arithmetic
// and completion rules live on core.Goal.
type GoalService struct {
	goals GoalStore
}

func NewGoalService(goals GoalStore) *GoalService {
	return &GoalService{goals: goals}
}

// CreateGoalInput carries the fields of a new goal. Initial may be zero.
type CreateGoalInput struct {
	Owner    string
	Name     string
	Target   core.Money
	Initial  core.Money
	Deadline core.Date
	Category string
}

func (s *GoalService) Create(ctx context.Context, in CreateGoalInput) (core.Goal, error) {
	g := core.Goal{
		ID:       uuid.NewString(),
		Owner:    in.Owner,
		Name:     strings.TrimSpace(in.Name),
		Target:   in.Target,
		Current:  in.Initial,
		Deadline: in.Deadline,
		Category: in.Category,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}
	if err := s.goals.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"id", g.ID,
		"name", g.Name,
		"target_cents", g.Target.Cents)

	return g, nil
}

// List returns the owner's goals.
func (s *GoalService) List(ctx context.Context, owner string) ([]core.Goal, error) {
	goals, err := s.goals.ListGoals(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Contribute adds a positive amount to the goal's running total and persists
// the result. A non-positive amount leaves the stored goal untouched.
func (s *GoalService) Contribute(ctx context.Context, owner, id string, amount core.Money) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	if g.Owner != owner {
		return core.Goal{}, fmt.Errorf("get goal: %w", core.ErrNotFound)
	}

	updated, err := g.Contribute(amount)
	if err != nil {
		return core.Goal{}, err
	}

	if err := s.goals.UpdateGoal(ctx, updated); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal contribution recorded",
		"id", g.ID,
		"amount_cents", amount.Cents,
		"current_cents", updated.Current.Cents,
		"complete", updated.IsComplete())

	return updated, nil
}
