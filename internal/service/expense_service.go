// Package service implements the application boundary: it validates input,
// orchestrates storage, and invokes the calculation engine. The engine
// itself trusts its inputs; everything that can be malformed is rejected
// here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tallyhq/tally/internal/calculator"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

var (
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrNonPositive      = errors.New("amount must be greater than zero")
	ErrNoSplits         = errors.New("at least one split is required")
	ErrSplitMismatch    = errors.New("splits must sum to the expense amount")
	ErrDuplicateSplit   = errors.New("duplicate participant in splits")
	ErrNegativeSplit    = errors.New("split amounts must not be negative")
)

// ExpenseService owns expense CRUD and its boundary validation.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// validateExpense enforces the authoring rules: non-empty description,
// positive amount, at least one split, non-negative split amounts, no
// duplicate split participants, and splits summing to the total within the
// engine's epsilon.
func validateExpense(e *models.Expense) error {
	if e.Description == "" {
		return ErrEmptyDescription
	}
	if e.Amount <= 0 {
		return ErrNonPositive
	}
	if len(e.Splits) == 0 {
		return ErrNoSplits
	}

	seen := make(map[string]bool, len(e.Splits))
	var sum float64
	for _, split := range e.Splits {
		if split.Amount < 0 {
			return ErrNegativeSplit
		}
		if seen[split.ParticipantID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSplit, split.ParticipantID)
		}
		seen[split.ParticipantID] = true
		sum += split.Amount
	}

	if math.Abs(sum-e.Amount) > calculator.Epsilon {
		return fmt.Errorf("%w: splits total %.2f, expense amount %.2f", ErrSplitMismatch, sum, e.Amount)
	}
	return nil
}

// Create validates and persists a new expense.
func (s *ExpenseService) Create(ctx context.Context, e *models.Expense) error {
	if err := validateExpense(e); err != nil {
		slog.Warn("expense rejected", "description", e.Description, "error", err)
		return err
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return err
	}
	slog.Info("expense created", "expense_id", e.ID, "amount", e.Amount, "payer_id", e.PayerID)
	return nil
}

// Get retrieves an expense by ID.
func (s *ExpenseService) Get(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// List returns all expenses, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	return s.store.ListExpenses(ctx)
}

// Update validates and stores an edited expense. Storage decides whether the
// edit versions the expense or replaces it in place.
func (s *ExpenseService) Update(ctx context.Context, e *models.Expense) error {
	if err := validateExpense(e); err != nil {
		slog.Warn("expense update rejected", "expense_id", e.ID, "error", err)
		return err
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", e.ID, "error", err)
		return err
	}
	slog.Info("expense updated", "expense_id", e.ID, "version", e.Version)
	return nil
}

// Delete removes an expense and its splits.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", id, "error", err)
		return err
	}
	slog.Info("expense deleted", "expense_id", id)
	return nil
}
