package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyhq/tally/internal/calculator"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

var (
	ErrUnknownViewpoint    = errors.New("viewpoint participant not found")
	ErrSelfSettlement      = errors.New("settlement must involve two different participants")
	ErrAlreadyCompleted    = errors.New("settlement already completed")
	ErrUnknownParticipants = errors.New("settlement participants not found")
)

// LedgerService computes balances, plans settlements, and records the
// completed ones back into the expense ledger.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// snapshot loads the read-only inputs the engine needs.
func (s *LedgerService) snapshot(ctx context.Context, viewpointID string) ([]models.Expense, []models.Participant, error) {
	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, nil, err
	}

	known := false
	for _, p := range participants {
		if p.ID == viewpointID {
			known = true
			break
		}
	}
	if !known {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownViewpoint, viewpointID)
	}

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, nil, err
	}
	return expenses, participants, nil
}

// Balances recomputes the viewpoint-relative balance sheet from the full
// expense history.
func (s *LedgerService) Balances(ctx context.Context, viewpointID string) ([]models.Balance, error) {
	expenses, participants, err := s.snapshot(ctx, viewpointID)
	if err != nil {
		return nil, err
	}
	return calculator.CalculateBalances(expenses, participants, viewpointID), nil
}

// SuggestSettlements plans the minimal transfer set for the current
// balances. The suggestions are not persisted; clients record the ones that
// actually happen via RecordSettlement.
func (s *LedgerService) SuggestSettlements(ctx context.Context, viewpointID string) ([]models.Settlement, error) {
	balances, err := s.Balances(ctx, viewpointID)
	if err != nil {
		return nil, err
	}
	plan := calculator.PlanSettlements(balances, viewpointID)
	slog.Debug("settlement plan computed", "viewpoint_id", viewpointID, "transfers", len(plan))
	return plan, nil
}

// RecordSettlement persists a pending settlement between two participants.
func (s *LedgerService) RecordSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.FromID == settlement.ToID {
		return ErrSelfSettlement
	}
	if settlement.Amount <= 0 {
		return ErrNonPositive
	}
	for _, id := range []string{settlement.FromID, settlement.ToID} {
		if _, err := s.store.GetParticipant(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownParticipants, id)
			}
			return err
		}
	}

	settlement.Status = models.SettlementPending
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "error", err)
		return err
	}
	slog.Info("settlement recorded", "settlement_id", settlement.ID,
		"from_id", settlement.FromID, "to_id", settlement.ToID, "amount", settlement.Amount)
	return nil
}

// ListSettlements returns all recorded settlements, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context) ([]models.Settlement, error) {
	return s.store.ListSettlements(ctx)
}

// CompleteSettlement marks a settlement as paid and closes the loop: the
// payment is recorded as a new expense with the payer as FromID and a single
// split crediting ToID, so future balance computations see the debt as
// cleared.
func (s *LedgerService) CompleteSettlement(ctx context.Context, id, proofURL string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement.Status == models.SettlementCompleted {
		return nil, ErrAlreadyCompleted
	}

	expense := &models.Expense{
		Description: fmt.Sprintf("Settlement: %s paid %s", settlement.FromID, settlement.ToID),
		Amount:      settlement.Amount,
		PayerID:     settlement.FromID,
		Category:    "settlement",
		Splits: []models.ExpenseSplit{
			{ParticipantID: settlement.ToID, Amount: settlement.Amount},
		},
		ProofOfPaymentURL: proofURL,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("failed to record settlement expense", "settlement_id", id, "error", err)
		return nil, err
	}

	completedAt := time.Now().Unix()
	if err := s.store.MarkSettlementCompleted(ctx, id, proofURL, expense.ID, completedAt); err != nil {
		slog.Error("MarkSettlementCompleted failed", "settlement_id", id, "error", err)
		return nil, err
	}

	settlement.Status = models.SettlementCompleted
	settlement.ExpenseID = expense.ID
	settlement.CompletedAt = completedAt
	if proofURL != "" {
		settlement.ProofOfPaymentURL = proofURL
	}
	slog.Info("settlement completed", "settlement_id", id, "expense_id", expense.ID)
	return settlement, nil
}
