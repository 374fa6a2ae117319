package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tallyhq/tally/internal/calculator"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// seedRoster adds the named contacts and returns their generated ids keyed
// by name.
func seedRoster(t *testing.T, store storage.Store, names ...string) map[string]string {
	t.Helper()
	ctx := context.Background()

	ids := make(map[string]string, len(names))
	for _, name := range names {
		p := models.NewContact(name)
		if err := store.CreateParticipant(ctx, &p); err != nil {
			t.Fatalf("seed participant %s: %v", name, err)
		}
		ids[name] = p.ID
	}
	return ids
}

func TestLedgerBalancesAndSuggestions(t *testing.T) {
	store := newTestStore(t)
	ids := seedRoster(t, store, "you", "alex", "taylor")
	ctx := context.Background()

	expenses := NewExpenseService(store)
	ledger := NewLedgerService(store)

	err := expenses.Create(ctx, &models.Expense{
		Description: "Dinner",
		Amount:      90,
		PayerID:     ids["you"],
		Splits: []models.ExpenseSplit{
			{ParticipantID: ids["you"], Amount: 30},
			{ParticipantID: ids["alex"], Amount: 30},
			{ParticipantID: ids["taylor"], Amount: 30},
		},
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	balances, err := ledger.Balances(ctx, ids["you"])
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	want := map[string]float64{ids["alex"]: 30, ids["taylor"]: 30}
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}
	for _, b := range balances {
		if math.Abs(b.Amount-want[b.ParticipantID]) > calculator.Epsilon {
			t.Errorf("balance[%s] = %v, want %v", b.ParticipantID, b.Amount, want[b.ParticipantID])
		}
	}

	plan, err := ledger.SuggestSettlements(ctx, ids["you"])
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("got %d suggestions %v, want 2", len(plan), plan)
	}
	for _, s := range plan {
		if s.ToID != ids["you"] {
			t.Errorf("suggestion %s->%s: debtors should pay the viewpoint user", s.FromID, s.ToID)
		}
		if math.Abs(s.Amount-30) > calculator.Epsilon {
			t.Errorf("suggestion amount = %v, want 30", s.Amount)
		}
	}
}

func TestLedgerUnknownViewpoint(t *testing.T) {
	store := newTestStore(t)
	seedRoster(t, store, "you")
	ledger := NewLedgerService(store)

	if _, err := ledger.Balances(context.Background(), "nobody"); !errors.Is(err, ErrUnknownViewpoint) {
		t.Errorf("expected ErrUnknownViewpoint, got %v", err)
	}
}

func TestCompleteSettlementClosesTheLoop(t *testing.T) {
	store := newTestStore(t)
	ids := seedRoster(t, store, "you", "alex")
	ctx := context.Background()

	expenses := NewExpenseService(store)
	ledger := NewLedgerService(store)

	err := expenses.Create(ctx, &models.Expense{
		Description: "Concert tickets",
		Amount:      80,
		PayerID:     ids["you"],
		Splits: []models.ExpenseSplit{
			{ParticipantID: ids["you"], Amount: 40},
			{ParticipantID: ids["alex"], Amount: 40},
		},
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	settlement := &models.Settlement{FromID: ids["alex"], ToID: ids["you"], Amount: 40}
	if err := ledger.RecordSettlement(ctx, settlement); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	completed, err := ledger.CompleteSettlement(ctx, settlement.ID, "https://proof.example/x.jpg")
	if err != nil {
		t.Fatalf("CompleteSettlement failed: %v", err)
	}
	if completed.Status != models.SettlementCompleted || completed.ExpenseID == "" {
		t.Fatalf("completed settlement = %+v", completed)
	}

	// The recorded payment must zero the balance sheet.
	balances, err := ledger.Balances(ctx, ids["you"])
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	for _, b := range balances {
		if math.Abs(b.Amount) > calculator.Epsilon {
			t.Errorf("balance[%s] = %v after settlement, want 0", b.ParticipantID, b.Amount)
		}
	}

	// Completing twice is rejected.
	if _, err := ledger.CompleteSettlement(ctx, settlement.ID, ""); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestRecordSettlementValidation(t *testing.T) {
	store := newTestStore(t)
	ids := seedRoster(t, store, "you", "alex")
	ledger := NewLedgerService(store)
	ctx := context.Background()

	if err := ledger.RecordSettlement(ctx, &models.Settlement{FromID: ids["you"], ToID: ids["you"], Amount: 5}); !errors.Is(err, ErrSelfSettlement) {
		t.Errorf("expected ErrSelfSettlement, got %v", err)
	}
	if err := ledger.RecordSettlement(ctx, &models.Settlement{FromID: ids["you"], ToID: ids["alex"], Amount: 0}); !errors.Is(err, ErrNonPositive) {
		t.Errorf("expected ErrNonPositive, got %v", err)
	}
	if err := ledger.RecordSettlement(ctx, &models.Settlement{FromID: ids["you"], ToID: "ghost", Amount: 5}); !errors.Is(err, ErrUnknownParticipants) {
		t.Errorf("expected ErrUnknownParticipants, got %v", err)
	}
}
