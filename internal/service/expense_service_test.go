package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage/sqlite"
)

// newTestStore creates a sqlite store on a temp database.
func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tally-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExpenseValidation(t *testing.T) {
	svc := NewExpenseService(newTestStore(t))
	ctx := context.Background()

	valid := func() *models.Expense {
		return &models.Expense{
			Description: "Dinner",
			Amount:      90,
			PayerID:     "you",
			Splits: []models.ExpenseSplit{
				{ParticipantID: "you", Amount: 30},
				{ParticipantID: "alex", Amount: 30},
				{ParticipantID: "taylor", Amount: 30},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(e *models.Expense)
		wantErr error
	}{
		{
			name:   "valid expense passes",
			mutate: func(e *models.Expense) {},
		},
		{
			name:    "empty description",
			mutate:  func(e *models.Expense) { e.Description = "" },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "zero amount",
			mutate:  func(e *models.Expense) { e.Amount = 0 },
			wantErr: ErrNonPositive,
		},
		{
			name:    "no splits",
			mutate:  func(e *models.Expense) { e.Splits = nil },
			wantErr: ErrNoSplits,
		},
		{
			name: "splits do not sum to amount",
			mutate: func(e *models.Expense) {
				e.Splits[0].Amount = 10
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name: "split sum within epsilon passes",
			mutate: func(e *models.Expense) {
				e.Splits[0].Amount = 29.995 // off by 0.005, inside tolerance
			},
		},
		{
			name: "duplicate split participant",
			mutate: func(e *models.Expense) {
				e.Splits[1].ParticipantID = "you"
			},
			wantErr: ErrDuplicateSplit,
		},
		{
			name: "negative split amount",
			mutate: func(e *models.Expense) {
				e.Splits[0].Amount = -30
				e.Splits[1].Amount = 90
			},
			wantErr: ErrNegativeSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)

			err := svc.Create(ctx, e)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpenseUpdateKeepsID(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	e := &models.Expense{
		Description: "Lunch",
		Amount:      20,
		PayerID:     "you",
		Splits:      []models.ExpenseSplit{{ParticipantID: "alex", Amount: 20}},
	}
	if err := svc.Create(ctx, e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id := e.ID

	e.Amount = 24
	e.Splits = []models.ExpenseSplit{{ParticipantID: "alex", Amount: 24}}
	if err := svc.Update(ctx, e); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != id || got.Amount != 24 {
		t.Errorf("got %+v, want same id with amount 24", got)
	}
}
