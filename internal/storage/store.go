// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tallyhq/tally/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for expense-ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateParticipant persists a new participant. The ID and CreatedAt
	// fields are populated by the store when unset.
	CreateParticipant(ctx context.Context, p *models.Participant) error

	// GetParticipant retrieves a participant by ID.
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)

	// ListParticipants returns all participants in insertion order.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// DeleteParticipant removes a participant by ID.
	DeleteParticipant(ctx context.Context, id string) error

	// CreateExpense persists a new expense with its splits in one
	// transaction. ID, Date, Version and CreatedAt are defaulted when
	// unset.
	CreateExpense(ctx context.Context, e *models.Expense) error

	// GetExpense retrieves the current version of an expense by ID.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses returns all current-version expenses, newest first.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// UpdateExpense replaces an expense's fields and splits. When the
	// expense is referenced by a completed settlement the previous row is
	// archived and the version incremented; otherwise it is updated in
	// place.
	UpdateExpense(ctx context.Context, e *models.Expense) error

	// DeleteExpense removes an expense; its splits cascade.
	DeleteExpense(ctx context.Context, id string) error

	// CreateSettlement persists a new settlement record.
	CreateSettlement(ctx context.Context, s *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)

	// ListSettlements returns all settlements, newest first.
	ListSettlements(ctx context.Context) ([]models.Settlement, error)

	// MarkSettlementCompleted transitions a settlement to completed,
	// recording the completion time, optional proof URL and the expense
	// created for it.
	MarkSettlementCompleted(ctx context.Context, id, proofURL, expenseID string, completedAt int64) error

	// Close releases any resources held by the store.
	Close() error
}
