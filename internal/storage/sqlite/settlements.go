package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, from_id, to_id, amount, status, proof_of_payment_url, expense_id, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.FromID, settlement.ToID, settlement.Amount, string(settlement.Status),
		nullable(settlement.ProofOfPaymentURL), nullable(settlement.ExpenseID),
		settlement.CreatedAt, nullableInt(settlement.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var proofURL, expenseID sql.NullString
	var completedAt sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, from_id, to_id, amount, status, proof_of_payment_url, expense_id, created_at, completed_at
		 FROM settlements WHERE id = ?`,
		id,
	).Scan(&settlement.ID, &settlement.FromID, &settlement.ToID, &settlement.Amount,
		&status, &proofURL, &expenseID, &settlement.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	settlement.Status = models.SettlementStatus(status)
	settlement.ProofOfPaymentURL = proofURL.String
	settlement.ExpenseID = expenseID.String
	settlement.CompletedAt = completedAt.Int64
	return settlement, nil
}

// ListSettlements returns all settlements, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_id, to_id, amount, status, proof_of_payment_url, expense_id, created_at, completed_at
		 FROM settlements ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var settlement models.Settlement
		var status string
		var proofURL, expenseID sql.NullString
		var completedAt sql.NullInt64

		if err := rows.Scan(&settlement.ID, &settlement.FromID, &settlement.ToID, &settlement.Amount,
			&status, &proofURL, &expenseID, &settlement.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.Status = models.SettlementStatus(status)
		settlement.ProofOfPaymentURL = proofURL.String
		settlement.ExpenseID = expenseID.String
		settlement.CompletedAt = completedAt.Int64
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// MarkSettlementCompleted transitions a settlement to completed.
func (s *SQLiteStore) MarkSettlementCompleted(ctx context.Context, id, proofURL, expenseID string, completedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settlements SET status = ?, proof_of_payment_url = COALESCE(?, proof_of_payment_url),
		 expense_id = ?, completed_at = ? WHERE id = ?`,
		string(models.SettlementCompleted), nullable(proofURL), expenseID, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("settlement %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func nullableInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
