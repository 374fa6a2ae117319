package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// CreateExpense persists a new expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if e.CreatedAt == 0 {
		e.CreatedAt = now
	}
	if e.Date == 0 {
		e.Date = now
	}
	if e.Version == 0 {
		e.Version = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, date, payer_id, category, notes, proof_of_payment_url, version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, e.Date, e.PayerID,
		nullable(e.Category), nullable(e.Notes), nullable(e.ProofOfPaymentURL), e.Version, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, e.ID, e.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves the current version of an expense, including splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	e := &models.Expense{}
	var category, notes, proofURL sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, date, payer_id, category, notes, proof_of_payment_url, version, created_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.PayerID, &category, &notes, &proofURL, &e.Version, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	e.Category = category.String
	e.Notes = notes.String
	e.ProofOfPaymentURL = proofURL.String

	if e.Splits, err = s.loadSplits(ctx, e.ID); err != nil {
		return nil, err
	}

	return e, nil
}

// ListExpenses returns all current-version expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, date, payer_id, category, notes, proof_of_payment_url, version, created_at
		 FROM expenses ORDER BY date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var category, notes, proofURL sql.NullString

		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.PayerID,
			&category, &notes, &proofURL, &e.Version, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Category = category.String
		e.Notes = notes.String
		e.ProofOfPaymentURL = proofURL.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if expenses[i].Splits, err = s.loadSplits(ctx, expenses[i].ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// UpdateExpense replaces an expense's fields and splits. An expense that is
// referenced by a completed settlement is immutable in place: the previous
// row is archived to expense_revisions and the version incremented, keeping
// the ID stable.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	current, err := s.GetExpense(ctx, e.ID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	referenced, err := expenseReferenced(ctx, tx, e.ID)
	if err != nil {
		return err
	}

	e.Version = current.Version
	if referenced {
		if err := archiveRevision(ctx, tx, current); err != nil {
			return err
		}
		e.Version = current.Version + 1
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, date = ?, payer_id = ?,
		 category = ?, notes = ?, proof_of_payment_url = ?, version = ? WHERE id = ?`,
		e.Description, e.Amount, e.Date, e.PayerID,
		nullable(e.Category), nullable(e.Notes), nullable(e.ProofOfPaymentURL), e.Version, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", e.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, e.ID, e.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; splits cascade via foreign key.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, amount, percentage FROM expense_splits WHERE expense_id = ? ORDER BY rowid",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.ExpenseSplit
	for rows.Next() {
		var split models.ExpenseSplit
		var percentage sql.NullFloat64

		if err := rows.Scan(&split.ParticipantID, &split.Amount, &percentage); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Percentage = percentage.Float64
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, splits []models.ExpenseSplit) error {
	for _, split := range splits {
		var percentage interface{}
		if split.Percentage != 0 {
			percentage = split.Percentage
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, participant_id, amount, percentage) VALUES (?, ?, ?, ?)",
			expenseID, split.ParticipantID, split.Amount, percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// expenseReferenced reports whether any completed settlement points at the
// expense, which freezes it against in-place edits.
func expenseReferenced(ctx context.Context, tx *sql.Tx, expenseID string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM settlements WHERE expense_id = ? AND status = ? LIMIT 1",
		expenseID, string(models.SettlementCompleted),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check settlement references: %w", err)
	}
	return true, nil
}

// archiveRevision copies the current expense row into expense_revisions.
// Splits are stored as a JSON blob; revisions are audit data, never queried
// relationally.
func archiveRevision(ctx context.Context, tx *sql.Tx, e *models.Expense) error {
	splits, err := json.Marshal(e.Splits)
	if err != nil {
		return fmt.Errorf("failed to encode splits: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expense_revisions (expense_id, version, description, amount, date, payer_id, splits, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Version, e.Description, e.Amount, e.Date, e.PayerID, string(splits), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive expense revision: %w", err)
	}
	return nil
}
