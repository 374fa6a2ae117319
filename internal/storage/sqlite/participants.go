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

// CreateParticipant persists a new participant to the database.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, name, kind, email, avatar_url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, string(p.Kind), nullable(p.Email), nullable(p.AvatarURL), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return nil
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	p := &models.Participant{}
	var kind string
	var email, avatarURL sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, kind, email, avatar_url, created_at FROM participants WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &kind, &email, &avatarURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("participant %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	p.Kind = models.ParticipantKind(kind)
	p.Email = email.String
	p.AvatarURL = avatarURL.String
	return p, nil
}

// ListParticipants returns all participants in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, kind, email, avatar_url, created_at FROM participants ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var kind string
		var email, avatarURL sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &kind, &email, &avatarURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Kind = models.ParticipantKind(kind)
		p.Email = email.String
		p.AvatarURL = avatarURL.String
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// DeleteParticipant removes a participant by ID.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("participant %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// nullable maps empty strings to NULL so optional columns stay NULL in the
// database.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
