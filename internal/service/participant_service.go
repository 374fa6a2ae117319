package service

import (
	"context"
	"log/slog"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// ParticipantService owns the participant roster.
type ParticipantService struct {
	store storage.Store
}

// NewParticipantService creates a ParticipantService with the given storage
// backend.
func NewParticipantService(store storage.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

// Add validates and persists a participant.
func (s *ParticipantService) Add(ctx context.Context, p *models.Participant) error {
	if err := p.Validate(); err != nil {
		slog.Warn("participant rejected", "name", p.Name, "kind", p.Kind, "error", err)
		return err
	}
	if err := s.store.CreateParticipant(ctx, p); err != nil {
		slog.Error("CreateParticipant failed", "error", err)
		return err
	}
	slog.Info("participant added", "participant_id", p.ID, "kind", p.Kind)
	return nil
}

// Get retrieves a participant by ID.
func (s *ParticipantService) Get(ctx context.Context, id string) (*models.Participant, error) {
	return s.store.GetParticipant(ctx, id)
}

// List returns all participants in insertion order.
func (s *ParticipantService) List(ctx context.Context) ([]models.Participant, error) {
	return s.store.ListParticipants(ctx)
}

// Remove deletes a participant. Their past expenses are kept; balance
// computations simply skip ids that no longer resolve.
func (s *ParticipantService) Remove(ctx context.Context, id string) error {
	if err := s.store.DeleteParticipant(ctx, id); err != nil {
		slog.Error("DeleteParticipant failed", "participant_id", id, "error", err)
		return err
	}
	slog.Info("participant removed", "participant_id", id)
	return nil
}
