package unavailability

import (
	"context"
	"time"

	domain "trainerweb/internal/domain/unavailability"
)

// Store persists absence notices (abmeldungen).
type Store interface {
	// Mark records that the trainer cannot attend. An active notice for the
	// same training gets the new reason instead of a second row.
	Mark(ctx context.Context, n domain.Notice) error
	// Clear soft-deletes the trainer's active notices for a training.
	// POST: Returns domain.ErrNotFound when none was active
	Clear(ctx context.Context, trainingID, trainerID string, at time.Time) error
	// ListActiveByTrainer returns the trainer's active notices.
	ListActiveByTrainer(ctx context.Context, trainerID string) ([]domain.Notice, error)
	// ListActiveByTraining returns all active notices of a training.
	ListActiveByTraining(ctx context.Context, trainingID string) ([]domain.Notice, error)
}

var _ Store = (*SQLStore)(nil)
