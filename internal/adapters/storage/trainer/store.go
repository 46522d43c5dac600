package trainer

import (
	"context"
	"time"

	domain "trainerweb/internal/domain/trainer"
)

// Store persists Trainer records.
type Store interface {
	// GetByID returns the trainer or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	// List returns all trainers ordered by name.
	List(ctx context.Context) ([]domain.Trainer, error)
	// ListActive returns active trainers ordered by name.
	ListActive(ctx context.Context) ([]domain.Trainer, error)
	// Save upserts a trainer including its pin.
	// PRE: t.Validate() == nil
	Save(ctx context.Context, t domain.Trainer) error
	// SaveBatch upserts all trainers in one transaction.
	SaveBatch(ctx context.Context, ts []domain.Trainer) error
	// UpdatePin replaces the stored pin.
	// POST: Returns domain.ErrNotFound when no row matched
	UpdatePin(ctx context.Context, id, pin string) error
	// UpdatePins replaces several pins in one transaction.
	UpdatePins(ctx context.Context, pins map[string]string) error
	// UpdateLastLogin stamps the login date.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// UpdateProfile sets the self-editable fields; nil leaves a field unchanged.
	UpdateProfile(ctx context.Context, id string, email, notes *string) error
}

// Ensure SQLStore implements Store interface.
var _ Store = (*SQLStore)(nil)
