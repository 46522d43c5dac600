package training

import (
	"context"
	"time"

	domain "trainerweb/internal/domain/training"
)

// Filter narrows ListFiltered. Zero values match everything.
type Filter struct {
	Month  string // YYYY-MM
	Status domain.Status
}

// Store persists trainings. Soft-deleted rows are hidden from every read
// except IDsForYear and GetAnyByID.
type Store interface {
	// GetByID returns a live training or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (domain.Training, error)
	// GetAnyByID returns a training even when it is soft-deleted.
	GetAnyByID(ctx context.Context, id string) (domain.Training, error)
	// List returns live trainings ordered by date and start.
	List(ctx context.Context) ([]domain.Training, error)
	// ListFiltered returns live trainings matching f, ordered by date and start.
	ListFiltered(ctx context.Context, f Filter) ([]domain.Training, error)
	// IDsForYear returns every training id starting with TR-year-, deleted rows included.
	IDsForYear(ctx context.Context, year int) ([]string, error)
	// Save upserts a training; created_at of an existing row is kept.
	// PRE: t.Validate() == nil
	Save(ctx context.Context, t domain.Training) error
	// Insert creates a training unless the id is taken.
	// POST: inserted is false when a row with t.ID already exists
	Insert(ctx context.Context, t domain.Training) (inserted bool, err error)
	// CreateSeries inserts all trainings in one transaction.
	CreateSeries(ctx context.Context, ts []domain.Training) error
	// SetStatus changes status and cancel reason.
	// POST: Returns domain.ErrNotFound when no live row matched
	SetStatus(ctx context.Context, id string, status domain.Status, reason string, at time.Time) error
	// SoftDelete stamps deleted_at.
	// POST: Returns domain.ErrNotFound when no live row matched
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

var _ Store = (*SQLStore)(nil)
