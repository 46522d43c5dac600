package assignment

import (
	"context"
	"time"

	domain "trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/unavailability"
)

// Store persists training assignments (einteilungen).
type Store interface {
	// GetByID returns an assignment or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (domain.Assignment, error)
	// List returns all assignments ordered by enrollment time.
	List(ctx context.Context) ([]domain.Assignment, error)
	// ListByTraining returns the rows of one training, withdrawn rows included.
	ListByTraining(ctx context.Context, trainingID string) ([]domain.Assignment, error)
	// ListByTrainer returns the rows of one trainer, withdrawn rows included.
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error)
	// CountActiveByTraining returns active row counts keyed by training id.
	CountActiveByTraining(ctx context.Context) (map[string]int, error)
	// CountActiveForTraining returns the active row count of one training.
	CountActiveForTraining(ctx context.Context, trainingID string) (int, error)
	// HasActive reports whether the trainer holds an active row on the training.
	HasActive(ctx context.Context, trainingID, trainerID string) (bool, error)
	// IDsForYear returns every EIN-year- id.
	IDsForYear(ctx context.Context, year int) ([]string, error)
	// Insert creates an active assignment.
	// POST: inserted is false when the id is taken or the trainer already holds an active row
	Insert(ctx context.Context, a domain.Assignment) (inserted bool, err error)
	// Update writes role, attendance, check-in and comment of an active row.
	// POST: Returns domain.ErrWithdrawnLocked when the row is withdrawn or missing
	Update(ctx context.Context, a domain.Assignment) error
	// CheckIn marks attendance on any row, withdrawn or not.
	// POST: Returns domain.ErrNotFound when no row matched
	CheckIn(ctx context.Context, id string, at time.Time) error
	// Withdraw stamps ausgetragen_am; an existing stamp is kept.
	// POST: Returns domain.ErrNotFound when no row matched
	Withdraw(ctx context.Context, id string, at time.Time) error
	// CancelWithNotice withdraws the trainer's active row and records the
	// absence notice in one transaction.
	// POST: Returns domain.ErrAlreadyCancelled when no active row exists; nothing is written then
	CancelWithNotice(ctx context.Context, trainingID, trainerID string, notice unavailability.Notice, at time.Time) error
}

var _ Store = (*SQLStore)(nil)
