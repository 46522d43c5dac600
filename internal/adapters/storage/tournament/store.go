package tournament

import (
	"context"

	domain "trainerweb/internal/domain/tournament"
)

// Store persists tournaments, their assignments (einsaetze) and trips (fahrten).
type Store interface {
	// Get returns a tournament or domain.ErrNotFound.
	Get(ctx context.Context, id string) (domain.Tournament, error)
	// List returns all tournaments ordered by start date.
	List(ctx context.Context) ([]domain.Tournament, error)
	// Save upserts a tournament.
	// PRE: t.Validate() == nil
	Save(ctx context.Context, t domain.Tournament) error
	// Delete removes a tournament with its assignments and trips.
	// POST: Returns domain.ErrNotFound when no row matched
	Delete(ctx context.Context, id string) error

	// GetAssignment returns a row or domain.ErrAssignmentNotFound.
	GetAssignment(ctx context.Context, id string) (domain.Assignment, error)
	// FindAssignment returns the trainer's row for a tournament.
	// POST: ok is false when the trainer never interacted with the tournament
	FindAssignment(ctx context.Context, tournamentID, trainerID string) (a domain.Assignment, ok bool, err error)
	// ListAssignments returns the rows of one tournament.
	ListAssignments(ctx context.Context, tournamentID string) ([]domain.Assignment, error)
	// ListAssignmentsByTrainer returns all rows of one trainer.
	ListAssignmentsByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error)
	// ListAllAssignments returns every row.
	ListAllAssignments(ctx context.Context) ([]domain.Assignment, error)
	// UpsertAssignment writes the (tournament, trainer) row and returns its stored id.
	UpsertAssignment(ctx context.Context, a domain.Assignment) (string, error)
	// SetAssignmentStatus changes only the status column.
	// POST: Returns domain.ErrAssignmentNotFound when no row matched
	SetAssignmentStatus(ctx context.Context, id string, status domain.Status) error

	// FindTrip returns the driver's trip for a tournament.
	FindTrip(ctx context.Context, tournamentID, driverID string) (f domain.Trip, ok bool, err error)
	// UpsertTrip writes km and date of the (tournament, driver) trip; the comment of an existing row is kept.
	UpsertTrip(ctx context.Context, f domain.Trip) (string, error)
	// ListTripsByTrainer returns trips driven by one trainer.
	ListTripsByTrainer(ctx context.Context, driverID string) ([]domain.Trip, error)
	// ListAllTrips returns every trip.
	ListAllTrips(ctx context.Context) ([]domain.Trip, error)
}

var _ Store = (*SQLStore)(nil)
