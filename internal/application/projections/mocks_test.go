package projections

import (
	"context"
	"time"

	storeTraining "trainerweb/internal/adapters/storage/training"
	"trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/monthlock"
	"trainerweb/internal/domain/rolerate"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/trainer"
	"trainerweb/internal/domain/training"
	"trainerweb/internal/domain/trainingplan"
	"trainerweb/internal/domain/unavailability"
)

// now is Tuesday 2025-03-04 18:00; its ISO week runs 03-03 to 03-09.
var now = time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeTrainings []training.Training

// List returns live trainings in stored order.
func (f fakeTrainings) List(_ context.Context) ([]training.Training, error) {
	var out []training.Training
	for _, t := range f {
		if !t.Deleted() {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListFiltered applies month and status filters.
func (f fakeTrainings) ListFiltered(ctx context.Context, filter storeTraining.Filter) ([]training.Training, error) {
	all, _ := f.List(ctx)
	var out []training.Training
	for _, t := range all {
		if filter.Month != "" && t.MonthKey() != filter.Month {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetByID returns a live training.
func (f fakeTrainings) GetByID(_ context.Context, id string) (training.Training, error) {
	for _, t := range f {
		if t.ID == id && !t.Deleted() {
			return t, nil
		}
	}
	return training.Training{}, training.ErrNotFound
}

type fakeAssignments []assignment.Assignment

// List returns every row.
func (f fakeAssignments) List(_ context.Context) ([]assignment.Assignment, error) {
	return f, nil
}

// ListByTrainer filters by trainer.
func (f fakeAssignments) ListByTrainer(_ context.Context, trainerID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range f {
		if a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByTraining filters by training.
func (f fakeAssignments) ListByTraining(_ context.Context, trainingID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range f {
		if a.TrainingID == trainingID {
			out = append(out, a)
		}
	}
	return out, nil
}

// CountActiveByTraining counts rows without a withdrawal stamp.
func (f fakeAssignments) CountActiveByTraining(_ context.Context) (map[string]int, error) {
	out := make(map[string]int)
	for _, a := range f {
		if a.Active() {
			out[a.TrainingID]++
		}
	}
	return out, nil
}

type fakeTrainers []trainer.Trainer

// List returns every trainer.
func (f fakeTrainers) List(_ context.Context) ([]trainer.Trainer, error) {
	return f, nil
}

// ListActive returns active trainers.
func (f fakeTrainers) ListActive(_ context.Context) ([]trainer.Trainer, error) {
	var out []trainer.Trainer
	for _, t := range f {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetByID returns one trainer.
func (f fakeTrainers) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	for _, t := range f {
		if t.ID == id {
			return t, nil
		}
	}
	return trainer.Trainer{}, trainer.ErrNotFound
}

type fakeNotices []unavailability.Notice

// ListActiveByTrainer filters active notices by trainer.
func (f fakeNotices) ListActiveByTrainer(_ context.Context, trainerID string) ([]unavailability.Notice, error) {
	var out []unavailability.Notice
	for _, n := range f {
		if n.Active() && n.TrainerID == trainerID {
			out = append(out, n)
		}
	}
	return out, nil
}

// ListActiveByTraining filters active notices by training.
func (f fakeNotices) ListActiveByTraining(_ context.Context, trainingID string) ([]unavailability.Notice, error) {
	var out []unavailability.Notice
	for _, n := range f {
		if n.Active() && n.TrainingID == trainingID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakePlans map[string]trainingplan.Plan

// GetByTraining returns the plan of a training.
func (f fakePlans) GetByTraining(_ context.Context, trainingID string) (trainingplan.Plan, error) {
	p, ok := f[trainingID]
	if !ok {
		return trainingplan.Plan{}, trainingplan.ErrNotFound
	}
	return p, nil
}

type fakeTournaments struct {
	tournaments []tournament.Tournament
	rows        []tournament.Assignment
	trips       []tournament.Trip
}

// List returns every tournament.
func (f *fakeTournaments) List(_ context.Context) ([]tournament.Tournament, error) {
	return f.tournaments, nil
}

// Get returns one tournament.
func (f *fakeTournaments) Get(_ context.Context, id string) (tournament.Tournament, error) {
	for _, t := range f.tournaments {
		if t.ID == id {
			return t, nil
		}
	}
	return tournament.Tournament{}, tournament.ErrNotFound
}

// ListAssignments filters rows by tournament.
func (f *fakeTournaments) ListAssignments(_ context.Context, tournamentID string) ([]tournament.Assignment, error) {
	var out []tournament.Assignment
	for _, a := range f.rows {
		if a.TournamentID == tournamentID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListAssignmentsByTrainer filters rows by trainer.
func (f *fakeTournaments) ListAssignmentsByTrainer(_ context.Context, trainerID string) ([]tournament.Assignment, error) {
	var out []tournament.Assignment
	for _, a := range f.rows {
		if a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListAllAssignments returns every row.
func (f *fakeTournaments) ListAllAssignments(_ context.Context) ([]tournament.Assignment, error) {
	return f.rows, nil
}

// FindTrip returns the driver's trip.
func (f *fakeTournaments) FindTrip(_ context.Context, tournamentID, driverID string) (tournament.Trip, bool, error) {
	for _, t := range f.trips {
		if t.TournamentID == tournamentID && t.DriverID == driverID {
			return t, true, nil
		}
	}
	return tournament.Trip{}, false, nil
}

// ListTripsByTrainer filters trips by driver.
func (f *fakeTournaments) ListTripsByTrainer(_ context.Context, driverID string) ([]tournament.Trip, error) {
	var out []tournament.Trip
	for _, t := range f.trips {
		if t.DriverID == driverID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListAllTrips returns every trip.
func (f *fakeTournaments) ListAllTrips(_ context.Context) ([]tournament.Trip, error) {
	return f.trips, nil
}

type fakeRates []rolerate.Rate

// List returns the configured rates.
func (f fakeRates) List(_ context.Context) ([]rolerate.Rate, error) {
	return f, nil
}

type fakeMonths map[string]monthlock.Status

// Get returns the stored status; unknown months are open.
func (f fakeMonths) Get(_ context.Context, month string) (monthlock.MonthStatus, error) {
	s, ok := f[month]
	if !ok {
		s = monthlock.StatusOpen
	}
	return monthlock.MonthStatus{Month: month, Status: s}, nil
}

// List returns stored months.
func (f fakeMonths) List(_ context.Context) ([]monthlock.MonthStatus, error) {
	var out []monthlock.MonthStatus
	for m, s := range f {
		out = append(out, monthlock.MonthStatus{Month: m, Status: s})
	}
	return out, nil
}
