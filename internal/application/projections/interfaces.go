package projections

import (
	"context"

	domainAssignment "trainerweb/internal/domain/assignment"
	domainMonth "trainerweb/internal/domain/monthlock"
	domainRate "trainerweb/internal/domain/rolerate"
	domainTournament "trainerweb/internal/domain/tournament"
	domainTrainer "trainerweb/internal/domain/trainer"
	domainTraining "trainerweb/internal/domain/training"
	domainNotice "trainerweb/internal/domain/unavailability"
)

// TrainingLister lists live trainings.
type TrainingLister interface {
	List(ctx context.Context) ([]domainTraining.Training, error)
}

// TrainerLister lists trainers.
type TrainerLister interface {
	List(ctx context.Context) ([]domainTrainer.Trainer, error)
}

// ActiveCountStore counts active assignments per training.
type ActiveCountStore interface {
	CountActiveByTraining(ctx context.Context) (map[string]int, error)
}

// AssignmentLister lists every assignment.
type AssignmentLister interface {
	List(ctx context.Context) ([]domainAssignment.Assignment, error)
}

// NoticeByTrainerStore lists a trainer's active absence notices.
type NoticeByTrainerStore interface {
	ListActiveByTrainer(ctx context.Context, trainerID string) ([]domainNotice.Notice, error)
}

// TournamentLister lists tournaments.
type TournamentLister interface {
	List(ctx context.Context) ([]domainTournament.Tournament, error)
}

// RoleRateLister lists configured role rates.
type RoleRateLister interface {
	List(ctx context.Context) ([]domainRate.Rate, error)
}

// MonthStatusLister lists stored month statuses.
type MonthStatusLister interface {
	List(ctx context.Context) ([]domainMonth.MonthStatus, error)
}

// trainerNames indexes trainer names by id.
func trainerNames(ts []domainTrainer.Trainer) map[string]string {
	names := make(map[string]string, len(ts))
	for _, t := range ts {
		names[t.ID] = t.Name
	}
	return names
}

// nameOr returns the trainer name or the id when the trainer is unknown.
func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
