package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/unavailability"
)

// NoticeStore persists training absence notices.
type NoticeStore interface {
	Mark(ctx context.Context, n unavailability.Notice) error
	Clear(ctx context.Context, trainingID, trainerID string, at time.Time) error
}

// TrainingUnavailabilityDeps holds dependencies for training unavailability.
type TrainingUnavailabilityDeps struct {
	Trainings  TrainingReader
	Notices    NoticeStore
	Months     MonthStatusReader
	Now        func() time.Time
	GenerateID func() string
}

// TrainingUnavailabilityInput addresses the session trainer's notice for a training.
type TrainingUnavailabilityInput struct {
	Session    session.Session
	TrainingID string
	Reason     string
}

// ExecuteMarkTrainingUnavailable declares that the trainer cannot attend.
// PRE: Session is resolved
// POST: one active notice exists for (training, trainer) carrying Reason
func ExecuteMarkTrainingUnavailable(ctx context.Context, input TrainingUnavailabilityInput, deps TrainingUnavailabilityDeps) error {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return err
	}
	if err := checkMonthOpen(ctx, deps.Months, tr.Date); err != nil {
		return err
	}
	n := unavailability.Notice{
		ID:         deps.GenerateID(),
		TrainingID: tr.ID,
		TrainerID:  input.Session.TrainerID,
		Reason:     strings.TrimSpace(input.Reason),
		CreatedAt:  deps.Now(),
	}
	if err := deps.Notices.Mark(ctx, n); err != nil {
		return storeErr("mark unavailable", err)
	}
	slog.Info("assignment_event", "event", "training_unavailable", "training_id", tr.ID, "trainer_id", n.TrainerID)
	return nil
}

// ExecuteClearTrainingUnavailable withdraws the trainer's notice.
// POST: Returns unavailability.ErrNotFound when no notice was active
func ExecuteClearTrainingUnavailable(ctx context.Context, input TrainingUnavailabilityInput, deps TrainingUnavailabilityDeps) error {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return err
	}
	if err := checkMonthOpen(ctx, deps.Months, tr.Date); err != nil {
		return err
	}
	if err := deps.Notices.Clear(ctx, tr.ID, input.Session.TrainerID, deps.Now()); err != nil {
		return storeErr("clear unavailable", err, unavailability.ErrNotFound)
	}
	slog.Info("assignment_event", "event", "training_unavailable_cleared", "training_id", tr.ID, "trainer_id", input.Session.TrainerID)
	return nil
}
