package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
	"trainerweb/internal/domain/training"
	"trainerweb/internal/domain/unavailability"
)

// maxIDAttempts bounds retries when a generated id is taken by a concurrent insert.
const maxIDAttempts = 3

// TrainingReader loads a live training, or any training for the month gate.
type TrainingReader interface {
	GetByID(ctx context.Context, id string) (training.Training, error)
	GetAnyByID(ctx context.Context, id string) (training.Training, error)
}

// TrainerReader loads a trainer.
type TrainerReader interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
}

// AssignmentStoreForEnrollment defines the store interface needed by the assignment lifecycle.
type AssignmentStoreForEnrollment interface {
	GetByID(ctx context.Context, id string) (assignment.Assignment, error)
	HasActive(ctx context.Context, trainingID, trainerID string) (bool, error)
	IDsForYear(ctx context.Context, year int) ([]string, error)
	Insert(ctx context.Context, a assignment.Assignment) (bool, error)
	Update(ctx context.Context, a assignment.Assignment) error
	CheckIn(ctx context.Context, id string, at time.Time) error
	Withdraw(ctx context.Context, id string, at time.Time) error
	CancelWithNotice(ctx context.Context, trainingID, trainerID string, notice unavailability.Notice, at time.Time) error
}

// EnrollmentDeps holds dependencies for the assignment lifecycle.
type EnrollmentDeps struct {
	Trainings   TrainingReader
	Trainers    TrainerReader
	Assignments AssignmentStoreForEnrollment
	Months      MonthStatusReader
	Now         func() time.Time
	GenerateID  func() string // notice ids
}

// EnrollInput carries input for a self enrollment.
type EnrollInput struct {
	Session    session.Session
	TrainingID string
}

// ExecuteEnroll enrolls the session's trainer with the session role.
// PRE: Session is resolved
// POST: exactly one active row exists for (training, trainer)
// INVARIANT: a second enrollment fails with assignment.ErrAlreadyEnrolled and writes nothing
func ExecuteEnroll(ctx context.Context, input EnrollInput, deps EnrollmentDeps) (assignment.Assignment, error) {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if err := checkMonthOpen(ctx, deps.Months, tr.Date); err != nil {
		return assignment.Assignment{}, err
	}
	role := strings.TrimSpace(input.Session.Role)
	if role == "" {
		role = trainer.DefaultRole
	}
	a, err := insertAssignment(ctx, deps, tr, input.Session.TrainerID, role)
	if err != nil {
		return assignment.Assignment{}, err
	}
	slog.Info("assignment_event", "event", "enrolled", "assignment_id", a.ID, "training_id", tr.ID, "trainer_id", a.TrainerID)
	return a, nil
}

// AssignInput carries input for an admin assignment.
type AssignInput struct {
	Actor      session.Session
	TrainingID string
	TrainerID  string
	Role       string // blank uses the trainer's default role
}

// ExecuteAssign enrolls a chosen trainer.
// PRE: Actor is an admin
// POST: as ExecuteEnroll, for input.TrainerID
func ExecuteAssign(ctx context.Context, input AssignInput, deps EnrollmentDeps) (assignment.Assignment, error) {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	t, err := deps.Trainers.GetByID(ctx, strings.TrimSpace(input.TrainerID))
	if err != nil {
		if errors.Is(err, trainer.ErrNotFound) {
			return assignment.Assignment{}, err
		}
		return assignment.Assignment{}, fmt.Errorf("load trainer: %w", err)
	}
	if err := checkMonthOpen(ctx, deps.Months, tr.Date); err != nil {
		return assignment.Assignment{}, err
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = t.Role()
	}
	a, err := insertAssignment(ctx, deps, tr, t.ID, role)
	if err != nil {
		return assignment.Assignment{}, err
	}
	slog.Info("assignment_event", "event", "assigned", "assignment_id", a.ID, "training_id", tr.ID, "trainer_id", t.ID, "actor_id", input.Actor.TrainerID)
	return a, nil
}

// insertAssignment allocates EIN-YYYY-NNN and inserts the active row.
// POST: Returns ErrAlreadyEnrolled when the trainer already holds an active row
func insertAssignment(ctx context.Context, deps EnrollmentDeps, tr training.Training, trainerID, role string) (assignment.Assignment, error) {
	year := tr.Date.Year()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		ids, err := deps.Assignments.IDsForYear(ctx, year)
		if err != nil {
			return assignment.Assignment{}, fmt.Errorf("load assignment ids: %w", err)
		}
		a := assignment.Assignment{
			ID:         assignment.FormatID(year, training.NextIDNumber(ids, assignment.IDPrefix, year)),
			TrainingID: tr.ID,
			TrainerID:  trainerID,
			Role:       role,
			EnrolledAt: deps.Now(),
		}
		inserted, err := deps.Assignments.Insert(ctx, a)
		if err != nil {
			return assignment.Assignment{}, fmt.Errorf("insert assignment: %w", err)
		}
		if inserted {
			return a, nil
		}
		active, err := deps.Assignments.HasActive(ctx, tr.ID, trainerID)
		if err != nil {
			return assignment.Assignment{}, fmt.Errorf("check active assignment: %w", err)
		}
		if active {
			return assignment.Assignment{}, assignment.ErrAlreadyEnrolled
		}
	}
	return assignment.Assignment{}, fmt.Errorf("allocate assignment id for %d: %d attempts collided", year, maxIDAttempts)
}

// AssignmentActionInput addresses one assignment on behalf of a session.
type AssignmentActionInput struct {
	Session      session.Session
	AssignmentID string
}

// ExecuteWithdraw withdraws an assignment.
// PRE: Session is resolved
// POST: withdrawn_at is set; a second withdraw keeps the first timestamp
func ExecuteWithdraw(ctx context.Context, input AssignmentActionInput, deps EnrollmentDeps) error {
	a, err := loadOwnedAssignment(ctx, deps, input)
	if err != nil {
		return err
	}
	if err := deps.Assignments.Withdraw(ctx, a.ID, deps.Now()); err != nil {
		return storeErr("withdraw assignment", err, assignment.ErrNotFound)
	}
	slog.Info("assignment_event", "event", "withdrawn", "assignment_id", a.ID, "actor_id", input.Session.TrainerID)
	return nil
}

// ExecuteCheckIn marks attendance on an assignment, withdrawn or not.
// PRE: Session is resolved
// POST: attendance is true and checkin_at is now
func ExecuteCheckIn(ctx context.Context, input AssignmentActionInput, deps EnrollmentDeps) error {
	a, err := loadOwnedAssignment(ctx, deps, input)
	if err != nil {
		return err
	}
	if err := deps.Assignments.CheckIn(ctx, a.ID, deps.Now()); err != nil {
		return storeErr("check in", err, assignment.ErrNotFound)
	}
	slog.Info("assignment_event", "event", "checked_in", "assignment_id", a.ID, "actor_id", input.Session.TrainerID)
	return nil
}

// UpdateAssignmentInput carries editable assignment fields. Nil leaves a field unchanged.
type UpdateAssignmentInput struct {
	Session      session.Session
	AssignmentID string
	Attendance   *bool
	Comment      *string
	Role         string // applied for admins only
}

// ExecuteUpdateAssignment edits attendance, comment and, for admins, the role.
// PRE: Session is resolved
// POST: Returns assignment.ErrWithdrawnLocked for withdrawn rows; nothing is written then
func ExecuteUpdateAssignment(ctx context.Context, input UpdateAssignmentInput, deps EnrollmentDeps) (assignment.Assignment, error) {
	a, err := loadOwnedAssignment(ctx, deps, AssignmentActionInput{Session: input.Session, AssignmentID: input.AssignmentID})
	if err != nil {
		return assignment.Assignment{}, err
	}
	role := ""
	if input.Session.IsAdmin {
		role = strings.TrimSpace(input.Role)
	}
	if input.Comment != nil {
		c := strings.TrimSpace(*input.Comment)
		input.Comment = &c
	}
	if err := a.Update(input.Attendance, input.Comment, role); err != nil {
		return assignment.Assignment{}, err
	}
	if input.Attendance != nil && *input.Attendance && a.CheckinAt.IsZero() {
		a.CheckinAt = deps.Now()
	}
	if err := deps.Assignments.Update(ctx, a); err != nil {
		return assignment.Assignment{}, storeErr("update assignment", err, assignment.ErrWithdrawnLocked)
	}
	return a, nil
}

// CancelAssignmentInput carries input for a cancellation with reason.
type CancelAssignmentInput struct {
	Session      session.Session
	AssignmentID string
	Reason       string
}

// ExecuteCancelAssignment withdraws the assignment and records an Abmeldung.
// PRE: Session is resolved
// POST: the assignment is withdrawn and an active notice with Reason exists, or neither
func ExecuteCancelAssignment(ctx context.Context, input CancelAssignmentInput, deps EnrollmentDeps) error {
	a, err := loadOwnedAssignment(ctx, deps, AssignmentActionInput{Session: input.Session, AssignmentID: input.AssignmentID})
	if err != nil {
		return err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return assignment.ErrReasonRequired
	}
	if !a.Active() {
		return assignment.ErrAlreadyCancelled
	}
	now := deps.Now()
	notice := unavailability.Notice{
		ID:         deps.GenerateID(),
		TrainingID: a.TrainingID,
		TrainerID:  a.TrainerID,
		Reason:     reason,
		CreatedAt:  now,
	}
	if err := deps.Assignments.CancelWithNotice(ctx, a.TrainingID, a.TrainerID, notice, now); err != nil {
		return storeErr("cancel assignment", err, assignment.ErrAlreadyCancelled)
	}
	slog.Info("assignment_event", "event", "cancelled", "assignment_id", a.ID, "actor_id", input.Session.TrainerID)
	return nil
}

// loadOwnedAssignment runs the shared gate sequence: lookup, month lock, authorization.
// POST: Returns the assignment only when the month is open and the session may act on it
func loadOwnedAssignment(ctx context.Context, deps EnrollmentDeps, input AssignmentActionInput) (assignment.Assignment, error) {
	a, err := deps.Assignments.GetByID(ctx, strings.TrimSpace(input.AssignmentID))
	if err != nil {
		return assignment.Assignment{}, storeErr("load assignment", err, assignment.ErrNotFound)
	}
	// soft-deleted trainings still carry the month
	tr, err := deps.Trainings.GetAnyByID(ctx, a.TrainingID)
	switch {
	case err == nil:
		if err := checkMonthOpen(ctx, deps.Months, tr.Date); err != nil {
			return assignment.Assignment{}, err
		}
	case errors.Is(err, training.ErrNotFound):
		// orphaned row, no date to gate on
	default:
		return assignment.Assignment{}, fmt.Errorf("load training: %w", err)
	}
	if !input.Session.CanActOn(a.TrainerID) {
		return assignment.Assignment{}, apperror.ErrForbidden
	}
	return a, nil
}

func loadTraining(ctx context.Context, trainings interface {
	GetByID(ctx context.Context, id string) (training.Training, error)
}, id string) (training.Training, error) {
	tr, err := trainings.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return training.Training{}, storeErr("load training", err, training.ErrNotFound)
	}
	return tr, nil
}

// storeErr passes known business errors through and wraps everything else.
func storeErr(op string, err error, known ...error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
