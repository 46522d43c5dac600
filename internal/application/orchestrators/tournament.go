package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/trainer"
)

// TournamentStoreForLifecycle defines the store interface needed by tournament orchestrators.
type TournamentStoreForLifecycle interface {
	Get(ctx context.Context, id string) (tournament.Tournament, error)
	Save(ctx context.Context, t tournament.Tournament) error
	Delete(ctx context.Context, id string) error
	GetAssignment(ctx context.Context, id string) (tournament.Assignment, error)
	FindAssignment(ctx context.Context, tournamentID, trainerID string) (tournament.Assignment, bool, error)
	UpsertAssignment(ctx context.Context, a tournament.Assignment) (string, error)
	SetAssignmentStatus(ctx context.Context, id string, status tournament.Status) error
	UpsertTrip(ctx context.Context, f tournament.Trip) (string, error)
}

// TournamentDeps holds dependencies for tournament orchestrators.
type TournamentDeps struct {
	Tournaments TournamentStoreForLifecycle
	Audit       AuditRecorder
	Now         func() time.Time
	GenerateID  func() string
}

// TournamentActionInput addresses the session trainer's row of a tournament.
type TournamentActionInput struct {
	Session      session.Session
	TournamentID string
	Reason       string  // MarkUnavailable
	KmTotal      float64 // CheckIn
}

// currentRow loads the tournament and the trainer's row, if any.
// POST: status is tournament.StatusNone when the trainer has no row
func currentRow(ctx context.Context, deps TournamentDeps, input TournamentActionInput) (tournament.Tournament, tournament.Assignment, tournament.Status, error) {
	t, err := deps.Tournaments.Get(ctx, strings.TrimSpace(input.TournamentID))
	if err != nil {
		return tournament.Tournament{}, tournament.Assignment{}, tournament.StatusNone, storeErr("load tournament", err, tournament.ErrNotFound)
	}
	a, ok, err := deps.Tournaments.FindAssignment(ctx, t.ID, input.Session.TrainerID)
	if err != nil {
		return t, tournament.Assignment{}, tournament.StatusNone, fmt.Errorf("find tournament assignment: %w", err)
	}
	if !ok {
		return t, tournament.Assignment{}, tournament.StatusNone, nil
	}
	return t, a, a.Status, nil
}

// newRow fills the fields written on first contact with a tournament.
func newRow(deps TournamentDeps, t tournament.Tournament, s session.Session, existing tournament.Assignment) tournament.Assignment {
	a := existing
	if a.ID == "" {
		a.ID = deps.GenerateID()
	}
	a.TournamentID = t.ID
	a.TrainerID = s.TrainerID
	now := deps.Now()
	a.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	a.Role = s.Role
	if a.Role == "" {
		a.Role = trainer.DefaultRole
	}
	return a
}

// ExecuteTournamentEnroll registers the session trainer.
// PRE: Session is resolved
// POST: the trainer's row is EINGETRAGEN; returns the row id
func ExecuteTournamentEnroll(ctx context.Context, input TournamentActionInput, deps TournamentDeps) (string, error) {
	t, existing, status, err := currentRow(ctx, deps, input)
	if err != nil {
		return "", err
	}
	next, err := status.Enroll()
	if err != nil {
		return "", err
	}
	a := newRow(deps, t, input.Session, existing)
	a.Status = next
	id, err := deps.Tournaments.UpsertAssignment(ctx, a)
	if err != nil {
		return "", fmt.Errorf("save tournament assignment: %w", err)
	}
	slog.Info("tournament_event", "event", "enrolled", "tournament_id", t.ID, "trainer_id", a.TrainerID, "from", status)
	return id, nil
}

// ExecuteTournamentMarkUnavailable declares the trainer unavailable.
// POST: the row is NICHT_VERFUEGBAR with Reason as comment
func ExecuteTournamentMarkUnavailable(ctx context.Context, input TournamentActionInput, deps TournamentDeps) error {
	t, existing, status, err := currentRow(ctx, deps, input)
	if err != nil {
		return err
	}
	next, err := status.MarkUnavailable()
	if err != nil {
		return err
	}
	a := newRow(deps, t, input.Session, existing)
	a.Status = next
	a.Comment = strings.TrimSpace(input.Reason)
	if _, err := deps.Tournaments.UpsertAssignment(ctx, a); err != nil {
		return fmt.Errorf("save tournament assignment: %w", err)
	}
	slog.Info("tournament_event", "event", "unavailable", "tournament_id", t.ID, "trainer_id", a.TrainerID, "from", status)
	return nil
}

// ExecuteTournamentClearUnavailable withdraws an unavailability declaration.
// POST: the row is AUSGETRAGEN; Returns tournament.ErrNoUnavailability otherwise
func ExecuteTournamentClearUnavailable(ctx context.Context, input TournamentActionInput, deps TournamentDeps) error {
	t, existing, status, err := currentRow(ctx, deps, input)
	if err != nil {
		return err
	}
	next, err := status.ClearUnavailable()
	if err != nil {
		return err
	}
	if err := deps.Tournaments.SetAssignmentStatus(ctx, existing.ID, next); err != nil {
		return storeErr("clear unavailable", err, tournament.ErrAssignmentNotFound)
	}
	slog.Info("tournament_event", "event", "unavailable_cleared", "tournament_id", t.ID, "trainer_id", existing.TrainerID)
	return nil
}

// ExecuteTournamentCheckIn confirms presence and records kilometres driven.
// POST: the row is JA; kmTotal > 0 upserts the trip keeping its comment
func ExecuteTournamentCheckIn(ctx context.Context, input TournamentActionInput, deps TournamentDeps) error {
	t, existing, status, err := currentRow(ctx, deps, input)
	if err != nil {
		return err
	}
	next, err := status.CheckIn()
	if err != nil {
		return err
	}
	if err := deps.Tournaments.SetAssignmentStatus(ctx, existing.ID, next); err != nil {
		return storeErr("check in", err, tournament.ErrAssignmentNotFound)
	}
	if input.KmTotal > 0 {
		now := deps.Now()
		trip := tournament.Trip{
			ID:           deps.GenerateID(),
			TournamentID: t.ID,
			DriverID:     input.Session.TrainerID,
			Date:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			KmTotal:      input.KmTotal,
		}
		if _, err := deps.Tournaments.UpsertTrip(ctx, trip); err != nil {
			return fmt.Errorf("save trip: %w", err)
		}
	}
	slog.Info("tournament_event", "event", "checked_in", "tournament_id", t.ID, "trainer_id", input.Session.TrainerID, "km", input.KmTotal)
	return nil
}

// ExecuteTournamentWithdraw withdraws a row addressed by id.
// PRE: Session is resolved
// POST: the row is AUSGETRAGEN; only the owner or an admin may do this
func ExecuteTournamentWithdraw(ctx context.Context, s session.Session, assignmentID string, deps TournamentDeps) error {
	a, err := deps.Tournaments.GetAssignment(ctx, strings.TrimSpace(assignmentID))
	if err != nil {
		return storeErr("load tournament assignment", err, tournament.ErrAssignmentNotFound)
	}
	if !s.CanActOn(a.TrainerID) {
		return apperror.ErrForbidden
	}
	next, err := a.Status.Withdraw()
	if err != nil {
		return err
	}
	if err := deps.Tournaments.SetAssignmentStatus(ctx, a.ID, next); err != nil {
		return storeErr("withdraw tournament assignment", err, tournament.ErrAssignmentNotFound)
	}
	slog.Info("tournament_event", "event", "withdrawn", "assignment_id", a.ID, "actor_id", s.TrainerID)
	return nil
}

// SaveTournamentInput carries an admin tournament payload.
type SaveTournamentInput struct {
	Actor      session.Session
	Tournament tournament.Tournament
}

// ExecuteSaveTournament creates or updates a tournament.
// PRE: Actor is an admin
// POST: Returns the stored tournament; a blank id is generated
func ExecuteSaveTournament(ctx context.Context, input SaveTournamentInput, deps TournamentDeps) (tournament.Tournament, error) {
	t := input.Tournament
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return tournament.Tournament{}, err
	}
	action := audit.ActionUpdate
	if t.ID == "" {
		t.ID = deps.GenerateID()
		action = audit.ActionCreate
	}
	if err := deps.Tournaments.Save(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("save tournament: %w", err)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), input.Actor.TrainerID, actorRole(input.Actor.IsAdmin), audit.CategoryTournament, action).
		WithResource("tournament", t.ID).
		WithDescription(t.Name))
	return t, nil
}

// ExecuteDeleteTournament removes a tournament with its assignments and trips.
// PRE: Actor is an admin
// POST: Returns tournament.ErrNotFound for unknown ids
func ExecuteDeleteTournament(ctx context.Context, actor session.Session, id string, deps TournamentDeps) error {
	if err := deps.Tournaments.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return storeErr("delete tournament", err, tournament.ErrNotFound)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), actor.TrainerID, actorRole(actor.IsAdmin), audit.CategoryTournament, audit.ActionDelete).
		WithSeverity(audit.SeverityWarning).
		WithResource("tournament", id))
	return nil
}
