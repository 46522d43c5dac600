package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/adapters/email"
	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

// TrainerStoreForAdmin defines the store interface needed by trainer administration.
type TrainerStoreForAdmin interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	List(ctx context.Context) ([]trainer.Trainer, error)
	Save(ctx context.Context, t trainer.Trainer) error
	UpdatePin(ctx context.Context, id, pin string) error
	UpdatePins(ctx context.Context, pins map[string]string) error
}

// SaveTrainerInput carries an admin trainer payload.
// Pin is plaintext; empty keeps the stored pin of an existing trainer.
type SaveTrainerInput struct {
	Actor   session.Session
	Trainer trainer.Trainer
	Pin     string
}

// TrainerAdminDeps holds dependencies for trainer administration.
type TrainerAdminDeps struct {
	TrainerStore TrainerStoreForAdmin
	Audit        AuditRecorder
	Email        email.Sender // optional
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteSaveTrainer creates or updates a trainer.
// PRE: Actor is an admin
// POST: Returns the stored trainer; a new trainer without id gets a generated one
func ExecuteSaveTrainer(ctx context.Context, input SaveTrainerInput, deps TrainerAdminDeps) (trainer.Trainer, error) {
	t := input.Trainer
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	if err := t.Validate(); err != nil {
		return trainer.Trainer{}, err
	}
	t.DefaultRole = t.Role()

	action := audit.ActionUpdate
	if t.ID == "" {
		t.ID = deps.GenerateID()
		action = audit.ActionCreate
	}
	existing, err := deps.TrainerStore.GetByID(ctx, t.ID)
	switch {
	case err == nil:
		t.LastLogin = existing.LastLogin
		t.Pin = existing.Pin
	case errors.Is(err, trainer.ErrNotFound):
		action = audit.ActionCreate
	default:
		return trainer.Trainer{}, fmt.Errorf("load trainer: %w", err)
	}
	if pin := strings.TrimSpace(input.Pin); pin != "" {
		t.Pin = trainer.HashPin(pin)
	}

	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return trainer.Trainer{}, fmt.Errorf("save trainer: %w", err)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), input.Actor.TrainerID, actorRole(input.Actor.IsAdmin), audit.CategoryTrainer, action).
		WithResource("trainer", t.ID).
		WithDescription(t.Name))
	return t, nil
}

// ResetPinInput carries input for an admin PIN reset.
type ResetPinInput struct {
	Actor     session.Session
	TrainerID string
	NewPin    string // blank generates one
}

// ResetPinResult returns the plaintext PIN once.
type ResetPinResult struct {
	Pin    string
	Mailed bool
}

// ExecuteResetPin replaces a trainer's PIN.
// PRE: Actor is an admin
// POST: the stored pin verifies against the returned Pin; when the sender is
// Enabled and the trainer has an email, the PIN is mailed
func ExecuteResetPin(ctx context.Context, input ResetPinInput, deps TrainerAdminDeps) (ResetPinResult, error) {
	pin := strings.TrimSpace(input.NewPin)
	if pin == "" {
		generated, err := trainer.GeneratePin(trainer.MinPinLength)
		if err != nil {
			return ResetPinResult{}, fmt.Errorf("generate pin: %w", err)
		}
		pin = generated
	}
	if err := trainer.ValidateNewPin(pin); err != nil {
		return ResetPinResult{}, err
	}

	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, trainer.ErrNotFound) {
			return ResetPinResult{}, err
		}
		return ResetPinResult{}, fmt.Errorf("load trainer: %w", err)
	}
	if err := deps.TrainerStore.UpdatePin(ctx, t.ID, trainer.HashPin(pin)); err != nil {
		return ResetPinResult{}, fmt.Errorf("update pin: %w", err)
	}

	result := ResetPinResult{Pin: pin}
	if deps.Email != nil && deps.Email.Enabled() && t.Email != "" {
		result.Mailed = sendPinReset(ctx, deps, t, pin)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), input.Actor.TrainerID, actorRole(input.Actor.IsAdmin), audit.CategoryAuth, audit.ActionResetPin).
		WithSeverity(audit.SeverityWarning).
		WithResource("trainer", t.ID))
	slog.Info("auth_event", "event", "pin_reset", "trainer_id", t.ID, "actor_id", input.Actor.TrainerID, "mailed", result.Mailed)
	return result, nil
}

// sendPinReset mails the new PIN. A failed send is logged; the reset itself stands.
func sendPinReset(ctx context.Context, deps TrainerAdminDeps, t trainer.Trainer, pin string) bool {
	req, err := email.PinResetMessage(t.Email, t.Name, pin)
	if err != nil {
		slog.Error("email_render_failed", "trainer_id", t.ID, "error", err)
		return false
	}
	if _, err := deps.Email.Send(ctx, req); err != nil {
		slog.Error("email_send_failed", "trainer_id", t.ID, "error", err)
		return false
	}
	return true
}

// ExecuteMigratePins hashes every stored plaintext PIN.
// PRE: Actor is an admin
// POST: Returns the number of rewritten rows; empty and already hashed pins are skipped
func ExecuteMigratePins(ctx context.Context, actor session.Session, deps TrainerAdminDeps) (int, error) {
	trainers, err := deps.TrainerStore.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list trainers: %w", err)
	}
	pins := make(map[string]string)
	for _, t := range trainers {
		if strings.TrimSpace(t.Pin) == "" || trainer.IsHashedPin(t.Pin) {
			continue
		}
		pins[t.ID] = trainer.HashPin(t.Pin)
	}
	if len(pins) > 0 {
		if err := deps.TrainerStore.UpdatePins(ctx, pins); err != nil {
			return 0, fmt.Errorf("migrate pins: %w", err)
		}
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), actor.TrainerID, actorRole(actor.IsAdmin), audit.CategoryAuth, audit.ActionMigratePins).
		WithDescription(fmt.Sprintf("%d pins migrated", len(pins))))
	slog.Info("auth_event", "event", "pins_migrated", "count", len(pins))
	return len(pins), nil
}
