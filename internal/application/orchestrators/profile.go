package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

// TrainerStoreForProfile defines the store interface needed by profile updates.
type TrainerStoreForProfile interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	UpdateProfile(ctx context.Context, id string, email, notes *string) error
}

// UpdateProfileInput carries the self-editable fields. Nil leaves a field unchanged.
type UpdateProfileInput struct {
	Session session.Session
	Email   *string
	Notes   *string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	TrainerStore TrainerStoreForProfile
	SessionStore SessionSaver
	Now          func() time.Time
	TTL          time.Duration
}

// ExecuteUpdateProfile writes email and notes and refreshes the session snapshot.
// PRE: input.Session is a resolved session
// POST: the trainer row and the session carry the new values; the returned
// session is the refreshed snapshot
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (session.Session, error) {
	sess := input.Session
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if len(email) > trainer.MaxEmailLength {
			return sess, trainer.ErrEmailTooLong
		}
		input.Email = &email
	}
	if input.Email == nil && input.Notes == nil {
		return sess, nil
	}

	if err := deps.TrainerStore.UpdateProfile(ctx, sess.TrainerID, input.Email, input.Notes); err != nil {
		if errors.Is(err, trainer.ErrNotFound) {
			return sess, err
		}
		return sess, fmt.Errorf("update profile: %w", err)
	}
	if input.Email != nil {
		sess.Email = *input.Email
	}
	if input.Notes != nil {
		sess.Notes = *input.Notes
	}

	now := deps.Now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(deps.TTL)
	if err := deps.SessionStore.Save(ctx, sess); err != nil {
		return sess, fmt.Errorf("refresh session: %w", err)
	}
	return sess, nil
}

// TrainerStoreForChangePin defines the store interface needed by ChangePin.
type TrainerStoreForChangePin interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	UpdatePin(ctx context.Context, id, pin string) error
}

// ChangePinInput carries input for the change-PIN orchestrator.
type ChangePinInput struct {
	TrainerID string
	OldPin    string
	NewPin    string
}

// ChangePinDeps holds dependencies for ChangePin.
type ChangePinDeps struct {
	TrainerStore TrainerStoreForChangePin
}

// ExecuteChangePin verifies the current PIN and stores the new one hashed.
// PRE: TrainerID belongs to the caller's session
// POST: the stored pin verifies against NewPin
// INVARIANT: the current PIN is checked before the new PIN's format
func ExecuteChangePin(ctx context.Context, input ChangePinInput, deps ChangePinDeps) error {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		if errors.Is(err, trainer.ErrNotFound) {
			return err
		}
		return fmt.Errorf("load trainer: %w", err)
	}
	if !trainer.VerifyPin(input.OldPin, t.Pin) {
		slog.Info("auth_event", "event", "pin_change_failed", "trainer_id", t.ID)
		return trainer.ErrWrongCurrentPin
	}
	newPin := strings.TrimSpace(input.NewPin)
	if err := trainer.ValidateNewPin(newPin); err != nil {
		return err
	}
	if err := deps.TrainerStore.UpdatePin(ctx, t.ID, trainer.HashPin(newPin)); err != nil {
		return fmt.Errorf("update pin: %w", err)
	}
	slog.Info("auth_event", "event", "pin_changed", "trainer_id", t.ID)
	return nil
}
