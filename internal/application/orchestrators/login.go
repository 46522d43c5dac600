package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/rolerate"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

// TrainerStoreForLogin defines the store interface needed by Login.
type TrainerStoreForLogin interface {
	List(ctx context.Context) ([]trainer.Trainer, error)
	ListActive(ctx context.Context) ([]trainer.Trainer, error)
	UpdatePin(ctx context.Context, id, pin string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// RoleRateStore lists the role rate table.
type RoleRateStore interface {
	List(ctx context.Context) ([]rolerate.Rate, error)
}

// SessionSaver upserts sessions.
type SessionSaver interface {
	Save(ctx context.Context, s session.Session) error
}

// AuthRecorder counts authentication outcomes.
type AuthRecorder interface {
	AuthEvent(event string)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Identifier string // trainer id or name
	Pin        string
	NameOnly   bool // match names of active trainers only
}

// LoginResult carries the issued session.
type LoginResult struct {
	Token   string
	Session session.Session
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	TrainerStore TrainerStoreForLogin
	RoleRates    RoleRateStore
	SessionStore SessionSaver
	Metrics      AuthRecorder // optional; must tolerate a nil receiver
	NewToken     func() (string, error)
	Now          func() time.Time
	TTL          time.Duration
}

// ExecuteLogin resolves the identifier to exactly one trainer, verifies the
// PIN and issues a session.
// PRE: deps are non-nil except Metrics
// POST: On success a session row exists for the returned token, a plaintext
// PIN has been rewritten hashed and last_login is today
// INVARIANT: the PIN is never checked when the identifier is ambiguous or the trainer is inactive
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		deps.authEvent("login_failed", "reason", "blank_identifier")
		return LoginResult{}, trainer.ErrNotFound
	}

	var candidates []trainer.Trainer
	var err error
	if input.NameOnly {
		candidates, err = deps.TrainerStore.ListActive(ctx)
	} else {
		candidates, err = deps.TrainerStore.List(ctx)
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load trainers: %w", err)
	}

	matches := trainer.Match(candidates, identifier, input.NameOnly)
	switch {
	case len(matches) == 0:
		deps.authEvent("login_failed", "reason", "not_found")
		return LoginResult{}, trainer.ErrNotFound
	case len(matches) > 1:
		deps.authEvent("login_ambiguous", "matches", len(matches))
		return LoginResult{}, trainer.NewAmbiguousError(matches, input.NameOnly)
	}

	t := matches[0]
	if !t.Active {
		deps.authEvent("login_blocked", "trainer_id", t.ID, "reason", "inactive")
		return LoginResult{}, trainer.ErrInactive
	}
	if !trainer.VerifyPin(input.Pin, t.Pin) {
		deps.authEvent("login_wrong_pin", "trainer_id", t.ID)
		return LoginResult{}, trainer.ErrWrongPin
	}

	now := deps.Now()
	if !trainer.IsHashedPin(t.Pin) {
		if err := deps.TrainerStore.UpdatePin(ctx, t.ID, trainer.HashPin(t.Pin)); err != nil {
			return LoginResult{}, fmt.Errorf("migrate pin: %w", err)
		}
		slog.Info("auth_event", "event", "pin_migrated", "trainer_id", t.ID)
	}
	if err := deps.TrainerStore.UpdateLastLogin(ctx, t.ID, now); err != nil {
		return LoginResult{}, fmt.Errorf("update last login: %w", err)
	}

	rates, err := deps.RoleRates.List(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("load role rates: %w", err)
	}
	token, err := deps.NewToken()
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate token: %w", err)
	}

	sess := session.Session{
		Token:     token,
		TrainerID: t.ID,
		Email:     t.Email,
		Name:      t.Name,
		IsAdmin:   t.IsAdmin,
		Role:      t.Role(),
		Rate:      rolerate.NewTable(rates).SessionRate(t.Role(), t.DefaultRate),
		Notes:     t.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(deps.TTL),
	}
	if err := deps.SessionStore.Save(ctx, sess); err != nil {
		return LoginResult{}, fmt.Errorf("save session: %w", err)
	}

	deps.authEvent("login_success", "trainer_id", t.ID, "is_admin", t.IsAdmin)
	return LoginResult{Token: token, Session: sess}, nil
}

func (d LoginDeps) authEvent(event string, attrs ...any) {
	slog.Info("auth_event", append([]any{"event", event}, attrs...)...)
	if d.Metrics != nil {
		d.Metrics.AuthEvent(event)
	}
}
