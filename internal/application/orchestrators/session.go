package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/session"
)

// SessionStoreForResolve defines the store interface needed to resolve and end sessions.
type SessionStoreForResolve interface {
	Get(ctx context.Context, token string) (session.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionDeps holds dependencies for session resolution and logout.
type SessionDeps struct {
	SessionStore SessionStoreForResolve
	Now          func() time.Time
	TTL          time.Duration
}

// ExecuteResolveSession returns the live session behind a token.
// PRE: none
// POST: Returns session.ErrExpired for blank, unknown or expired tokens;
// an expired row has been deleted
func ExecuteResolveSession(ctx context.Context, token string, deps SessionDeps) (session.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return session.Session{}, session.ErrExpired
	}
	s, err := deps.SessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			return session.Session{}, err
		}
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}
	if s.Expired(deps.Now(), deps.TTL) {
		if err := deps.SessionStore.Delete(ctx, token); err != nil {
			slog.Warn("session_purge_failed", "trainer_id", s.TrainerID, "error", err)
		}
		return session.Session{}, session.ErrExpired
	}
	return s, nil
}

// ExecuteLogout deletes the session. Blank or unknown tokens are a no-op.
func ExecuteLogout(ctx context.Context, token string, deps SessionDeps) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := deps.SessionStore.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}

// SessionStoreForSweep defines the store interface needed by the sweeper.
type SessionStoreForSweep interface {
	DeleteExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
}

// SweepSessionsDeps holds dependencies for the session sweeper.
type SweepSessionsDeps struct {
	SessionStore SessionStoreForSweep
	Now          func() time.Time
	TTL          time.Duration
}

// ExecuteSweepSessions purges every expired session once.
// POST: Returns the number of deleted rows
func ExecuteSweepSessions(ctx context.Context, deps SweepSessionsDeps) (int, error) {
	n, err := deps.SessionStore.DeleteExpired(ctx, deps.Now(), deps.TTL)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		slog.Info("session_sweep", "deleted", n)
	}
	return n, nil
}

// RunSessionSweeper sweeps every interval until ctx is cancelled.
// Sweep failures are logged and do not stop the loop.
// POST: Returns nil when ctx is done
func RunSessionSweeper(ctx context.Context, interval time.Duration, deps SweepSessionsDeps) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := ExecuteSweepSessions(ctx, deps); err != nil && ctx.Err() == nil {
				slog.Error("session_sweep_failed", "error", err)
			}
		}
	}
}
