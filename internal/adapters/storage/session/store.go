package session

import (
	"context"
	"time"

	domain "trainerweb/internal/domain/session"
)

// Store persists login sessions.
type Store interface {
	// Get returns the session for token.
	// POST: Returns domain.ErrExpired when the token is unknown
	Get(ctx context.Context, token string) (domain.Session, error)
	// Save inserts or refreshes a session; created_at of an existing row is kept.
	Save(ctx context.Context, s domain.Session) error
	// Delete removes a session. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes every session expired at now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
}

var _ Store = (*SQLStore)(nil)
