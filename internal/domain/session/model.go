package session

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"trainerweb/internal/domain/apperror"
)

// DefaultTTL applies when no SESSION_TTL_SECONDS is configured.
const DefaultTTL = 8 * time.Hour

// tokenBytes is the entropy of a bearer token before encoding.
const tokenBytes = 24

// ErrExpired is returned when no live session backs a request.
var ErrExpired = apperror.New(apperror.KindUnauthenticated, "Session abgelaufen.")

// Session is a denormalized snapshot of the logged-in trainer keyed by an opaque token.
type Session struct {
	Token     string
	TrainerID string
	Email     string
	Name      string
	IsAdmin   bool
	Role      string
	Rate      float64
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time // zero for legacy rows without explicit expiry
}

// Expired reports whether the session must be treated as absent.
// INVARIANT: an explicit ExpiresAt wins; otherwise the age is measured from
// UpdatedAt, falling back to CreatedAt. A row with no timestamps at all is expired.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	if !s.ExpiresAt.IsZero() {
		return !now.Before(s.ExpiresAt)
	}
	base := s.UpdatedAt
	if base.IsZero() {
		base = s.CreatedAt
	}
	if base.IsZero() {
		return true
	}
	return !now.Before(base.Add(ttl))
}

// CanActOn reports whether this session may mutate a record owned by ownerID.
func (s Session) CanActOn(ownerID string) bool {
	return s.IsAdmin || (ownerID != "" && s.TrainerID == ownerID)
}

// NewToken returns 24 random bytes, base64url-encoded without padding.
// PRE: none
// POST: Returns a 32-character token or the crypto/rand error
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
