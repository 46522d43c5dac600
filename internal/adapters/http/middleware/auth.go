package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"trainerweb/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie carrying the UI session token.
const SessionCookieName = "trainerweb_session"

// SecureCookies marks session cookies Secure. Set in production.
var SecureCookies = false

// maxTokenBody caps how much of a JSON body is read to find a token.
const maxTokenBody = 1 << 20

// WithSession returns a context carrying the resolved session.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFrom extracts the session placed by WithSession.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(session.Session)
	return s, ok
}

// TokenFromRequest finds the bearer token of a request.
// Sources, in order: the token query parameter, the token field of a JSON
// body, the Authorization Bearer header, the session cookie.
// POST: A consumed JSON body is restored so handlers can decode it again
func TokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	if t := tokenFromBody(r); t != "" {
		return t
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		if t := strings.TrimSpace(h[7:]); t != "" {
			return t
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func tokenFromBody(r *http.Request) string {
	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBody))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var tokenField struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(raw, &tokenField) != nil {
		return ""
	}
	return strings.TrimSpace(tokenField.Token)
}

// SetSessionCookie sets the UI session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
