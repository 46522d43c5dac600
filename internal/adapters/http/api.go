package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"trainerweb/internal/adapters/http/middleware"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

// maxBodyBytes caps JSON request bodies. Imports use their own limit.
const maxBodyBytes = 1 << 20

// msgInternal is shown for every error that is not a business error.
const msgInternal = "Interner Fehler."

// envelope is the JSON response shape; ok is added by writeOK/writeError.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// writeOK answers {ok:true, ...fields}.
func writeOK(w http.ResponseWriter, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["ok"] = true
	writeJSON(w, http.StatusOK, body)
}

// writeError answers a failure with status 200.
// Business errors carry their German message; anything else is logged as
// internal_error and answered generically so storage detail never leaks.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var amb *trainer.AmbiguousError
	if errors.As(err, &amb) {
		writeJSON(w, http.StatusOK, envelope{"ok": false, "error": amb.Error(), "candidates": amb.Candidates})
		return
	}
	if e, ok := apperror.As(err); ok {
		writeJSON(w, http.StatusOK, envelope{"ok": false, "error": e.Message})
		return
	}
	internalError(w, r, err)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSON(w, http.StatusOK, envelope{"ok": false, "error": msgInternal})
}

func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{"ok": false, "error": "Endpoint nicht gefunden."})
}

func denyTooManyRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"ok": false, "error": "Zu viele Anmeldeversuche. Bitte kurz warten."})
}

// request gives handlers uniform access to query and body values.
// A value is looked up in the query string first, then in the JSON body.
type request struct {
	r    *http.Request
	body map[string]any
}

// readRequest decodes the JSON body once. An empty or non-object body reads
// as no fields.
func readRequest(r *http.Request) request {
	req := request{r: r, body: map[string]any{}}
	if r.Body == nil {
		return req
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return req
	}
	var m map[string]any
	if json.Unmarshal(raw, &m) == nil && m != nil {
		req.body = m
	}
	return req
}

// has reports whether key is present in the query or body.
func (q request) has(key string) bool {
	if _, ok := q.r.URL.Query()[key]; ok {
		return true
	}
	_, ok := q.body[key]
	return ok
}

// str returns the value for key as a trimmed string.
func (q request) str(key string) string {
	if vs, ok := q.r.URL.Query()[key]; ok && len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return strings.TrimSpace(stringOf(q.body[key]))
}

// payload returns body["payload"] when it is an object, else the body itself.
func (q request) payload() fields {
	if p, ok := q.body["payload"].(map[string]any); ok {
		return p
	}
	return q.body
}

// fields is a decoded JSON object with lenient typed accessors.
type fields map[string]any

func (f fields) str(key string) string {
	return strings.TrimSpace(stringOf(f[key]))
}

func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// number returns the numeric value for key; blank or malformed reads as 0.
func (f fields) number(key string) float64 {
	n, _ := floatOf(f[key])
	return n
}

// whole returns the integer value for key. Fractional, non-finite or
// out-of-range numbers read as -1, which callers reject or clamp.
func (f fields) whole(key string) int {
	n := f.number(key)
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return -1
	}
	return int(n)
}

// truthy applies trainer.ParseTruthy; def is returned when key is absent.
func (f fields) truthy(key string, def bool) bool {
	v, ok := f[key]
	if !ok || v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return trainer.ParseTruthy(stringOf(v))
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case json.Number:
		return t.String()
	}
	return ""
}

func floatOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		n, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(t), ",", ".", 1), 64)
		return n, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// requireSession resolves the bearer token and stores the session in the
// request context.
// POST: Downstream handlers can call currentSession; failures answer
// "Session abgelaufen." with status 200
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := orchestrators.ExecuteResolveSession(r.Context(), middleware.TokenFromRequest(r), s.sessionDeps())
		if err != nil {
			if errors.Is(err, session.ErrExpired) {
				s.collector.AuthEvent("session_rejected")
			}
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
	})
}

// requireAdmin rejects non-admin sessions.
// PRE: runs after requireSession
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if !sess.IsAdmin {
			slog.Warn("auth_denied", "path", r.URL.Path, "trainer_id", sess.TrainerID, "required", "admin")
			writeError(w, r, apperror.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentSession returns the session placed by requireSession.
func currentSession(r *http.Request) session.Session {
	sess, _ := middleware.SessionFrom(r.Context())
	return sess
}
