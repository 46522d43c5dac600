package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"trainerweb/internal/domain/session"
)

func TestExecuteResolveSession(t *testing.T) {
	ttl := 8 * time.Hour
	live := session.Session{Token: "live", TrainerID: "T1", ExpiresAt: fixedTime.Add(time.Hour)}
	expired := session.Session{Token: "old", TrainerID: "T2", ExpiresAt: fixedTime.Add(-time.Minute)}
	legacy := session.Session{Token: "legacy", TrainerID: "T3", CreatedAt: fixedTime.Add(-9 * time.Hour)}
	store := newMemSessionStore(live, expired, legacy)
	deps := SessionDeps{SessionStore: store, Now: fixedNow, TTL: ttl}

	got, err := ExecuteResolveSession(context.Background(), " live ", deps)
	if err != nil || got.TrainerID != "T1" {
		t.Fatalf("live session = %+v, %v", got, err)
	}

	for _, token := range []string{"", "missing", "old", "legacy"} {
		if _, err := ExecuteResolveSession(context.Background(), token, deps); !errors.Is(err, session.ErrExpired) {
			t.Errorf("token %q: err = %v, want ErrExpired", token, err)
		}
	}
	if _, ok := store.sessions["old"]; ok {
		t.Error("expired session should be purged on read")
	}
	if _, ok := store.sessions["legacy"]; ok {
		t.Error("legacy session past TTL should be purged on read")
	}
}

func TestExecuteLogout(t *testing.T) {
	store := newMemSessionStore(session.Session{Token: "tok", TrainerID: "T1"})
	deps := SessionDeps{SessionStore: store, Now: fixedNow, TTL: time.Hour}

	if err := ExecuteLogout(context.Background(), "", deps); err != nil {
		t.Fatalf("blank logout: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Error("blank token must not reach the store")
	}
	if err := ExecuteLogout(context.Background(), "tok", deps); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := store.sessions["tok"]; ok {
		t.Error("session still present after logout")
	}
	if err := ExecuteLogout(context.Background(), "tok", deps); err != nil {
		t.Errorf("second logout should be a no-op, got %v", err)
	}
}

func TestExecuteSweepSessions(t *testing.T) {
	store := newMemSessionStore(
		session.Session{Token: "a", ExpiresAt: fixedTime.Add(-time.Second)},
		session.Session{Token: "b", ExpiresAt: fixedTime.Add(time.Hour)},
		session.Session{Token: "c", UpdatedAt: fixedTime.Add(-2 * time.Hour)},
	)
	n, err := ExecuteSweepSessions(context.Background(), SweepSessionsDeps{SessionStore: store, Now: fixedNow, TTL: time.Hour})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 2 || len(store.sessions) != 1 {
		t.Errorf("deleted = %d, remaining = %d", n, len(store.sessions))
	}
}

func TestRunSessionSweeper_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunSessionSweeper(ctx, time.Millisecond, SweepSessionsDeps{SessionStore: newMemSessionStore(), Now: fixedNow, TTL: time.Hour})
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunSessionSweeper = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
