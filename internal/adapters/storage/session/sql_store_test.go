package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	store "trainerweb/internal/adapters/storage/session"
	"trainerweb/internal/adapters/storage/storagetest"
	domain "trainerweb/internal/domain/session"
)

func TestSQLStore_SaveGetDelete(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	created := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	in := domain.Session{Token: "tok", TrainerID: "T1", Name: "Anna", IsAdmin: true, Role: "Trainer", Rate: 15, CreatedAt: created, ExpiresAt: created.Add(domain.DefaultTTL)}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Refresh must keep created_at.
	refresh := in
	refresh.CreatedAt = created.Add(time.Hour)
	refresh.UpdatedAt = created.Add(time.Hour)
	refresh.ExpiresAt = refresh.UpdatedAt.Add(domain.DefaultTTL)
	if err := s.Save(ctx, refresh); err != nil {
		t.Fatalf("Save refresh: %v", err)
	}

	got, err := s.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if !got.ExpiresAt.Equal(refresh.ExpiresAt) || !got.IsAdmin || got.Rate != 15 {
		t.Errorf("Get = %+v", got)
	}

	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "tok"); !errors.Is(err, domain.ErrExpired) {
		t.Errorf("Get after delete = %v, want ErrExpired", err)
	}
}

func TestSQLStore_DeleteExpired(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC)

	s.Save(ctx, domain.Session{Token: "fresh", TrainerID: "T1", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)})
	s.Save(ctx, domain.Session{Token: "stale", TrainerID: "T1", CreatedAt: now.Add(-10 * time.Hour), ExpiresAt: now.Add(-2 * time.Hour)})
	s.Save(ctx, domain.Session{Token: "legacy", TrainerID: "T2", CreatedAt: now.Add(-9 * time.Hour)})

	n, err := s.DeleteExpired(ctx, now, domain.DefaultTTL)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if _, err := s.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
}
