package trainer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trainerweb/internal/adapters/storage/storagetest"
	store "trainerweb/internal/adapters/storage/trainer"
	domain "trainerweb/internal/domain/trainer"
)

func TestSQLStore_SaveAndGet(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	in := domain.Trainer{ID: "T1", Name: "Anna Berg", Email: "anna@verein.de", Active: true, DefaultRate: 12.5, Pin: domain.HashPin("1234")}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.GetByID(ctx, "T1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != in.Name || got.DefaultRole != domain.DefaultRole || got.DefaultRate != 12.5 || !got.Active || got.IsAdmin {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !domain.VerifyPin("1234", got.Pin) {
		t.Error("stored pin should verify")
	}

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_ListActive(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	batch := []domain.Trainer{
		{ID: "T2", Name: "Ben", Active: true},
		{ID: "T1", Name: "Anna", Active: true},
		{ID: "T3", Name: "Carl", Active: false},
	}
	if err := s.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	all, _ := s.List(ctx)
	if len(all) != 3 {
		t.Fatalf("List = %d, want 3", len(all))
	}
	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 || active[0].Name != "Anna" || active[1].Name != "Ben" {
		t.Errorf("ListActive = %+v", active)
	}
}

func TestSQLStore_Updates(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	s.Save(ctx, domain.Trainer{ID: "T1", Name: "Anna", Active: true, Pin: "1234"})
	s.Save(ctx, domain.Trainer{ID: "T2", Name: "Ben", Active: true, Pin: "5555"})

	if err := s.UpdatePin(ctx, "T1", domain.HashPin("9999")); err != nil {
		t.Fatalf("UpdatePin: %v", err)
	}
	if err := s.UpdatePin(ctx, "nobody", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdatePin(nobody) = %v", err)
	}
	if err := s.UpdatePins(ctx, map[string]string{"T2": domain.HashPin("5555")}); err != nil {
		t.Fatalf("UpdatePins: %v", err)
	}
	day := time.Date(2025, 3, 4, 15, 0, 0, 0, time.UTC)
	if err := s.UpdateLastLogin(ctx, "T1", day); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}
	email := "anna@neu.de"
	if err := s.UpdateProfile(ctx, "T1", &email, nil); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	t1, _ := s.GetByID(ctx, "T1")
	if !domain.VerifyPin("9999", t1.Pin) {
		t.Error("T1 pin not updated")
	}
	if !t1.LastLogin.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("LastLogin = %v", t1.LastLogin)
	}
	if t1.Email != email || t1.Notes != "" {
		t.Errorf("profile = %q/%q", t1.Email, t1.Notes)
	}
	t2, _ := s.GetByID(ctx, "T2")
	if !domain.IsHashedPin(t2.Pin) || !domain.VerifyPin("5555", t2.Pin) {
		t.Errorf("T2 pin = %q", t2.Pin)
	}
}
