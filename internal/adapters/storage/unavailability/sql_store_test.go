package unavailability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trainerweb/internal/adapters/storage/storagetest"
	store "trainerweb/internal/adapters/storage/unavailability"
	domain "trainerweb/internal/domain/unavailability"
)

func TestSQLStore_MarkAndClear(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := s.Mark(ctx, domain.Notice{ID: "AB-1", TrainingID: "TR-1", TrainerID: "T1", Reason: "Urlaub", CreatedAt: now}); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	// Marking again updates the reason instead of adding a row.
	if err := s.Mark(ctx, domain.Notice{ID: "AB-2", TrainingID: "TR-1", TrainerID: "T1", Reason: "krank", CreatedAt: now}); err != nil {
		t.Fatalf("Mark again: %v", err)
	}
	s.Mark(ctx, domain.Notice{ID: "AB-3", TrainingID: "TR-2", TrainerID: "T1", CreatedAt: now})

	mine, err := s.ListActiveByTrainer(ctx, "T1")
	if err != nil {
		t.Fatalf("ListActiveByTrainer: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("active = %d, want 2", len(mine))
	}
	if mine[0].ID != "AB-1" || mine[0].Reason != "krank" {
		t.Errorf("first notice = %+v", mine[0])
	}

	if err := s.Clear(ctx, "TR-1", "T1", now); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(ctx, "TR-1", "T1", now); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Clear = %v, want ErrNotFound", err)
	}
	byTraining, _ := s.ListActiveByTraining(ctx, "TR-1")
	if len(byTraining) != 0 {
		t.Errorf("TR-1 notices = %d, want 0", len(byTraining))
	}
}
