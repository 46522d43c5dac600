package audit_test

import (
	"context"
	"testing"
	"time"

	store "trainerweb/internal/adapters/storage/audit"
	"trainerweb/internal/adapters/storage/storagetest"
	domain "trainerweb/internal/domain/audit"
)

func TestSQLStore_SaveAndFilter(t *testing.T) {
	s := store.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	events := []domain.Event{
		domain.NewEvent(t0, "admin", "admin", domain.CategoryTrainer, domain.ActionResetPin).WithResource("trainer", "T1"),
		domain.NewEvent(t0.Add(time.Minute), "admin", "admin", domain.CategoryBilling, domain.ActionSetStatus).WithResource("month", "2025-02"),
		domain.NewEvent(t0.Add(2*time.Minute), "T1", "trainer", domain.CategoryTraining, domain.ActionUpdate).WithResource("training", "TR-2025-001"),
	}
	for _, e := range events {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.List(ctx, store.Filter{}, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ActorID != "T1" {
		t.Fatalf("List = %+v, want newest first", all)
	}

	admin := "admin"
	billing := domain.CategoryBilling
	tests := []struct {
		name   string
		filter store.Filter
		limit  int
		want   int
	}{
		{"by actor", store.Filter{ActorID: &admin}, 10, 2},
		{"by category", store.Filter{Category: &billing}, 10, 1},
		{"from", store.Filter{From: t0.Add(time.Minute)}, 10, 2},
		{"to", store.Filter{To: t0}, 10, 1},
		{"limit", store.Filter{}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d, want %d", len(got), tt.want)
			}
		})
	}
}
