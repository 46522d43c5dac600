package rolerate_test

import (
	"context"
	"testing"

	store "trainerweb/internal/adapters/storage/rolerate"
	"trainerweb/internal/adapters/storage/storagetest"
	domain "trainerweb/internal/domain/rolerate"
)

func TestSQLStore_ListSeeded(t *testing.T) {
	rates, err := store.NewSQLStore(storagetest.Open(t)).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rates) != len(domain.Defaults) {
		t.Fatalf("rates = %d, want %d", len(rates), len(domain.Defaults))
	}
	table := domain.NewTable(rates)
	if got := table.BillableRate("Helfer", 20); got != 0 {
		t.Errorf("Helfer billable rate = %v, want 0", got)
	}
	if got := table.SessionRate("Trainer", 0); got != 15 {
		t.Errorf("Trainer rate = %v, want 15", got)
	}
}
