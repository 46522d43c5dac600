package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"trainerweb/internal/domain/trainer"
)

// AdminSeedDeps holds the store needed for admin seeding.
type AdminSeedDeps struct {
	TrainerStore adminSeedTrainerStore
}

type adminSeedTrainerStore interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	Save(ctx context.Context, t trainer.Trainer) error
}

// AdminSeedInput names the bootstrap admin. A blank ID disables seeding.
type AdminSeedInput struct {
	ID   string
	Name string
	Pin  string
}

// ExecuteSeedAdmin creates the bootstrap admin if it doesn't already exist.
// It is idempotent and never touches an existing trainer.
// PRE: Database is migrated
// POST: a trainer with input.ID exists; when created it is an active admin with a hashed pin
func ExecuteSeedAdmin(ctx context.Context, input AdminSeedInput, deps AdminSeedDeps) (bool, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return false, nil
	}
	_, err := deps.TrainerStore.GetByID(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, trainer.ErrNotFound) {
		return false, fmt.Errorf("seed admin %s: lookup: %w", id, err)
	}

	pin := strings.TrimSpace(input.Pin)
	if err := trainer.ValidateNewPin(pin); err != nil {
		return false, fmt.Errorf("seed admin %s: %w", id, err)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Admin"
	}
	t := trainer.Trainer{
		ID:          id,
		Name:        name,
		Active:      true,
		IsAdmin:     true,
		DefaultRole: trainer.DefaultRole,
		Pin:         trainer.HashPin(pin),
	}
	if err := deps.TrainerStore.Save(ctx, t); err != nil {
		return false, fmt.Errorf("seed admin %s: save: %w", id, err)
	}
	slog.Info("seed_event", "event", "admin_created", "trainer_id", id)
	return true, nil
}
