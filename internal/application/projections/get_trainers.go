package projections

import (
	"context"
	"fmt"
	"strings"

	domainRate "trainerweb/internal/domain/rolerate"
	domainTrainer "trainerweb/internal/domain/trainer"
)

// ActiveTrainerLister lists active trainers.
type ActiveTrainerLister interface {
	ListActive(ctx context.Context) ([]domainTrainer.Trainer, error)
}

// ActiveTrainerView is the public login-picker entry of a trainer.
type ActiveTrainerView struct {
	TrainerID string `json:"trainer_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// QueryGetActiveTrainers lists active trainers for the login picker.
func QueryGetActiveTrainers(ctx context.Context, store ActiveTrainerLister) ([]ActiveTrainerView, error) {
	ts, err := store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active trainers: %w", err)
	}
	items := make([]ActiveTrainerView, 0, len(ts))
	for _, t := range ts {
		items = append(items, ActiveTrainerView{TrainerID: t.ID, Name: t.Name, Email: t.Email})
	}
	return items, nil
}

// QueryGetActiveTrainerNames lists the names of active trainers, blanks skipped.
func QueryGetActiveTrainerNames(ctx context.Context, store ActiveTrainerLister) ([]string, error) {
	ts, err := store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active trainers: %w", err)
	}
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		if n := strings.TrimSpace(t.Name); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// TrainerView is the admin and self-service form of a trainer. The pin never leaves the server.
type TrainerView struct {
	TrainerID string  `json:"trainer_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Active    bool    `json:"aktiv"`
	Role      string  `json:"rolle_standard"`
	Rate      float64 `json:"stundensatz"`
	Notes     string  `json:"notizen"`
	IsAdmin   bool    `json:"is_admin"`
	PinSet    bool    `json:"pin_gesetzt"`
	PinHashed bool    `json:"pin_gehasht"`
	LastLogin string  `json:"last_login"`
}

// NewTrainerView maps a trainer without its pin.
func NewTrainerView(t domainTrainer.Trainer) TrainerView {
	return TrainerView{
		TrainerID: t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Active:    t.Active,
		Role:      t.Role(),
		Rate:      t.DefaultRate,
		Notes:     t.Notes,
		IsAdmin:   t.IsAdmin,
		PinSet:    t.Pin != "",
		PinHashed: domainTrainer.IsHashedPin(t.Pin),
		LastLogin: formatDate(t.LastLogin),
	}
}

// QueryGetAdminTrainers lists every trainer for administration.
func QueryGetAdminTrainers(ctx context.Context, store TrainerLister) ([]TrainerView, error) {
	ts, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	items := make([]TrainerView, 0, len(ts))
	for _, t := range ts {
		items = append(items, NewTrainerView(t))
	}
	return items, nil
}

// TrainerGetter loads one trainer.
type TrainerGetter interface {
	GetByID(ctx context.Context, id string) (domainTrainer.Trainer, error)
}

// QueryGetMe returns the stored record of the session trainer.
// POST: Returns domainTrainer.ErrNotFound when the trainer was removed
func QueryGetMe(ctx context.Context, trainerID string, store TrainerGetter) (TrainerView, error) {
	t, err := store.GetByID(ctx, trainerID)
	if err != nil {
		return TrainerView{}, err
	}
	return NewTrainerView(t), nil
}

// RoleRateView is one configured role.
type RoleRateView struct {
	Role     string  `json:"rolle"`
	Rate     float64 `json:"stundensatz_eur"`
	Billable bool    `json:"abrechenbar"`
}

// QueryGetRoles lists role rates. An empty table falls back to the built-in defaults.
func QueryGetRoles(ctx context.Context, store RoleRateLister) ([]RoleRateView, error) {
	rates, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list role rates: %w", err)
	}
	if len(rates) == 0 {
		rates = domainRate.Defaults
	}
	items := make([]RoleRateView, 0, len(rates))
	for _, r := range rates {
		items = append(items, RoleRateView{Role: r.Role, Rate: r.Rate, Billable: r.Billable})
	}
	return items, nil
}
