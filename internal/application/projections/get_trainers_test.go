package projections

import (
	"context"
	"errors"
	"testing"

	"trainerweb/internal/domain/rolerate"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/trainer"
)

func TestQueryGetActiveTrainers(t *testing.T) {
	store := append(clubTrainers(), trainer.Trainer{ID: "T4", Name: "  ", Active: true})

	items, err := QueryGetActiveTrainers(context.Background(), store)
	if err != nil {
		t.Fatalf("QueryGetActiveTrainers: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items = %+v, want the three active trainers", items)
	}

	names, err := QueryGetActiveTrainerNames(context.Background(), store)
	if err != nil {
		t.Fatalf("QueryGetActiveTrainerNames: %v", err)
	}
	if !equalStrings(names, []string{"Anna", "Ben"}) {
		t.Errorf("names = %v, want [Anna Ben]", names)
	}
}

func TestNewTrainerView_HidesPin(t *testing.T) {
	tests := []struct {
		name       string
		pin        string
		wantSet    bool
		wantHashed bool
	}{
		{"no pin", "", false, false},
		{"legacy plaintext", "1234", true, false},
		{"hashed", trainer.HashPin("1234"), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewTrainerView(trainer.Trainer{ID: "T1", Name: "Anna", Pin: tt.pin})
			if v.PinSet != tt.wantSet || v.PinHashed != tt.wantHashed {
				t.Errorf("PinSet/PinHashed = %v/%v, want %v/%v", v.PinSet, v.PinHashed, tt.wantSet, tt.wantHashed)
			}
			if v.Role != trainer.DefaultRole {
				t.Errorf("Role = %q, want default", v.Role)
			}
		})
	}
}

func TestQueryGetMe(t *testing.T) {
	v, err := QueryGetMe(context.Background(), "T2", clubTrainers())
	if err != nil {
		t.Fatalf("QueryGetMe: %v", err)
	}
	if v.Name != "Ben" || v.Rate != 10 {
		t.Errorf("got %+v", v)
	}
	if _, err := QueryGetMe(context.Background(), "T9", clubTrainers()); !errors.Is(err, trainer.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryGetRoles(t *testing.T) {
	t.Run("empty table falls back to defaults", func(t *testing.T) {
		got, err := QueryGetRoles(context.Background(), fakeRates{})
		if err != nil {
			t.Fatalf("QueryGetRoles: %v", err)
		}
		if len(got) != len(rolerate.Defaults) || got[2].Role != "Helfer" || got[2].Billable {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("configured rates", func(t *testing.T) {
		got, err := QueryGetRoles(context.Background(), fakeRates{{Role: "Betreuer", Rate: 8, Billable: true}})
		if err != nil {
			t.Fatalf("QueryGetRoles: %v", err)
		}
		if len(got) != 1 || got[0].Rate != 8 {
			t.Errorf("got %+v", got)
		}
	})
}

func TestQueryGetTournamentDetail(t *testing.T) {
	store := &fakeTournaments{
		tournaments: []tournament.Tournament{{ID: "TU1", Name: "Winterpokal", DateFrom: day(2025, 2, 1), KmRate: 0.3}},
		rows: []tournament.Assignment{
			{ID: "R2", TournamentID: "TU1", TrainerID: "T2", Status: tournament.StatusRegistered},
			{ID: "R1", TournamentID: "TU1", TrainerID: "T1", Status: tournament.StatusPresent},
			{ID: "R3", TournamentID: "TU1", TrainerID: "T3", Status: tournament.StatusRegistered},
		},
		trips: []tournament.Trip{{ID: "F1", TournamentID: "TU1", DriverID: "T1", KmTotal: 50}},
	}
	deps := GetTournamentDetailDeps{Tournaments: store, Trainers: clubTrainers()}

	got, err := QueryGetTournamentDetail(context.Background(), GetTournamentDetailQuery{TournamentID: "TU1", TrainerID: "T1"}, deps)
	if err != nil {
		t.Fatalf("QueryGetTournamentDetail: %v", err)
	}
	if len(got.Rows) != 3 || got.Rows[0].TrainerName != "Anna" || got.Rows[2].TrainerName != "Cem" {
		t.Errorf("Rows = %+v, want ordered by name", got.Rows)
	}
	if got.Mine == nil || got.Mine.ID != "R1" || !got.Mine.Present {
		t.Errorf("Mine = %+v", got.Mine)
	}
	if got.MyTrip == nil || got.MyTrip.Amount != 15 {
		t.Errorf("MyTrip = %+v, want 15", got.MyTrip)
	}
	if got.Counts["EINGETRAGEN"] != 2 || got.Counts["JA"] != 1 {
		t.Errorf("Counts = %v", got.Counts)
	}

	if _, err := QueryGetTournamentDetail(context.Background(), GetTournamentDetailQuery{TournamentID: "TU9"}, deps); !errors.Is(err, tournament.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryGetTournaments_SortedByDate(t *testing.T) {
	store := &fakeTournaments{tournaments: []tournament.Tournament{
		{ID: "B", DateFrom: day(2025, 6, 1)},
		{ID: "A", DateFrom: day(2025, 1, 1)},
	}}
	got, err := QueryGetTournaments(context.Background(), store)
	if err != nil {
		t.Fatalf("QueryGetTournaments: %v", err)
	}
	if len(got) != 2 || got[0].ID != "A" {
		t.Errorf("got %+v", got)
	}
}
