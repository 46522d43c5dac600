package projections

import (
	"context"
	"testing"
	"time"

	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/training"
)

// clubTrainings is shared by the bootstrap, detail and dashboard tests.
//
//	TR-1 01.03. held     (past)
//	TR-2 04.03. planned  (today)
//	TR-3 10.03. planned
//	TR-4 06.03. canceled
//	TR-5 08.03. planned, deleted
func clubTrainings() fakeTrainings {
	mk := func(id string, d time.Time, status training.Status, required int) training.Training {
		return training.Training{ID: id, Date: d, Start: "18:00", End: "19:30", Group: "U12", Location: "Halle", Status: status, Required: required}
	}
	deleted := mk("TR-5", day(2025, 3, 8), training.StatusPlanned, 2)
	deleted.DeletedAt = day(2025, 3, 1)
	return fakeTrainings{
		mk("TR-1", day(2025, 3, 1), training.StatusHeld, 2),
		mk("TR-2", day(2025, 3, 4), training.StatusPlanned, 2),
		mk("TR-3", day(2025, 3, 10), training.StatusPlanned, 2),
		mk("TR-4", day(2025, 3, 6), training.StatusCanceled, 1),
		deleted,
	}
}

func clubAssignments() fakeAssignments {
	return fakeAssignments{
		{ID: "A1", TrainingID: "TR-1", TrainerID: "T1", Role: "Trainer", Attendance: true, CheckinAt: time.Date(2025, 3, 1, 18, 5, 0, 0, time.UTC)},
		{ID: "A2", TrainingID: "TR-3", TrainerID: "T1", Role: "Trainer"},
		{ID: "A3", TrainingID: "TR-2", TrainerID: "T2"},
		{ID: "A4", TrainingID: "TR-2", TrainerID: "T1", Role: "Trainer", WithdrawnAt: day(2025, 3, 2)},
		{ID: "A6", TrainingID: "TR-1", TrainerID: "T2", Role: "Co-Trainer"},
	}
}

func clubTrainers() fakeTrainers {
	return fakeTrainers{
		{ID: "T1", Name: "Anna", Active: true, DefaultRole: "Trainer", DefaultRate: 15},
		{ID: "T2", Name: "Ben", Active: true, DefaultRole: "Co-Trainer", DefaultRate: 10},
		{ID: "T3", Name: "Cem", Active: false},
	}
}

func TestQueryGetBootstrap(t *testing.T) {
	ctx := context.Background()
	km := 0.3
	deps := GetBootstrapDeps{
		Trainings:   clubTrainings(),
		Assignments: clubAssignments(),
		Notices: fakeNotices{
			{ID: "N1", TrainingID: "TR-4", TrainerID: "T1", Reason: "krank"},
			{ID: "N2", TrainingID: "TR-3", TrainerID: "T2"},
			{ID: "N3", TrainingID: "TR-2", TrainerID: "T1", DeletedAt: day(2025, 3, 2)},
		},
		Tournaments: &fakeTournaments{
			tournaments: []tournament.Tournament{
				{ID: "TU1", Name: "Winterpokal", DateFrom: day(2025, 2, 1), DateTo: day(2025, 2, 2), KmRate: km},
				{ID: "TU2", Name: "Frühjahrsturnier", DateFrom: day(2025, 5, 10), KmRate: km},
				{ID: "TU3", Name: "Neujahrsturnier", DateFrom: day(2025, 1, 10), KmRate: km},
			},
			rows: []tournament.Assignment{
				{ID: "R1", TournamentID: "TU2", TrainerID: "T1", Status: tournament.StatusRegistered},
				{ID: "R2", TournamentID: "TU2", TrainerID: "T2", Status: tournament.StatusRegistered},
			},
			trips: []tournament.Trip{
				{ID: "F1", TournamentID: "TU2", DriverID: "T1", KmTotal: 100},
			},
		},
	}
	query := GetBootstrapQuery{
		Session: session.Session{TrainerID: "T1", Name: "Anna", Role: "Trainer", Rate: 15},
		Now:     now,
	}

	got, err := QueryGetBootstrap(ctx, query, deps)
	if err != nil {
		t.Fatalf("QueryGetBootstrap: %v", err)
	}

	if got.User.TrainerID != "T1" || got.User.Name != "Anna" {
		t.Errorf("User = %+v", got.User)
	}
	if len(got.AllTrainings) != 4 {
		t.Fatalf("AllTrainings = %d, want 4 (deleted excluded)", len(got.AllTrainings))
	}
	if ids := trainingIDs(got.Upcoming); !equalStrings(ids, []string{"TR-2", "TR-3"}) {
		t.Fatalf("Upcoming = %v, want [TR-2 TR-3]", ids)
	}

	tr2 := got.Upcoming[0]
	if tr2.Assigned != 1 || tr2.Open != 1 || tr2.OpenText != "Noch 1 Trainer" {
		t.Errorf("TR-2 occupancy = %d/%d %q", tr2.Assigned, tr2.Open, tr2.OpenText)
	}
	if tr2.Date != "04.03.2025" || tr2.DateISO != "2025-03-04" {
		t.Errorf("TR-2 dates = %q %q", tr2.Date, tr2.DateISO)
	}
	for _, v := range got.AllTrainings {
		if want := v.ID == "TR-4"; v.IsUnavailable != want {
			t.Errorf("%s IsUnavailable = %v, want %v", v.ID, v.IsUnavailable, want)
		}
	}

	if len(got.MineActive) != 2 || got.MineActive[0].ID != "A1" || got.MineActive[1].ID != "A2" {
		t.Fatalf("MineActive = %+v, want A1 then A2", got.MineActive)
	}
	if got.MineActive[0].CheckinAt != "01.03.2025 18:05" {
		t.Errorf("CheckinAt = %q", got.MineActive[0].CheckinAt)
	}

	if len(got.MyUnavailable) != 1 || got.MyUnavailable[0].TrainingID != "TR-4" || got.MyUnavailable[0].Reason != "krank" {
		t.Errorf("MyUnavailable = %+v", got.MyUnavailable)
	}

	if len(got.TournamentsNext) != 1 || got.TournamentsNext[0].ID != "TU2" {
		t.Errorf("TournamentsNext = %+v", got.TournamentsNext)
	}
	if len(got.TournamentsPast) != 2 || got.TournamentsPast[0].ID != "TU1" || got.TournamentsPast[1].ID != "TU3" {
		t.Fatalf("TournamentsPast = %+v, want TU1 then TU3", got.TournamentsPast)
	}
	if got.TournamentsPast[0].Days != 2 {
		t.Errorf("TU1 Days = %d, want 2", got.TournamentsPast[0].Days)
	}
	if len(got.MyTournamentRows) != 1 || got.MyTournamentRows[0].ID != "R1" {
		t.Errorf("MyTournamentRows = %+v", got.MyTournamentRows)
	}
	if len(got.MyTrips) != 1 || got.MyTrips[0].Amount != 30 {
		t.Errorf("MyTrips = %+v, want one trip worth 30", got.MyTrips)
	}
}

func TestQueryGetBootstrap_EmptyListsAreNotNil(t *testing.T) {
	deps := GetBootstrapDeps{
		Trainings:   fakeTrainings{},
		Assignments: fakeAssignments{},
		Notices:     fakeNotices{},
		Tournaments: &fakeTournaments{},
	}
	got, err := QueryGetBootstrap(context.Background(), GetBootstrapQuery{Session: session.Session{TrainerID: "T9"}, Now: now}, deps)
	if err != nil {
		t.Fatalf("QueryGetBootstrap: %v", err)
	}
	if got.Upcoming == nil || got.AllTrainings == nil || got.MineActive == nil || got.MyUnavailable == nil ||
		got.TournamentsNext == nil || got.TournamentsPast == nil || got.MyTournamentRows == nil || got.MyTrips == nil {
		t.Errorf("nil slice in %+v", got)
	}
}

func trainingIDs(vs []TrainingView) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	_ BootstrapAssignmentStore = fakeAssignments{}
	_ BootstrapTournamentStore = (*fakeTournaments)(nil)
	_ BillingTournamentStore   = (*fakeTournaments)(nil)
	_ TournamentDetailStore    = (*fakeTournaments)(nil)
	_ TrainerLister            = fakeTrainers{}
)
