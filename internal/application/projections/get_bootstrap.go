package projections

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainAssignment "trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/session"
	domainTournament "trainerweb/internal/domain/tournament"
	domainTraining "trainerweb/internal/domain/training"
)

// BootstrapAssignmentStore defines the assignment store interface needed by the bootstrap projection.
type BootstrapAssignmentStore interface {
	ActiveCountStore
	ListByTrainer(ctx context.Context, trainerID string) ([]domainAssignment.Assignment, error)
}

// BootstrapTournamentStore defines the tournament store interface needed by the bootstrap projection.
type BootstrapTournamentStore interface {
	TournamentLister
	ListAssignmentsByTrainer(ctx context.Context, trainerID string) ([]domainTournament.Assignment, error)
	ListTripsByTrainer(ctx context.Context, driverID string) ([]domainTournament.Trip, error)
}

// GetBootstrapQuery carries input for the bootstrap projection.
type GetBootstrapQuery struct {
	Session session.Session
	Now     time.Time // in the club's timezone
}

// GetBootstrapDeps holds dependencies for the bootstrap projection.
type GetBootstrapDeps struct {
	Trainings   TrainingLister
	Assignments BootstrapAssignmentStore
	Notices     NoticeByTrainerStore
	Tournaments BootstrapTournamentStore
}

// UnavailableView names a training the trainer declared unavailable for.
type UnavailableView struct {
	TrainingID string `json:"training_id"`
	Reason     string `json:"grund"`
	Label      string `json:"label"`
}

// GetBootstrapResult carries the output of the bootstrap projection.
type GetBootstrapResult struct {
	User             UserView                   `json:"user"`
	Upcoming         []TrainingView             `json:"upcoming"`
	AllTrainings     []TrainingView             `json:"allTrainings"`
	MineActive       []AssignmentView           `json:"mineActive"`
	MyUnavailable    []UnavailableView          `json:"myUnavailable"`
	TournamentsNext  []TournamentView           `json:"turniere_upcoming"`
	TournamentsPast  []TournamentView           `json:"turniere_past"`
	MyTournamentRows []TournamentAssignmentView `json:"my_turniere"`
	MyTrips          []TripView                 `json:"my_fahrten"`
}

// QueryGetBootstrap assembles everything the trainer start page shows.
// PRE: query.Session is resolved
// POST: Upcoming holds planned trainings dated today or later, ordered by date;
// past tournaments are ordered newest first
func QueryGetBootstrap(ctx context.Context, query GetBootstrapQuery, deps GetBootstrapDeps) (GetBootstrapResult, error) {
	me := query.Session.TrainerID
	today := dayOf(query.Now)
	result := GetBootstrapResult{
		User:             NewUserView(query.Session),
		Upcoming:         []TrainingView{},
		AllTrainings:     []TrainingView{},
		MineActive:       []AssignmentView{},
		MyUnavailable:    []UnavailableView{},
		TournamentsNext:  []TournamentView{},
		TournamentsPast:  []TournamentView{},
		MyTournamentRows: []TournamentAssignmentView{},
		MyTrips:          []TripView{},
	}

	trainings, err := deps.Trainings.List(ctx)
	if err != nil {
		return GetBootstrapResult{}, fmt.Errorf("list trainings: %w", err)
	}
	counts, err := deps.Assignments.CountActiveByTraining(ctx)
	if err != nil {
		return GetBootstrapResult{}, fmt.Errorf("count assignments: %w", err)
	}
	notices, err := deps.Notices.ListActiveByTrainer(ctx, me)
	if err != nil {
		return GetBootstrapResult{}, fmt.Errorf("list notices: %w", err)
	}
	unavailable := make(map[string]bool, len(notices))
	for _, n := range notices {
		unavailable[n.TrainingID] = true
	}

	byID := make(map[string]domainTraining.Training, len(trainings))
	for _, t := range trainings {
		byID[t.ID] = t
		v := NewTrainingView(t, counts[t.ID])
		v.IsUnavailable = unavailable[t.ID]
		result.AllTrainings = append(result.AllTrainings, v)
		if t.Status == domainTraining.StatusPlanned && !t.Date.Before(today) {
			result.Upcoming = append(result.Upcoming, v)
		}
	}

	mine, err := deps.Assignments.ListByTrainer(ctx, me)
	if err != nil {
		return GetBootstrapResult{}, fmt.Errorf("list own assignments: %w", err)
	}
	for _, a := range mine {
		if !a.Active() {
			continue
		}
		t, ok := byID[a.TrainingID]
		result.MineActive = append(result.MineActive, NewAssignmentView(a, t, ok))
	}
	sort.SliceStable(result.MineActive, func(i, j int) bool {
		return result.MineActive[i].DateTs < result.MineActive[j].DateTs
	})

	for _, n := range notices {
		label := n.TrainingID
		if t, ok := byID[n.TrainingID]; ok {
			label = t.Label()
		}
		result.MyUnavailable = append(result.MyUnavailable, UnavailableView{TrainingID: n.TrainingID, Reason: n.Reason, Label: label})
	}

	if err := addTournaments(ctx, &result, me, today, deps.Tournaments); err != nil {
		return GetBootstrapResult{}, err
	}
	return result, nil
}

func addTournaments(ctx context.Context, result *GetBootstrapResult, me string, today time.Time, store BootstrapTournamentStore) error {
	tournaments, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list tournaments: %w", err)
	}
	byID := make(map[string]domainTournament.Tournament, len(tournaments))
	for _, t := range tournaments {
		byID[t.ID] = t
		if t.DateFrom.Before(today) {
			result.TournamentsPast = append(result.TournamentsPast, NewTournamentView(t))
		} else {
			result.TournamentsNext = append(result.TournamentsNext, NewTournamentView(t))
		}
	}
	sort.SliceStable(result.TournamentsNext, func(i, j int) bool {
		return result.TournamentsNext[i].DateFromTs < result.TournamentsNext[j].DateFromTs
	})
	sort.SliceStable(result.TournamentsPast, func(i, j int) bool {
		return result.TournamentsPast[i].DateFromTs > result.TournamentsPast[j].DateFromTs
	})

	rows, err := store.ListAssignmentsByTrainer(ctx, me)
	if err != nil {
		return fmt.Errorf("list own tournament rows: %w", err)
	}
	for _, a := range rows {
		result.MyTournamentRows = append(result.MyTournamentRows, NewTournamentAssignmentView(a, ""))
	}
	trips, err := store.ListTripsByTrainer(ctx, me)
	if err != nil {
		return fmt.Errorf("list own trips: %w", err)
	}
	for _, f := range trips {
		result.MyTrips = append(result.MyTrips, NewTripView(f, byID[f.TournamentID]))
	}
	return nil
}
