package projections

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	domainTournament "trainerweb/internal/domain/tournament"
)

// QueryGetTournaments lists tournaments ordered by start date.
func QueryGetTournaments(ctx context.Context, store TournamentLister) ([]TournamentView, error) {
	ts, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	items := make([]TournamentView, 0, len(ts))
	for _, t := range ts {
		items = append(items, NewTournamentView(t))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DateFromTs < items[j].DateFromTs })
	return items, nil
}

// TournamentDetailStore defines the tournament store interface needed by the tournament detail projection.
type TournamentDetailStore interface {
	Get(ctx context.Context, id string) (domainTournament.Tournament, error)
	ListAssignments(ctx context.Context, tournamentID string) ([]domainTournament.Assignment, error)
	FindTrip(ctx context.Context, tournamentID, driverID string) (domainTournament.Trip, bool, error)
}

// GetTournamentDetailQuery carries input for the tournament detail projection.
type GetTournamentDetailQuery struct {
	TournamentID string
	TrainerID    string
}

// GetTournamentDetailDeps holds dependencies for the tournament detail projection.
type GetTournamentDetailDeps struct {
	Tournaments TournamentDetailStore
	Trainers    TrainerLister
}

// GetTournamentDetailResult carries the output of the tournament detail projection.
type GetTournamentDetailResult struct {
	Tournament TournamentView             `json:"turnier"`
	Rows       []TournamentAssignmentView `json:"einsaetze"`
	Mine       *TournamentAssignmentView  `json:"mine"`
	MyTrip     *TripView                  `json:"my_fahrt"`
	Counts     map[string]int             `json:"counts"`
}

// QueryGetTournamentDetail returns a tournament with every trainer row and the viewer's own row.
// POST: Counts holds the number of rows per status
func QueryGetTournamentDetail(ctx context.Context, query GetTournamentDetailQuery, deps GetTournamentDetailDeps) (GetTournamentDetailResult, error) {
	t, err := deps.Tournaments.Get(ctx, strings.TrimSpace(query.TournamentID))
	if err != nil {
		if errors.Is(err, domainTournament.ErrNotFound) {
			return GetTournamentDetailResult{}, err
		}
		return GetTournamentDetailResult{}, fmt.Errorf("get tournament: %w", err)
	}
	rows, err := deps.Tournaments.ListAssignments(ctx, t.ID)
	if err != nil {
		return GetTournamentDetailResult{}, fmt.Errorf("list tournament rows: %w", err)
	}
	trainers, err := deps.Trainers.List(ctx)
	if err != nil {
		return GetTournamentDetailResult{}, fmt.Errorf("list trainers: %w", err)
	}
	names := trainerNames(trainers)

	result := GetTournamentDetailResult{
		Tournament: NewTournamentView(t),
		Rows:       make([]TournamentAssignmentView, 0, len(rows)),
		Counts:     make(map[string]int),
	}
	for _, a := range rows {
		v := NewTournamentAssignmentView(a, nameOr(names, a.TrainerID))
		result.Rows = append(result.Rows, v)
		result.Counts[string(a.Status)]++
		if a.TrainerID == query.TrainerID {
			mine := v
			result.Mine = &mine
		}
	}
	sort.SliceStable(result.Rows, func(i, j int) bool { return result.Rows[i].TrainerName < result.Rows[j].TrainerName })

	if query.TrainerID != "" {
		f, ok, err := deps.Tournaments.FindTrip(ctx, t.ID, query.TrainerID)
		if err != nil {
			return GetTournamentDetailResult{}, fmt.Errorf("find trip: %w", err)
		}
		if ok {
			v := NewTripView(f, t)
			result.MyTrip = &v
		}
	}
	return result, nil
}
