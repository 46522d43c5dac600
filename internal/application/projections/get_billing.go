package projections

import (
	"context"
	"fmt"
	"sort"

	"trainerweb/internal/domain/billing"
	domainMonth "trainerweb/internal/domain/monthlock"
	domainRate "trainerweb/internal/domain/rolerate"
	domainTournament "trainerweb/internal/domain/tournament"
	domainTraining "trainerweb/internal/domain/training"
)

// BillingTournamentStore defines the tournament store interface needed by billing.
type BillingTournamentStore interface {
	TournamentLister
	ListAllAssignments(ctx context.Context) ([]domainTournament.Assignment, error)
	ListAllTrips(ctx context.Context) ([]domainTournament.Trip, error)
}

// BillingMonthStore reads month statuses.
type BillingMonthStore interface {
	Get(ctx context.Context, month string) (domainMonth.MonthStatus, error)
}

// GetBillingDeps holds dependencies for the billing projections.
type GetBillingDeps struct {
	Trainings   TrainingLister
	Assignments AssignmentLister
	Trainers    TrainerLister
	RoleRates   RoleRateLister
	Tournaments BillingTournamentStore
	Months      BillingMonthStore // overview only
}

// TrainingLineView is one billed training.
type TrainingLineView struct {
	AssignmentID string  `json:"einteilung_id"`
	TrainingID   string  `json:"training_id"`
	TrainerID    string  `json:"trainer_id"`
	TrainerName  string  `json:"name"`
	Date         string  `json:"datum"`
	Group        string  `json:"gruppe"`
	Role         string  `json:"rolle"`
	Hours        float64 `json:"stunden"`
	Rate         float64 `json:"satz_eur"`
	Amount       float64 `json:"betrag_eur"`
}

// TournamentLineView is one billed tournament assignment.
type TournamentLineView struct {
	AssignmentID    string  `json:"turnier_einsatz_id"`
	TournamentID    string  `json:"turnier_id"`
	TournamentName  string  `json:"turnier"`
	TrainerID       string  `json:"trainer_id"`
	TrainerName     string  `json:"name"`
	DateFrom        string  `json:"datum_von"`
	Days            int     `json:"tage"`
	AllowancePerDay float64 `json:"pauschale_tag_eur"`
	AllowanceAmount float64 `json:"pauschale_eur"`
	KmTotal         float64 `json:"km_gesamt"`
	KmRate          float64 `json:"km_satz_eur"`
	KmAmount        float64 `json:"km_betrag_eur"`
	Total           float64 `json:"summe_eur"`
}

// TotalsView is a sum of billed lines.
type TotalsView struct {
	TrainingHours   float64 `json:"stunden"`
	TrainingAmount  float64 `json:"training_eur"`
	AllowanceAmount float64 `json:"pauschalen_eur"`
	KmAmount        float64 `json:"km_eur"`
	Total           float64 `json:"gesamt_eur"`
}

func newTotalsView(t billing.Totals) TotalsView {
	return TotalsView{
		TrainingHours:   t.TrainingHours,
		TrainingAmount:  t.TrainingAmount,
		AllowanceAmount: t.AllowanceAmount,
		KmAmount:        t.KmAmount,
		Total:           t.Total,
	}
}

// HalfYearBillingResult carries one trainer's lines for a half-year.
type HalfYearBillingResult struct {
	Year       int                  `json:"year"`
	Half       int                  `json:"half"`
	Training   []TrainingLineView   `json:"training"`
	Tournament []TournamentLineView `json:"turnier"`
	Totals     TotalsView           `json:"summe"`
}

// TrainerTotalsView is one row of the billing overview.
type TrainerTotalsView struct {
	TrainerID string `json:"trainer_id"`
	Name      string `json:"name"`
	TotalsView
}

// MonthView is the lock status of one month.
type MonthView struct {
	Month     string `json:"monat"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
	UpdatedBy string `json:"updated_by"`
}

// BillingOverviewResult carries the all-trainer billing of a half-year.
type BillingOverviewResult struct {
	Year       int                  `json:"year"`
	Half       int                  `json:"half"`
	Trainers   []TrainerTotalsView  `json:"trainer"`
	Totals     TotalsView           `json:"summe"`
	Months     []MonthView          `json:"monate"`
	Training   []TrainingLineView   `json:"training"`
	Tournament []TournamentLineView `json:"turnier"`
}

type billingLines struct {
	training   []billing.TrainingLine
	tournament []billing.TournamentLine
	names      map[string]string
}

func loadBillingLines(ctx context.Context, p billing.Period, deps GetBillingDeps) (billingLines, error) {
	trainings, err := deps.Trainings.List(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list trainings: %w", err)
	}
	rows, err := deps.Assignments.List(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list assignments: %w", err)
	}
	trainers, err := deps.Trainers.List(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list trainers: %w", err)
	}
	rates, err := deps.RoleRates.List(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list role rates: %w", err)
	}
	tournaments, err := deps.Tournaments.List(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list tournaments: %w", err)
	}
	tRows, err := deps.Tournaments.ListAllAssignments(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list tournament rows: %w", err)
	}
	trips, err := deps.Tournaments.ListAllTrips(ctx)
	if err != nil {
		return billingLines{}, fmt.Errorf("list trips: %w", err)
	}

	byTraining := make(map[string]domainTraining.Training, len(trainings))
	for _, t := range trainings {
		byTraining[t.ID] = t
	}
	byTournament := make(map[string]domainTournament.Tournament, len(tournaments))
	for _, t := range tournaments {
		byTournament[t.ID] = t
	}
	trainerRates := make(map[string]float64, len(trainers))
	for _, t := range trainers {
		trainerRates[t.ID] = t.DefaultRate
	}
	return billingLines{
		training:   billing.TrainingLines(p, byTraining, rows, domainRate.NewTable(rates), trainerRates),
		tournament: billing.TournamentLines(p, byTournament, tRows, trips),
		names:      trainerNames(trainers),
	}, nil
}

func (l billingLines) trainingViews(lines []billing.TrainingLine) []TrainingLineView {
	out := make([]TrainingLineView, 0, len(lines))
	for _, x := range lines {
		out = append(out, TrainingLineView{
			AssignmentID: x.AssignmentID,
			TrainingID:   x.TrainingID,
			TrainerID:    x.TrainerID,
			TrainerName:  nameOr(l.names, x.TrainerID),
			Date:         formatDate(x.Date),
			Group:        x.Group,
			Role:         x.Role,
			Hours:        x.Hours,
			Rate:         x.Rate,
			Amount:       x.Amount,
		})
	}
	return out
}

func (l billingLines) tournamentViews(lines []billing.TournamentLine) []TournamentLineView {
	out := make([]TournamentLineView, 0, len(lines))
	for _, x := range lines {
		out = append(out, TournamentLineView{
			AssignmentID:    x.AssignmentID,
			TournamentID:    x.TournamentID,
			TournamentName:  x.TournamentName,
			TrainerID:       x.TrainerID,
			TrainerName:     nameOr(l.names, x.TrainerID),
			DateFrom:        formatDate(x.DateFrom),
			Days:            x.Days,
			AllowancePerDay: x.AllowancePerDay,
			AllowanceAmount: x.AllowanceAmount,
			KmTotal:         x.KmTotal,
			KmRate:          x.KmRate,
			KmAmount:        x.KmAmount,
			Total:           x.Total,
		})
	}
	return out
}

// QueryGetHalfYearBilling returns one trainer's billed lines for a half-year.
// PRE: trainerID is non-empty
// POST: Only lines of trainerID are returned
func QueryGetHalfYearBilling(ctx context.Context, trainerID string, p billing.Period, deps GetBillingDeps) (HalfYearBillingResult, error) {
	lines, err := loadBillingLines(ctx, p, deps)
	if err != nil {
		return HalfYearBillingResult{}, err
	}
	tl, ul := billing.FilterTrainer(trainerID, lines.training, lines.tournament)
	return HalfYearBillingResult{
		Year:       p.Year,
		Half:       p.Half,
		Training:   lines.trainingViews(tl),
		Tournament: lines.tournamentViews(ul),
		Totals:     newTotalsView(billing.Summarize(tl, ul)),
	}, nil
}

// QueryGetBillingOverview returns per-trainer totals and the month statuses of a half-year.
// POST: Trainers are ordered by name; Months lists all six months of the period
func QueryGetBillingOverview(ctx context.Context, p billing.Period, deps GetBillingDeps) (BillingOverviewResult, error) {
	lines, err := loadBillingLines(ctx, p, deps)
	if err != nil {
		return BillingOverviewResult{}, err
	}
	result := BillingOverviewResult{
		Year:       p.Year,
		Half:       p.Half,
		Totals:     newTotalsView(billing.Summarize(lines.training, lines.tournament)),
		Training:   lines.trainingViews(lines.training),
		Tournament: lines.tournamentViews(lines.tournament),
	}
	for id, t := range billing.SummarizeByTrainer(lines.training, lines.tournament) {
		result.Trainers = append(result.Trainers, TrainerTotalsView{TrainerID: id, Name: nameOr(lines.names, id), TotalsView: newTotalsView(t)})
	}
	sort.Slice(result.Trainers, func(i, j int) bool {
		if result.Trainers[i].Name != result.Trainers[j].Name {
			return result.Trainers[i].Name < result.Trainers[j].Name
		}
		return result.Trainers[i].TrainerID < result.Trainers[j].TrainerID
	})
	if result.Trainers == nil {
		result.Trainers = []TrainerTotalsView{}
	}

	if deps.Months != nil {
		for _, m := range p.Months() {
			ms, err := deps.Months.Get(ctx, m)
			if err != nil {
				return BillingOverviewResult{}, fmt.Errorf("get month status: %w", err)
			}
			result.Months = append(result.Months, newMonthView(ms))
		}
	}
	return result, nil
}

func newMonthView(ms domainMonth.MonthStatus) MonthView {
	return MonthView{
		Month:     ms.Month,
		Status:    string(ms.Status),
		UpdatedAt: formatStamp(ms.UpdatedAt),
		UpdatedBy: ms.UpdatedBy,
	}
}

// QueryGetMonthStatuses lists the twelve months of year with their status.
// Months without a stored row are open.
func QueryGetMonthStatuses(ctx context.Context, year int, store MonthStatusLister) ([]MonthView, error) {
	stored, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list month status: %w", err)
	}
	byMonth := make(map[string]domainMonth.MonthStatus, len(stored))
	for _, ms := range stored {
		byMonth[ms.Month] = ms
	}
	out := make([]MonthView, 0, 12)
	for m := 1; m <= 12; m++ {
		key := fmt.Sprintf("%04d-%02d", year, m)
		ms, ok := byMonth[key]
		if !ok {
			ms = domainMonth.MonthStatus{Month: key, Status: domainMonth.StatusOpen}
		}
		out = append(out, newMonthView(ms))
	}
	return out, nil
}
