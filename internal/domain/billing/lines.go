package billing

import (
	"math"
	"sort"
	"time"

	"trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/rolerate"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/training"
)

// TrainingLine is one billable training hour block.
type TrainingLine struct {
	AssignmentID string
	TrainingID   string
	TrainerID    string
	Date         time.Time
	Group        string
	Role         string
	Hours        float64
	Rate         float64
	Amount       float64
}

// TournamentLine is the allowance and travel compensation for one tournament assignment.
type TournamentLine struct {
	AssignmentID    string
	TournamentID    string
	TournamentName  string
	TrainerID       string
	DateFrom        time.Time
	Days            int
	AllowancePerDay float64
	AllowanceAmount float64
	KmTotal         float64
	KmRate          float64
	KmAmount        float64
	Total           float64
}

// Totals sums the lines of one trainer or of everyone.
type Totals struct {
	TrainingHours   float64
	TrainingAmount  float64
	AllowanceAmount float64
	KmAmount        float64
	Total           float64
}

// RoundCents rounds a euro amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// TrainingLines builds billable lines from attended, active assignments of held trainings in the period.
// trainerRates supplies the fallback rate for roles missing from the rate table.
// PRE: trainings is keyed by training id
// POST: Lines are sorted by date, then trainer id
func TrainingLines(p Period, trainings map[string]training.Training, rows []assignment.Assignment, rates rolerate.Table, trainerRates map[string]float64) []TrainingLine {
	var lines []TrainingLine
	for _, a := range rows {
		if !a.Active() || !a.Attendance {
			continue
		}
		tr, ok := trainings[a.TrainingID]
		if !ok || tr.Deleted() || tr.Status != training.StatusHeld || !p.Contains(tr.Date) {
			continue
		}
		hours := tr.DurationHours()
		rate := rates.BillableRate(a.Role, trainerRates[a.TrainerID])
		lines = append(lines, TrainingLine{
			AssignmentID: a.ID,
			TrainingID:   tr.ID,
			TrainerID:    a.TrainerID,
			Date:         tr.Date,
			Group:        tr.Group,
			Role:         a.Role,
			Hours:        hours,
			Rate:         rate,
			Amount:       RoundCents(hours * rate),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		return lines[i].TrainerID < lines[j].TrainerID
	})
	return lines
}

// TournamentLines builds lines for present (JA) assignments of tournaments overlapping the period.
// The trip of the same trainer at the same tournament, if any, adds the km amount.
// PRE: tournaments is keyed by tournament id
// POST: Lines are sorted by tournament start, then trainer id
func TournamentLines(p Period, tournaments map[string]tournament.Tournament, rows []tournament.Assignment, trips []tournament.Trip) []TournamentLine {
	type key struct{ tournamentID, trainerID string }
	tripByKey := make(map[key]tournament.Trip, len(trips))
	for _, f := range trips {
		tripByKey[key{f.TournamentID, f.DriverID}] = f
	}

	from, to := p.Bounds()
	var lines []TournamentLine
	for _, a := range rows {
		if a.Status != tournament.StatusPresent {
			continue
		}
		t, ok := tournaments[a.TournamentID]
		if !ok || !t.Overlaps(from, to) {
			continue
		}
		days := t.Days()
		perDay := a.Allowance(t)
		line := TournamentLine{
			AssignmentID:    a.ID,
			TournamentID:    t.ID,
			TournamentName:  t.Name,
			TrainerID:       a.TrainerID,
			DateFrom:        t.DateFrom,
			Days:            days,
			AllowancePerDay: perDay,
			AllowanceAmount: RoundCents(float64(days) * perDay),
		}
		if f, ok := tripByKey[key{t.ID, a.TrainerID}]; ok {
			line.KmTotal = f.KmTotal
			line.KmRate = f.Rate(t)
			line.KmAmount = RoundCents(f.Amount(t))
		}
		line.Total = RoundCents(line.AllowanceAmount + line.KmAmount)
		lines = append(lines, line)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].DateFrom.Equal(lines[j].DateFrom) {
			return lines[i].DateFrom.Before(lines[j].DateFrom)
		}
		return lines[i].TrainerID < lines[j].TrainerID
	})
	return lines
}

// Summarize adds up training and tournament lines.
func Summarize(trainingLines []TrainingLine, tournamentLines []TournamentLine) Totals {
	var t Totals
	for _, l := range trainingLines {
		t.TrainingHours += l.Hours
		t.TrainingAmount += l.Amount
	}
	for _, l := range tournamentLines {
		t.AllowanceAmount += l.AllowanceAmount
		t.KmAmount += l.KmAmount
	}
	t.TrainingAmount = RoundCents(t.TrainingAmount)
	t.AllowanceAmount = RoundCents(t.AllowanceAmount)
	t.KmAmount = RoundCents(t.KmAmount)
	t.Total = RoundCents(t.TrainingAmount + t.AllowanceAmount + t.KmAmount)
	return t
}

// SummarizeByTrainer groups totals per trainer id.
func SummarizeByTrainer(trainingLines []TrainingLine, tournamentLines []TournamentLine) map[string]Totals {
	byTrainerTraining := make(map[string][]TrainingLine)
	byTrainerTournament := make(map[string][]TournamentLine)
	for _, l := range trainingLines {
		byTrainerTraining[l.TrainerID] = append(byTrainerTraining[l.TrainerID], l)
	}
	for _, l := range tournamentLines {
		byTrainerTournament[l.TrainerID] = append(byTrainerTournament[l.TrainerID], l)
	}

	out := make(map[string]Totals)
	for id, ls := range byTrainerTraining {
		out[id] = Summarize(ls, byTrainerTournament[id])
	}
	for id, ls := range byTrainerTournament {
		if _, done := out[id]; !done {
			out[id] = Summarize(nil, ls)
		}
	}
	return out
}

// FilterTrainer keeps the lines belonging to one trainer.
func FilterTrainer(trainerID string, trainingLines []TrainingLine, tournamentLines []TournamentLine) ([]TrainingLine, []TournamentLine) {
	var tl []TrainingLine
	for _, l := range trainingLines {
		if l.TrainerID == trainerID {
			tl = append(tl, l)
		}
	}
	var ul []TournamentLine
	for _, l := range tournamentLines {
		if l.TrainerID == trainerID {
			ul = append(ul, l)
		}
	}
	return tl, ul
}
