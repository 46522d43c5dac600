package projections

import "trainerweb/internal/adapters/spreadsheet"

// BillingSheets lays out an overview as the Training, Turniere and Summen sheets.
// POST: every sheet has a header row; Summen ends with a total row
func BillingSheets(o BillingOverviewResult) []spreadsheet.Sheet {
	trainingSheet := spreadsheet.Sheet{
		Name:   "Training",
		Header: []string{"Datum", "Trainer-ID", "Name", "Gruppe", "Rolle", "Stunden", "Satz EUR", "Betrag EUR"},
	}
	for _, l := range o.Training {
		trainingSheet.Rows = append(trainingSheet.Rows, []any{l.Date, l.TrainerID, l.TrainerName, l.Group, l.Role, l.Hours, l.Rate, l.Amount})
	}

	tournamentSheet := spreadsheet.Sheet{
		Name:   "Turniere",
		Header: []string{"Turnier", "Von", "Tage", "Trainer-ID", "Name", "Pauschale/Tag EUR", "Pauschale EUR", "km", "km-Satz EUR", "km EUR", "Summe EUR"},
	}
	for _, l := range o.Tournament {
		tournamentSheet.Rows = append(tournamentSheet.Rows, []any{
			l.TournamentName, l.DateFrom, l.Days, l.TrainerID, l.TrainerName,
			l.AllowancePerDay, l.AllowanceAmount, l.KmTotal, l.KmRate, l.KmAmount, l.Total,
		})
	}

	totalsSheet := spreadsheet.Sheet{
		Name:   "Summen",
		Header: []string{"Trainer-ID", "Name", "Stunden", "Training EUR", "Pauschalen EUR", "km EUR", "Gesamt EUR"},
	}
	for _, t := range o.Trainers {
		totalsSheet.Rows = append(totalsSheet.Rows, []any{t.TrainerID, t.Name, t.TrainingHours, t.TrainingAmount, t.AllowanceAmount, t.KmAmount, t.Total})
	}
	totalsSheet.Rows = append(totalsSheet.Rows, []any{"", "Gesamt", o.Totals.TrainingHours, o.Totals.TrainingAmount, o.Totals.AllowanceAmount, o.Totals.KmAmount, o.Totals.Total})

	return []spreadsheet.Sheet{trainingSheet, tournamentSheet, totalsSheet}
}
