package tournament

import (
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// Domain errors
var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "Turnier nicht gefunden.")
	ErrAssignmentNotFound = apperror.New(apperror.KindNotFound, "Einsatz-Zeile nicht gefunden.")
	ErrMissingFields      = apperror.New(apperror.KindValidation, "Bitte Name und Datum ausfüllen.")
	ErrDateOrder          = apperror.New(apperror.KindValidation, "Enddatum liegt vor dem Startdatum.")
)

// Tournament is an event trainers attend with per-day allowance and travel reimbursement.
type Tournament struct {
	ID             string
	Name           string
	DateFrom       time.Time
	DateTo         time.Time
	Location       string
	DailyAllowance float64 // EUR per day
	KmRate         float64 // EUR per km
	Remark         string
}

// Validate checks required fields.
// PRE: Tournament struct is populated from an admin payload
// POST: DateTo defaults to DateFrom when unset
func (t *Tournament) Validate() error {
	if strings.TrimSpace(t.Name) == "" || t.DateFrom.IsZero() {
		return ErrMissingFields
	}
	if t.DateTo.IsZero() {
		t.DateTo = t.DateFrom
	}
	if t.DateTo.Before(t.DateFrom) {
		return ErrDateOrder
	}
	return nil
}

// Days returns the inclusive day count; single-day events count as one.
func (t Tournament) Days() int {
	if t.DateTo.IsZero() || !t.DateTo.After(t.DateFrom) {
		return 1
	}
	return int(t.DateTo.Sub(t.DateFrom).Hours()/24) + 1
}

// Overlaps reports whether the tournament intersects [from, to] (both inclusive).
func (t Tournament) Overlaps(from, to time.Time) bool {
	end := t.DateTo
	if end.IsZero() {
		end = t.DateFrom
	}
	return !t.DateFrom.After(to) && !end.Before(from)
}

// Assignment (Turnier-Einsatz) is the single row per (tournament, trainer).
type Assignment struct {
	ID             string
	TournamentID   string
	TrainerID      string
	Date           time.Time
	Role           string
	Status         Status
	Comment        string
	DailyAllowance *float64 // per-day override
	Approved       bool
}

// Allowance returns the per-day rate for this assignment.
func (a Assignment) Allowance(t Tournament) float64 {
	if a.DailyAllowance != nil {
		return *a.DailyAllowance
	}
	return t.DailyAllowance
}

// Trip (Fahrt) records kilometres driven to a tournament.
// INVARIANT: one trip per (TournamentID, DriverID).
type Trip struct {
	ID           string
	TournamentID string
	DriverID     string
	Date         time.Time
	KmTotal      float64
	KmRate       *float64 // override of the tournament rate
	Approved     bool
	Comment      string
}

// Rate returns the effective km rate.
func (f Trip) Rate(t Tournament) float64 {
	if f.KmRate != nil {
		return *f.KmRate
	}
	return t.KmRate
}

// Amount returns KmTotal times the effective rate.
func (f Trip) Amount(t Tournament) float64 {
	return f.KmTotal * f.Rate(t)
}
