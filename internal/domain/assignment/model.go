package assignment

import (
	"fmt"
	"time"

	"trainerweb/internal/domain/apperror"
)

// IDPrefix is the prefix of generated assignment ids (EIN-YYYY-NNN).
const IDPrefix = "EIN"

// Domain errors
var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "Einteilung nicht gefunden.")
	ErrAlreadyEnrolled  = apperror.New(apperror.KindConflict, "Schon eingeteilt.")
	ErrWithdrawnLocked  = apperror.New(apperror.KindConflict, "Abgemeldete Einteilungen können nicht mehr bearbeitet werden.")
	ErrAlreadyCancelled = apperror.New(apperror.KindConflict, "Du bist bereits abgemeldet.")
	ErrReasonRequired   = apperror.New(apperror.KindValidation, "Bitte einen Grund für die Abmeldung angeben.")
)

// Assignment (Einteilung) is one trainer's claim on one training.
// INVARIANT: at most one row per (TrainingID, TrainerID) has a zero WithdrawnAt.
type Assignment struct {
	ID          string
	TrainingID  string
	TrainerID   string
	Role        string
	EnrolledAt  time.Time
	WithdrawnAt time.Time
	Attendance  bool
	CheckinAt   time.Time
	Comment     string
}

// FormatID returns EIN-YYYY-NNN.
func FormatID(year, n int) string {
	return fmt.Sprintf("%s-%d-%03d", IDPrefix, year, n)
}

// Active reports whether the assignment still counts toward occupancy.
func (a Assignment) Active() bool {
	return a.WithdrawnAt.IsZero()
}

// Withdraw moves the row to its terminal state.
// PRE: none
// POST: WithdrawnAt is set; an existing timestamp is kept
func (a *Assignment) Withdraw(now time.Time) {
	if a.WithdrawnAt.IsZero() {
		a.WithdrawnAt = now
	}
}

// CheckIn marks attendance. It works on withdrawn rows too.
func (a *Assignment) CheckIn(now time.Time) {
	a.Attendance = true
	a.CheckinAt = now
}

// Update applies attendance, comment and role edits.
// PRE: role is applied only when non-empty; callers enforce admin-only role changes
// POST: Returns ErrWithdrawnLocked for withdrawn rows and leaves them unchanged
func (a *Assignment) Update(attendance *bool, comment *string, role string) error {
	if !a.Active() {
		return ErrWithdrawnLocked
	}
	if attendance != nil {
		a.Attendance = *attendance
	}
	if comment != nil {
		a.Comment = *comment
	}
	if role != "" {
		a.Role = role
	}
	return nil
}

// CountActive returns the number of active assignments per training id.
func CountActive(rows []Assignment) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Active() {
			counts[r.TrainingID]++
		}
	}
	return counts
}
