package training

import (
	"fmt"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// Status is the lifecycle state of a training.
type Status string

const (
	StatusPlanned  Status = "geplant"
	StatusHeld     Status = "stattgefunden"
	StatusCanceled Status = "ausgefallen"
)

// DateLayout is the ISO date form used in payloads and storage.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the German date form shown to trainers.
const DisplayDateLayout = "02.01.2006"

// Domain errors
var (
	ErrNotFound        = apperror.New(apperror.KindNotFound, "Training nicht gefunden.")
	ErrMissingFields   = apperror.New(apperror.KindValidation, "Bitte Datum, Start, Ende und Gruppe ausfüllen.")
	ErrInvalidStatus   = apperror.New(apperror.KindValidation, "Ungültiger Status.")
	ErrHasAssignments  = apperror.New(apperror.KindConflict, "Löschen nicht möglich: Einteilungen existieren.")
	ErrInvalidDate     = apperror.New(apperror.KindValidation, "Datum ist ungültig.")
	ErrInvalidTime     = apperror.New(apperror.KindValidation, "Uhrzeit ist ungültig.")
	ErrSeriesFields    = apperror.New(apperror.KindValidation, "Bitte Wochentag, Startdatum, Start, Ende und Gruppe ausfüllen.")
	ErrSeriesCount     = apperror.New(apperror.KindValidation, "Bitte eine Anzahl an Terminen angeben.")
	ErrSeriesTooLong   = apperror.New(apperror.KindValidation, "Höchstens 104 Termine pro Serie.")
	ErrSeriesStartDate = apperror.New(apperror.KindValidation, "Startdatum ist ungültig.")
	ErrSeriesWeekday   = apperror.New(apperror.KindValidation, "Wochentag ist ungültig.")
)

// Training is one scheduled practice session.
type Training struct {
	ID           string
	Date         time.Time // midnight UTC
	Start        string    // HH:MM
	End          string    // HH:MM
	Group        string
	Location     string
	Status       Status
	Required     int
	CancelReason string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    time.Time
}

// ParseStatus validates a status string. An empty value means planned.
// PRE: none
// POST: Returns ErrInvalidStatus for unknown values
func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case "", StatusPlanned:
		return StatusPlanned, nil
	case StatusHeld:
		return StatusHeld, nil
	case StatusCanceled:
		return StatusCanceled, nil
	}
	return "", ErrInvalidStatus
}

// ParseDate parses an ISO or German date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, DisplayDateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// NormalizeClock accepts H:MM, HH:MM or HH:MM:SS and returns HH:MM.
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", ErrInvalidTime
}

// Validate checks required fields and normalizes derived ones.
// PRE: Training struct is populated from an admin payload
// POST: Required is clamped to >= 0; CancelReason is cleared unless canceled
func (t *Training) Validate() error {
	if t.Date.IsZero() || strings.TrimSpace(t.Start) == "" || strings.TrimSpace(t.End) == "" || strings.TrimSpace(t.Group) == "" {
		return ErrMissingFields
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	if t.Required < 0 {
		t.Required = 0
	}
	if t.Status != StatusCanceled {
		t.CancelReason = ""
	}
	return nil
}

// Deleted reports whether the training was soft-deleted.
func (t Training) Deleted() bool {
	return !t.DeletedAt.IsZero()
}

// MonthKey returns the YYYY-MM month the training belongs to.
func (t Training) MonthKey() string {
	return t.Date.Format("2006-01")
}

// DurationHours returns End minus Start in hours, or 0 if either is unparsable or End <= Start.
func (t Training) DurationHours() float64 {
	start, err1 := time.Parse("15:04", t.Start)
	end, err2 := time.Parse("15:04", t.End)
	if err1 != nil || err2 != nil || !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// OpenSlots returns max(0, Required - occupancy).
func (t Training) OpenSlots(occupancy int) int {
	if open := t.Required - occupancy; open > 0 {
		return open
	}
	return 0
}

// Label renders "dd.mm.yyyy · HH:MM–HH:MM · Gruppe".
func (t Training) Label() string {
	return fmt.Sprintf("%s · %s–%s · %s", t.Date.Format(DisplayDateLayout), t.Start, t.End, t.Group)
}
