package tournament

import (
	"strings"

	"trainerweb/internal/domain/apperror"
)

// Status is the tagged state of a tournament assignment.
type Status string

const (
	// StatusNone marks the absence of a row. It is never stored.
	StatusNone        Status = ""
	StatusRegistered  Status = "EINGETRAGEN"
	StatusPresent     Status = "JA"
	StatusUnavailable Status = "NICHT_VERFUEGBAR"
	StatusWithdrawn   Status = "AUSGETRAGEN"
)

// Transition errors
var (
	ErrAlreadyRegistered    = apperror.New(apperror.KindConflict, "Schon eingetragen.")
	ErrWithdrawFirst        = apperror.New(apperror.KindConflict, "Du bist bereits eingetragen. Bitte erst austragen.")
	ErrNoUnavailability     = apperror.New(apperror.KindNotFound, "Keine Nicht-Verfügbar-Meldung gefunden.")
	ErrNoActiveRegistration = apperror.New(apperror.KindNotFound, "Keine aktive Eintragung gefunden.")
	ErrInvalidStatus        = apperror.New(apperror.KindValidation, "Ungültiger Einsatz-Status.")
)

// ParseStoredStatus maps a stored value to a Status.
// Legacy rows with an empty value are registrations.
func ParseStoredStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case "", StatusRegistered:
		return StatusRegistered, nil
	case StatusPresent:
		return StatusPresent, nil
	case StatusUnavailable:
		return StatusUnavailable, nil
	case StatusWithdrawn:
		return StatusWithdrawn, nil
	}
	return StatusNone, ErrInvalidStatus
}

// holdsPlace reports whether the trainer currently occupies a place at the tournament.
func (s Status) holdsPlace() bool {
	return s == StatusRegistered || s == StatusPresent
}

// Enroll registers the trainer.
// PRE: s is StatusNone when no row exists
// POST: Returns StatusRegistered, or ErrAlreadyRegistered when a place is held
func (s Status) Enroll() (Status, error) {
	if s.holdsPlace() {
		return s, ErrAlreadyRegistered
	}
	return StatusRegistered, nil
}

// MarkUnavailable declares non-availability. Repeating it only updates the reason.
// POST: Returns ErrWithdrawFirst while registered or present
func (s Status) MarkUnavailable() (Status, error) {
	if s.holdsPlace() {
		return s, ErrWithdrawFirst
	}
	return StatusUnavailable, nil
}

// ClearUnavailable withdraws an unavailability declaration.
// POST: Returns ErrNoUnavailability unless s is StatusUnavailable
func (s Status) ClearUnavailable() (Status, error) {
	if s != StatusUnavailable {
		return s, ErrNoUnavailability
	}
	return StatusWithdrawn, nil
}

// Withdraw is permitted from every existing state.
// POST: Returns ErrAssignmentNotFound for StatusNone
func (s Status) Withdraw() (Status, error) {
	if s == StatusNone {
		return s, ErrAssignmentNotFound
	}
	return StatusWithdrawn, nil
}

// CheckIn confirms presence.
// POST: Returns ErrNoActiveRegistration unless registered or present
func (s Status) CheckIn() (Status, error) {
	if !s.holdsPlace() {
		return s, ErrNoActiveRegistration
	}
	return StatusPresent, nil
}
