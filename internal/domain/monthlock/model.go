package monthlock

import (
	"regexp"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// Status is the billing state of a calendar month.
type Status string

const (
	StatusOpen     Status = "offen"
	StatusLocked   Status = "gesperrt"
	StatusReleased Status = "freigegeben"
)

// Domain errors
var (
	ErrLocked        = apperror.New(apperror.KindLocked, "Monatsstatus ist gesperrt oder freigegeben. Änderungen sind nicht möglich.")
	ErrInvalidMonth  = apperror.New(apperror.KindValidation, "Monat ist ungültig.")
	ErrInvalidStatus = apperror.New(apperror.KindValidation, "Ungültiger Monatsstatus.")
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthStatus is the stored status row for one month.
type MonthStatus struct {
	Month     string // YYYY-MM
	Status    Status
	UpdatedAt time.Time
	UpdatedBy string
}

// Locked reports whether mutations in the month are blocked.
func (s Status) Locked() bool {
	return s == StatusLocked || s == StatusReleased
}

// ParseStatus validates a month status. Empty means open.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusOpen:
		return StatusOpen, nil
	case StatusLocked:
		return StatusLocked, nil
	case StatusReleased:
		return StatusReleased, nil
	}
	return "", ErrInvalidStatus
}

// ValidateMonth checks the YYYY-MM format.
func ValidateMonth(month string) error {
	if !monthKeyPattern.MatchString(month) {
		return ErrInvalidMonth
	}
	return nil
}

// MonthKey returns the YYYY-MM key of a date.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Check returns ErrLocked when status blocks changes.
// PRE: none
// POST: Returns nil for open or unknown months
func Check(status Status) error {
	if status.Locked() {
		return ErrLocked
	}
	return nil
}
