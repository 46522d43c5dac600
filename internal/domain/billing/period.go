package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// Domain errors
var (
	ErrInvalidYear = apperror.New(apperror.KindValidation, "Jahr ist ungültig.")
	ErrInvalidHalf = apperror.New(apperror.KindValidation, "Halbjahr muss 1 oder 2 sein.")
)

// Period is a billing half-year. Half 1 is January to June, half 2 July to December.
type Period struct {
	Year int
	Half int
}

// ParsePeriod reads year and half from request values.
// PRE: now is the caller's clock
// POST: Blank year defaults to now's year; blank half defaults to 1
func ParsePeriod(year, half string, now time.Time) (Period, error) {
	p := Period{Year: now.Year(), Half: 1}
	if y := strings.TrimSpace(year); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil || n < 2000 || n > 2100 {
			return Period{}, ErrInvalidYear
		}
		p.Year = n
	}
	if h := strings.TrimSpace(half); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || (n != 1 && n != 2) {
			return Period{}, ErrInvalidHalf
		}
		p.Half = n
	}
	return p, nil
}

// Bounds returns the first and last day of the period, both inclusive.
func (p Period) Bounds() (time.Time, time.Time) {
	startMonth := time.January
	if p.Half == 2 {
		startMonth = time.July
	}
	from := time.Date(p.Year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 6, -1)
	return from, to
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	from, to := p.Bounds()
	return !d.Before(from) && !d.After(to)
}

// Months returns the six YYYY-MM keys of the period.
func (p Period) Months() []string {
	from, _ := p.Bounds()
	months := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		months = append(months, from.AddDate(0, i, 0).Format("2006-01"))
	}
	return months
}

// String renders e.g. "2025-H1".
func (p Period) String() string {
	return fmt.Sprintf("%d-H%d", p.Year, p.Half)
}
