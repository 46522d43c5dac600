package training

import (
	"strings"
	"time"
)

// MaxSeriesCount caps one series at two years of weekly dates.
const MaxSeriesCount = 104

var germanWeekdays = map[string]time.Weekday{
	"montag":     time.Monday,
	"dienstag":   time.Tuesday,
	"mittwoch":   time.Wednesday,
	"donnerstag": time.Thursday,
	"freitag":    time.Friday,
	"samstag":    time.Saturday,
	"sonntag":    time.Sunday,
}

// ParseWeekday maps a German weekday name (case-insensitive) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := germanWeekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrSeriesWeekday
	}
	return wd, nil
}

// SeriesDates returns count weekly dates starting at the first weekday on or after start.
// PRE: count >= 1
// POST: len(result) == count; result[i+1] - result[i] == 7 days
func SeriesDates(weekday time.Weekday, start time.Time, count int) []time.Time {
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	first = first.AddDate(0, 0, offset)

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i))
	}
	return dates
}
