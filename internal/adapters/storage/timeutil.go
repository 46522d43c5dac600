package storage

import (
	"database/sql"
	"time"
)

// TimeLayout is the fixed-width UTC timestamp format stored in TEXT columns.
// Fixed width keeps lexicographic order equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateLayout is the stored form of calendar dates.
const DateLayout = "2006-01-02"

var storedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateLayout,
}

// FormatTime renders t in UTC with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullTime maps the zero time to NULL.
func NullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(t), Valid: true}
}

// ParseStoredTime accepts every timestamp layout found in stored rows.
// Unparsable or NULL values yield the zero time.
func ParseStoredTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NullDate maps the zero time to NULL, otherwise a calendar date.
func NullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatDate(t), Valid: true}
}

// ParseDate reads a stored calendar date as midnight UTC.
func ParseDate(s sql.NullString) time.Time {
	t := ParseStoredTime(s)
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BoolInt stores booleans as 0/1 in both dialects.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NullFloat maps a nil pointer to NULL.
func NullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// FloatPtr maps NULL to nil.
func FloatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
