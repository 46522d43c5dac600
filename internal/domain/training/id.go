package training

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatID returns the generated training id TR-YYYY-NNN.
func FormatID(year, n int) string {
	return fmt.Sprintf("TR-%d-%03d", year, n)
}

// ParseIDNumber extracts NNN from an id of the form PREFIX-YYYY-NNN for the given year.
// PRE: none
// POST: Returns (n, true) only when prefix and year match and NNN is a positive integer
func ParseIDNumber(id, prefix string, year int) (int, bool) {
	want := fmt.Sprintf("%s-%d-", prefix, year)
	if !strings.HasPrefix(id, want) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, want))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextIDNumber returns one past the highest NNN among existing ids for the year.
// Soft-deleted ids must be included by the caller so numbers are never reused.
func NextIDNumber(existing []string, prefix string, year int) int {
	max := 0
	for _, id := range existing {
		if n, ok := ParseIDNumber(id, prefix, year); ok && n > max {
			max = n
		}
	}
	return max + 1
}
