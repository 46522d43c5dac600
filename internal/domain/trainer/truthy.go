package trainer

import "strings"

// truthyTokens is the closed set of spreadsheet encodings that mean true.
// Anything else, including the empty string, is false.
var truthyTokens = map[string]bool{
	"TRUE": true,
	"WAHR": true,
	"1":    true,
	"JA":   true,
	"YES":  true,
	"X":    true,
}

// ParseTruthy converts an imported cell or payload value to a boolean.
// It is applied once at the import boundary; stored values are real booleans.
func ParseTruthy(value string) bool {
	return truthyTokens[strings.ToUpper(strings.TrimSpace(value))]
}
