package trainer

import (
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// DefaultRole is the role assigned when a trainer has none.
const DefaultRole = "Trainer"

// MaxEmailLength caps user-editable email addresses.
const MaxEmailLength = 254

// Domain errors
var (
	ErrNotFound        = apperror.New(apperror.KindNotFound, "Trainer nicht gefunden.")
	ErrAmbiguousName   = apperror.New(apperror.KindConflict, "Name nicht eindeutig.")
	ErrInactive        = apperror.New(apperror.KindForbidden, "Trainer ist nicht aktiv.")
	ErrWrongPin        = apperror.New(apperror.KindUnauthenticated, "PIN falsch.")
	ErrWrongCurrentPin = apperror.New(apperror.KindValidation, "Aktuelle PIN ist falsch.")
	ErrInvalidNewPin   = apperror.New(apperror.KindValidation, "Neue PIN muss 4–8 Ziffern haben.")
	ErrEmptyName       = apperror.New(apperror.KindValidation, "Bitte einen Namen angeben.")
	ErrEmailTooLong    = apperror.New(apperror.KindValidation, "E-Mail-Adresse ist zu lang.")
)

// Trainer holds the identity, pay default and credential of a club trainer.
type Trainer struct {
	ID          string
	Name        string
	Email       string
	Active      bool
	IsAdmin     bool
	DefaultRole string
	DefaultRate float64
	Pin         string // sha256:, sha256hex:, bare hex, or legacy plaintext
	Notes       string
	LastLogin   time.Time
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is populated
// POST: Returns nil if valid, a validation error otherwise
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	return nil
}

// Role returns the trainer's default role, falling back to DefaultRole.
func (t Trainer) Role() string {
	if r := strings.TrimSpace(t.DefaultRole); r != "" {
		return r
	}
	return DefaultRole
}

// Candidate identifies one trainer in an ambiguous-name login response.
type Candidate struct {
	TrainerID string `json:"trainer_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
}

// AmbiguousError is returned when a name matches more than one trainer.
// It unwraps to ErrAmbiguousName.
type AmbiguousError struct {
	Candidates []Candidate
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	return ErrAmbiguousName.Error()
}

// Unwrap exposes the sentinel for errors.Is checks.
func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguousName
}

// NewAmbiguousError builds the candidate list from the matched trainers.
// PRE: len(matches) >= 2
// POST: Candidates preserve match order; Email is set only when includeEmail is true
func NewAmbiguousError(matches []Trainer, includeEmail bool) *AmbiguousError {
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		c := Candidate{TrainerID: m.ID, Name: m.Name}
		if includeEmail {
			c.Email = m.Email
		}
		candidates = append(candidates, c)
	}
	return &AmbiguousError{Candidates: candidates}
}

// Match resolves an identifier against a list of trainers.
// On the id path (nameOnly false) an exact id match wins outright.
// Otherwise all trainers whose normalized name equals the normalized identifier are returned.
// PRE: none
// POST: Returns zero, one or more matches; blank identifiers match nothing
func Match(trainers []Trainer, identifier string, nameOnly bool) []Trainer {
	search := strings.TrimSpace(identifier)
	if search == "" {
		return nil
	}
	if !nameOnly {
		for _, t := range trainers {
			if t.ID == search {
				return []Trainer{t}
			}
		}
	}
	needle := NormalizeName(search)
	var matches []Trainer
	for _, t := range trainers {
		if NormalizeName(t.Name) == needle {
			matches = append(matches, t)
		}
	}
	return matches
}

// NormalizeName lowercases, trims and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
