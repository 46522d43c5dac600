package trainingplan

import (
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
)

// Domain errors
var (
	ErrEmpty    = apperror.New(apperror.KindValidation, "Bitte Titel, Inhalt oder Link ausfüllen.")
	ErrNotFound = apperror.New(apperror.KindNotFound, "Trainingsplan nicht gefunden.")
)

// Plan is the content prepared for one training. Content is markdown.
// INVARIANT: at most one plan per TrainingID.
type Plan struct {
	ID         string
	TrainingID string
	Title      string
	Content    string
	Link       string
	CreatedAt  time.Time
	CreatedBy  string
	UpdatedAt  time.Time
	UpdatedBy  string
}

// Validate requires at least one of title, content or link.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Content) == "" && strings.TrimSpace(p.Link) == "" {
		return ErrEmpty
	}
	return nil
}
