package unavailability

import (
	"time"

	"trainerweb/internal/domain/apperror"
)

// ErrNotFound is returned when clearing a declaration that does not exist.
var ErrNotFound = apperror.New(apperror.KindNotFound, "Keine Abmeldung gefunden.")

// Notice (Abmeldung) declares that a trainer cannot attend a training.
// Deleted notices are kept with DeletedAt set.
type Notice struct {
	ID         string
	TrainingID string
	TrainerID  string
	Reason     string
	CreatedAt  time.Time
	DeletedAt  time.Time
}

// Active reports whether the notice is still in force.
func (n Notice) Active() bool {
	return n.DeletedAt.IsZero()
}
