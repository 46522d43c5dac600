package projections

import (
	"fmt"
	"time"

	"trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/billing"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/training"
)

// dateTimeLayout renders check-in stamps.
const dateTimeLayout = "02.01.2006 15:04"

// UserView is the session snapshot returned to the client.
type UserView struct {
	TrainerID string  `json:"trainer_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"rolle_standard"`
	Rate      float64 `json:"stundensatz"`
	IsAdmin   bool    `json:"is_admin"`
	Notes     string  `json:"notizen"`
}

// NewUserView maps a session to its client form.
func NewUserView(s session.Session) UserView {
	return UserView{
		TrainerID: s.TrainerID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		Rate:      s.Rate,
		IsAdmin:   s.IsAdmin,
		Notes:     s.Notes,
	}
}

// TrainingView is a training enriched with occupancy.
type TrainingView struct {
	ID            string `json:"training_id"`
	Date          string `json:"datum"`
	DateISO       string `json:"datum_iso"`
	DateTs        int64  `json:"datumTs"`
	Start         string `json:"start"`
	End           string `json:"ende"`
	Group         string `json:"gruppe"`
	Location      string `json:"ort"`
	Status        string `json:"status"`
	Required      int    `json:"benoetigt_trainer"`
	Assigned      int    `json:"eingeteilt"`
	Open          int    `json:"offen"`
	OpenText      string `json:"offen_text"`
	CancelReason  string `json:"ausfall_grund"`
	Notes         string `json:"notizen"`
	Label         string `json:"label"`
	IsUnavailable bool   `json:"is_unavailable"`
}

// NewTrainingView enriches t with its active assignment count.
// POST: Open == max(0, Required - occupancy)
func NewTrainingView(t training.Training, occupancy int) TrainingView {
	open := t.OpenSlots(occupancy)
	return TrainingView{
		ID:           t.ID,
		Date:         t.Date.Format(training.DisplayDateLayout),
		DateISO:      t.Date.Format(training.DateLayout),
		DateTs:       t.Date.Unix(),
		Start:        t.Start,
		End:          t.End,
		Group:        t.Group,
		Location:     t.Location,
		Status:       string(t.Status),
		Required:     t.Required,
		Assigned:     occupancy,
		Open:         open,
		OpenText:     fmt.Sprintf("Noch %d Trainer", open),
		CancelReason: t.CancelReason,
		Notes:        t.Notes,
		Label:        t.Label(),
	}
}

// AssignmentView is an assignment joined with its training.
type AssignmentView struct {
	ID             string `json:"einteilung_id"`
	TrainingID     string `json:"training_id"`
	TrainerID      string `json:"trainer_id"`
	Date           string `json:"training_datum"`
	DateTs         int64  `json:"trainingDatumTs"`
	Start          string `json:"start"`
	End            string `json:"ende"`
	Group          string `json:"gruppe"`
	Location       string `json:"ort"`
	TrainingStatus string `json:"training_status"`
	Label          string `json:"training_label"`
	Role           string `json:"rolle"`
	Attendance     bool   `json:"attendance"`
	CheckinAt      string `json:"checkin_am"`
	Comment        string `json:"kommentar"`
	Withdrawn      bool   `json:"ausgetragen"`
}

// NewAssignmentView joins a with its training. A missing training leaves the
// training fields empty and labels the row with the training id.
func NewAssignmentView(a assignment.Assignment, t training.Training, found bool) AssignmentView {
	v := AssignmentView{
		ID:         a.ID,
		TrainingID: a.TrainingID,
		TrainerID:  a.TrainerID,
		Label:      a.TrainingID,
		Role:       a.Role,
		Attendance: a.Attendance,
		CheckinAt:  formatStamp(a.CheckinAt),
		Comment:    a.Comment,
		Withdrawn:  !a.Active(),
	}
	if found {
		v.Date = t.Date.Format(training.DisplayDateLayout)
		v.DateTs = t.Date.Unix()
		v.Start, v.End = t.Start, t.End
		v.Group, v.Location = t.Group, t.Location
		v.TrainingStatus = string(t.Status)
		v.Label = t.Label()
	}
	return v
}

// TournamentView is a tournament with display dates.
type TournamentView struct {
	ID             string  `json:"turnier_id"`
	Name           string  `json:"name"`
	DateFrom       string  `json:"datum_von"`
	DateTo         string  `json:"datum_bis"`
	DateFromISO    string  `json:"datum_von_iso"`
	DateToISO      string  `json:"datum_bis_iso"`
	DateFromTs     int64   `json:"datumVonTs"`
	DateToTs       int64   `json:"datumBisTs"`
	Days           int     `json:"tage"`
	Location       string  `json:"ort"`
	DailyAllowance float64 `json:"pauschale_tag_eur"`
	KmRate         float64 `json:"km_satz_eur"`
	Remark         string  `json:"bemerkung"`
}

// NewTournamentView maps a tournament.
func NewTournamentView(t tournament.Tournament) TournamentView {
	return TournamentView{
		ID:             t.ID,
		Name:           t.Name,
		DateFrom:       t.DateFrom.Format(training.DisplayDateLayout),
		DateTo:         t.DateTo.Format(training.DisplayDateLayout),
		DateFromISO:    t.DateFrom.Format(training.DateLayout),
		DateToISO:      t.DateTo.Format(training.DateLayout),
		DateFromTs:     t.DateFrom.Unix(),
		DateToTs:       t.DateTo.Unix(),
		Days:           t.Days(),
		Location:       t.Location,
		DailyAllowance: t.DailyAllowance,
		KmRate:         t.KmRate,
		Remark:         t.Remark,
	}
}

// TournamentAssignmentView is one trainer's row at a tournament.
type TournamentAssignmentView struct {
	ID             string   `json:"turnier_einsatz_id"`
	TournamentID   string   `json:"turnier_id"`
	TrainerID      string   `json:"trainer_id"`
	TrainerName    string   `json:"name,omitempty"`
	Date           string   `json:"datum"`
	Role           string   `json:"rolle"`
	Status         string   `json:"status"`
	Present        bool     `json:"anwesend"`
	DailyAllowance *float64 `json:"pauschale_tag_eur"`
	Approved       bool     `json:"freigegeben"`
	Comment        string   `json:"kommentar"`
}

// NewTournamentAssignmentView maps a row; name may be empty.
func NewTournamentAssignmentView(a tournament.Assignment, name string) TournamentAssignmentView {
	return TournamentAssignmentView{
		ID:             a.ID,
		TournamentID:   a.TournamentID,
		TrainerID:      a.TrainerID,
		TrainerName:    name,
		Date:           formatDate(a.Date),
		Role:           a.Role,
		Status:         string(a.Status),
		Present:        a.Status == tournament.StatusPresent,
		DailyAllowance: a.DailyAllowance,
		Approved:       a.Approved,
		Comment:        a.Comment,
	}
}

// TripView is a travel record with its computed amount.
type TripView struct {
	ID           string  `json:"fahrt_id"`
	TournamentID string  `json:"turnier_id"`
	Date         string  `json:"datum"`
	KmTotal      float64 `json:"km_gesamt"`
	KmRate       float64 `json:"km_satz_eur"`
	Amount       float64 `json:"km_betrag_eur"`
	Approved     bool    `json:"freigegeben"`
	Comment      string  `json:"kommentar"`
}

// NewTripView prices f with the rate of t. An unknown tournament prices with the override only.
func NewTripView(f tournament.Trip, t tournament.Tournament) TripView {
	return TripView{
		ID:           f.ID,
		TournamentID: f.TournamentID,
		Date:         formatDate(f.Date),
		KmTotal:      f.KmTotal,
		KmRate:       f.Rate(t),
		Amount:       billing.RoundCents(f.Amount(t)),
		Approved:     f.Approved,
		Comment:      f.Comment,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(training.DisplayDateLayout)
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// dayOf truncates now to midnight UTC of its calendar day in now's location.
func dayOf(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
