package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"trainerweb/internal/adapters/email"
	"trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/monthlock"
	"trainerweb/internal/domain/rolerate"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/trainer"
	"trainerweb/internal/domain/training"
	"trainerweb/internal/domain/trainingplan"
	"trainerweb/internal/domain/unavailability"
)

var fixedTime = time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- trainers ---

type memTrainerStore struct {
	trainers map[string]trainer.Trainer
	saveErr  error
}

func newMemTrainerStore(ts ...trainer.Trainer) *memTrainerStore {
	s := &memTrainerStore{trainers: make(map[string]trainer.Trainer)}
	for _, t := range ts {
		s.trainers[t.ID] = t
	}
	return s
}

// GetByID returns a trainer.
// PRE: none
// POST: returns trainer.ErrNotFound for unknown ids
func (s *memTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	t, ok := s.trainers[id]
	if !ok {
		return trainer.Trainer{}, trainer.ErrNotFound
	}
	return t, nil
}

// List returns all trainers ordered by name.
func (s *memTrainerStore) List(_ context.Context) ([]trainer.Trainer, error) {
	out := make([]trainer.Trainer, 0, len(s.trainers))
	for _, t := range s.trainers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListActive returns active trainers ordered by name.
func (s *memTrainerStore) ListActive(ctx context.Context) ([]trainer.Trainer, error) {
	all, _ := s.List(ctx)
	var out []trainer.Trainer
	for _, t := range all {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

// Save upserts a trainer.
// PRE: none
// POST: trainer is stored unless saveErr is set
func (s *memTrainerStore) Save(_ context.Context, t trainer.Trainer) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.trainers[t.ID] = t
	return nil
}

// SaveBatch upserts all trainers or none.
func (s *memTrainerStore) SaveBatch(ctx context.Context, ts []trainer.Trainer) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, t := range ts {
		s.trainers[t.ID] = t
	}
	return nil
}

// UpdatePin replaces one pin.
func (s *memTrainerStore) UpdatePin(_ context.Context, id, pin string) error {
	t, ok := s.trainers[id]
	if !ok {
		return trainer.ErrNotFound
	}
	t.Pin = pin
	s.trainers[id] = t
	return nil
}

// UpdatePins replaces several pins.
func (s *memTrainerStore) UpdatePins(ctx context.Context, pins map[string]string) error {
	for id, pin := range pins {
		if err := s.UpdatePin(ctx, id, pin); err != nil {
			return err
		}
	}
	return nil
}

// UpdateLastLogin stamps the login date.
func (s *memTrainerStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	t := s.trainers[id]
	t.LastLogin = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	s.trainers[id] = t
	return nil
}

// UpdateProfile writes the non-nil fields.
func (s *memTrainerStore) UpdateProfile(_ context.Context, id string, email, notes *string) error {
	t, ok := s.trainers[id]
	if !ok {
		return trainer.ErrNotFound
	}
	if email != nil {
		t.Email = *email
	}
	if notes != nil {
		t.Notes = *notes
	}
	s.trainers[id] = t
	return nil
}

type memRoleRates struct{ rates []rolerate.Rate }

// List returns the configured rates.
func (m memRoleRates) List(_ context.Context) ([]rolerate.Rate, error) { return m.rates, nil }

// --- sessions ---

type memSessionStore struct {
	sessions map[string]session.Session
	deleted  []string
}

func newMemSessionStore(ss ...session.Session) *memSessionStore {
	m := &memSessionStore{sessions: make(map[string]session.Session)}
	for _, s := range ss {
		m.sessions[s.Token] = s
	}
	return m
}

// Get returns the session or session.ErrExpired.
func (m *memSessionStore) Get(_ context.Context, token string) (session.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return session.Session{}, session.ErrExpired
	}
	return s, nil
}

// Save upserts a session.
func (m *memSessionStore) Save(_ context.Context, s session.Session) error {
	if prev, ok := m.sessions[s.Token]; ok && !prev.CreatedAt.IsZero() {
		s.CreatedAt = prev.CreatedAt
	}
	m.sessions[s.Token] = s
	return nil
}

// Delete removes a session.
func (m *memSessionStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	m.deleted = append(m.deleted, token)
	return nil
}

// DeleteExpired removes expired sessions.
func (m *memSessionStore) DeleteExpired(_ context.Context, now time.Time, ttl time.Duration) (int, error) {
	n := 0
	for token, s := range m.sessions {
		if s.Expired(now, ttl) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

// memSender is an enabled sender that keeps messages.
type memSender struct{ sent []email.SendRequest }

func (m *memSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: fmt.Sprintf("m-%d", len(m.sent)), SentAt: fixedTime}, nil
}

func (m *memSender) Enabled() bool { return true }

type authCounter struct{ events []string }

// AuthEvent records the event name. A nil counter drops it, like perf.Collector.
func (c *authCounter) AuthEvent(event string) {
	if c == nil {
		return
	}
	c.events = append(c.events, event)
}

// --- months ---

type memMonths struct {
	status map[string]monthlock.Status
}

func newMemMonths() *memMonths { return &memMonths{status: make(map[string]monthlock.Status)} }

// Get returns the month status; unknown months are open.
func (m *memMonths) Get(_ context.Context, month string) (monthlock.MonthStatus, error) {
	st, ok := m.status[month]
	if !ok {
		st = monthlock.StatusOpen
	}
	return monthlock.MonthStatus{Month: month, Status: st}, nil
}

// Set stores the month status.
func (m *memMonths) Set(_ context.Context, ms monthlock.MonthStatus) error {
	m.status[ms.Month] = ms.Status
	return nil
}

// --- trainings ---

type memTrainingStore struct {
	trainings map[string]training.Training
}

func newMemTrainingStore(ts ...training.Training) *memTrainingStore {
	s := &memTrainingStore{trainings: make(map[string]training.Training)}
	for _, t := range ts {
		s.trainings[t.ID] = t
	}
	return s
}

// GetByID returns a live training.
// POST: soft-deleted and unknown ids yield training.ErrNotFound
func (s *memTrainingStore) GetByID(_ context.Context, id string) (training.Training, error) {
	t, ok := s.trainings[id]
	if !ok || t.Deleted() {
		return training.Training{}, training.ErrNotFound
	}
	return t, nil
}

// GetAnyByID returns a training, soft-deleted or not.
func (s *memTrainingStore) GetAnyByID(_ context.Context, id string) (training.Training, error) {
	t, ok := s.trainings[id]
	if !ok {
		return training.Training{}, training.ErrNotFound
	}
	return t, nil
}

// IDsForYear returns ids with the TR-year- prefix, deleted rows included.
func (s *memTrainingStore) IDsForYear(_ context.Context, year int) ([]string, error) {
	var ids []string
	prefix := fmt.Sprintf("TR-%d-", year)
	for id := range s.trainings {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Save upserts a training.
func (s *memTrainingStore) Save(_ context.Context, t training.Training) error {
	s.trainings[t.ID] = t
	return nil
}

// Insert creates a training unless the id is taken.
func (s *memTrainingStore) Insert(_ context.Context, t training.Training) (bool, error) {
	if _, ok := s.trainings[t.ID]; ok {
		return false, nil
	}
	s.trainings[t.ID] = t
	return true, nil
}

// CreateSeries inserts all trainings or none.
func (s *memTrainingStore) CreateSeries(_ context.Context, ts []training.Training) error {
	for _, t := range ts {
		if _, ok := s.trainings[t.ID]; ok {
			return fmt.Errorf("duplicate id %s", t.ID)
		}
	}
	for _, t := range ts {
		s.trainings[t.ID] = t
	}
	return nil
}

// SetStatus changes status and reason of a live training.
func (s *memTrainingStore) SetStatus(_ context.Context, id string, status training.Status, reason string, at time.Time) error {
	t, ok := s.trainings[id]
	if !ok || t.Deleted() {
		return training.ErrNotFound
	}
	t.Status, t.CancelReason, t.UpdatedAt = status, reason, at
	s.trainings[id] = t
	return nil
}

// SoftDelete stamps deleted_at on a live training.
func (s *memTrainingStore) SoftDelete(_ context.Context, id string, at time.Time) error {
	t, ok := s.trainings[id]
	if !ok || t.Deleted() {
		return training.ErrNotFound
	}
	t.DeletedAt = at
	s.trainings[id] = t
	return nil
}

// --- assignments and notices ---

type memNoticeStore struct {
	notices []unavailability.Notice
}

// Mark updates the active notice or appends one.
func (m *memNoticeStore) Mark(_ context.Context, n unavailability.Notice) error {
	for i, x := range m.notices {
		if x.TrainingID == n.TrainingID && x.TrainerID == n.TrainerID && x.Active() {
			m.notices[i].Reason = n.Reason
			return nil
		}
	}
	m.notices = append(m.notices, n)
	return nil
}

// Clear soft-deletes active notices.
// POST: Returns unavailability.ErrNotFound when none was active
func (m *memNoticeStore) Clear(_ context.Context, trainingID, trainerID string, at time.Time) error {
	cleared := false
	for i, x := range m.notices {
		if x.TrainingID == trainingID && x.TrainerID == trainerID && x.Active() {
			m.notices[i].DeletedAt = at
			cleared = true
		}
	}
	if !cleared {
		return unavailability.ErrNotFound
	}
	return nil
}

func (m *memNoticeStore) active() []unavailability.Notice {
	var out []unavailability.Notice
	for _, n := range m.notices {
		if n.Active() {
			out = append(out, n)
		}
	}
	return out
}

type memAssignmentStore struct {
	rows    map[string]assignment.Assignment
	notices *memNoticeStore
}

func newMemAssignmentStore(rows ...assignment.Assignment) *memAssignmentStore {
	s := &memAssignmentStore{rows: make(map[string]assignment.Assignment), notices: &memNoticeStore{}}
	for _, a := range rows {
		s.rows[a.ID] = a
	}
	return s
}

// GetByID returns an assignment or assignment.ErrNotFound.
func (s *memAssignmentStore) GetByID(_ context.Context, id string) (assignment.Assignment, error) {
	a, ok := s.rows[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

// HasActive reports an active row for (training, trainer).
func (s *memAssignmentStore) HasActive(_ context.Context, trainingID, trainerID string) (bool, error) {
	for _, a := range s.rows {
		if a.TrainingID == trainingID && a.TrainerID == trainerID && a.Active() {
			return true, nil
		}
	}
	return false, nil
}

// CountActiveForTraining counts active rows of a training.
func (s *memAssignmentStore) CountActiveForTraining(_ context.Context, trainingID string) (int, error) {
	n := 0
	for _, a := range s.rows {
		if a.TrainingID == trainingID && a.Active() {
			n++
		}
	}
	return n, nil
}

// IDsForYear returns EIN-year- ids.
func (s *memAssignmentStore) IDsForYear(_ context.Context, year int) ([]string, error) {
	var ids []string
	prefix := fmt.Sprintf("EIN-%d-", year)
	for id := range s.rows {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Insert mirrors the conditional insert guarded by the partial unique index.
// POST: false when the id is taken or an active row exists
func (s *memAssignmentStore) Insert(ctx context.Context, a assignment.Assignment) (bool, error) {
	if _, ok := s.rows[a.ID]; ok {
		return false, nil
	}
	if active, _ := s.HasActive(ctx, a.TrainingID, a.TrainerID); active {
		return false, nil
	}
	s.rows[a.ID] = a
	return true, nil
}

// Update writes editable fields of an active row.
func (s *memAssignmentStore) Update(_ context.Context, a assignment.Assignment) error {
	prev, ok := s.rows[a.ID]
	if !ok || !prev.Active() {
		return assignment.ErrWithdrawnLocked
	}
	s.rows[a.ID] = a
	return nil
}

// CheckIn marks attendance.
func (s *memAssignmentStore) CheckIn(_ context.Context, id string, at time.Time) error {
	a, ok := s.rows[id]
	if !ok {
		return assignment.ErrNotFound
	}
	a.CheckIn(at)
	s.rows[id] = a
	return nil
}

// Withdraw stamps withdrawn_at, keeping an existing stamp.
func (s *memAssignmentStore) Withdraw(_ context.Context, id string, at time.Time) error {
	a, ok := s.rows[id]
	if !ok {
		return assignment.ErrNotFound
	}
	a.Withdraw(at)
	s.rows[id] = a
	return nil
}

// CancelWithNotice withdraws the active row and records the notice.
func (s *memAssignmentStore) CancelWithNotice(_ context.Context, trainingID, trainerID string, n unavailability.Notice, at time.Time) error {
	for id, a := range s.rows {
		if a.TrainingID == trainingID && a.TrainerID == trainerID && a.Active() {
			a.Withdraw(at)
			s.rows[id] = a
			s.notices.notices = append(s.notices.notices, n)
			return nil
		}
	}
	return assignment.ErrAlreadyCancelled
}

// --- plans ---

type memPlanStore struct {
	plans map[string]trainingplan.Plan // keyed by training id
}

// GetByTraining returns the plan of a training.
func (m *memPlanStore) GetByTraining(_ context.Context, trainingID string) (trainingplan.Plan, error) {
	p, ok := m.plans[trainingID]
	if !ok {
		return trainingplan.Plan{}, trainingplan.ErrNotFound
	}
	return p, nil
}

// Upsert keeps id and created fields of an existing plan.
func (m *memPlanStore) Upsert(_ context.Context, p trainingplan.Plan) (string, error) {
	if prev, ok := m.plans[p.TrainingID]; ok {
		p.ID, p.CreatedAt, p.CreatedBy = prev.ID, prev.CreatedAt, prev.CreatedBy
	}
	m.plans[p.TrainingID] = p
	return p.ID, nil
}

// Delete removes a plan by id.
func (m *memPlanStore) Delete(_ context.Context, planID string) error {
	for tid, p := range m.plans {
		if p.ID == planID {
			delete(m.plans, tid)
			return nil
		}
	}
	return trainingplan.ErrNotFound
}

// --- tournaments ---

type memTournamentStore struct {
	tournaments map[string]tournament.Tournament
	rows        map[string]tournament.Assignment
	trips       map[string]tournament.Trip
}

func newMemTournamentStore(ts ...tournament.Tournament) *memTournamentStore {
	s := &memTournamentStore{
		tournaments: make(map[string]tournament.Tournament),
		rows:        make(map[string]tournament.Assignment),
		trips:       make(map[string]tournament.Trip),
	}
	for _, t := range ts {
		s.tournaments[t.ID] = t
	}
	return s
}

// Get returns a tournament or tournament.ErrNotFound.
func (s *memTournamentStore) Get(_ context.Context, id string) (tournament.Tournament, error) {
	t, ok := s.tournaments[id]
	if !ok {
		return tournament.Tournament{}, tournament.ErrNotFound
	}
	return t, nil
}

// Save upserts a tournament.
func (s *memTournamentStore) Save(_ context.Context, t tournament.Tournament) error {
	s.tournaments[t.ID] = t
	return nil
}

// Delete removes the tournament with rows and trips.
func (s *memTournamentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tournaments[id]; !ok {
		return tournament.ErrNotFound
	}
	delete(s.tournaments, id)
	for rid, a := range s.rows {
		if a.TournamentID == id {
			delete(s.rows, rid)
		}
	}
	for fid, f := range s.trips {
		if f.TournamentID == id {
			delete(s.trips, fid)
		}
	}
	return nil
}

// GetAssignment returns a row or tournament.ErrAssignmentNotFound.
func (s *memTournamentStore) GetAssignment(_ context.Context, id string) (tournament.Assignment, error) {
	a, ok := s.rows[id]
	if !ok {
		return tournament.Assignment{}, tournament.ErrAssignmentNotFound
	}
	return a, nil
}

// FindAssignment returns the (tournament, trainer) row.
func (s *memTournamentStore) FindAssignment(_ context.Context, tournamentID, trainerID string) (tournament.Assignment, bool, error) {
	for _, a := range s.rows {
		if a.TournamentID == tournamentID && a.TrainerID == trainerID {
			return a, true, nil
		}
	}
	return tournament.Assignment{}, false, nil
}

// UpsertAssignment writes the (tournament, trainer) row, keeping an existing id.
func (s *memTournamentStore) UpsertAssignment(ctx context.Context, a tournament.Assignment) (string, error) {
	if prev, ok, _ := s.FindAssignment(ctx, a.TournamentID, a.TrainerID); ok {
		a.ID = prev.ID
		a.DailyAllowance, a.Approved = prev.DailyAllowance, prev.Approved
	}
	s.rows[a.ID] = a
	return a.ID, nil
}

// SetAssignmentStatus changes the status of a row.
func (s *memTournamentStore) SetAssignmentStatus(_ context.Context, id string, status tournament.Status) error {
	a, ok := s.rows[id]
	if !ok {
		return tournament.ErrAssignmentNotFound
	}
	a.Status = status
	s.rows[id] = a
	return nil
}

// UpsertTrip writes km and date, keeping id and comment of an existing trip.
func (s *memTournamentStore) UpsertTrip(_ context.Context, f tournament.Trip) (string, error) {
	for id, prev := range s.trips {
		if prev.TournamentID == f.TournamentID && prev.DriverID == f.DriverID {
			prev.KmTotal, prev.Date = f.KmTotal, f.Date
			s.trips[id] = prev
			return id, nil
		}
	}
	s.trips[f.ID] = f
	return f.ID, nil
}

// --- audit ---

type memAudit struct{ events []audit.Event }

// Save records the event.
func (m *memAudit) Save(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}
