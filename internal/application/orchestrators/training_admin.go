package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/training"
	"trainerweb/internal/domain/trainingplan"
)

// TrainingStoreForAdmin defines the store interface needed by training administration.
type TrainingStoreForAdmin interface {
	GetByID(ctx context.Context, id string) (training.Training, error)
	IDsForYear(ctx context.Context, year int) ([]string, error)
	Save(ctx context.Context, t training.Training) error
	Insert(ctx context.Context, t training.Training) (bool, error)
	CreateSeries(ctx context.Context, ts []training.Training) error
	SetStatus(ctx context.Context, id string, status training.Status, reason string, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ActiveCounter counts active assignments of a training.
type ActiveCounter interface {
	CountActiveForTraining(ctx context.Context, trainingID string) (int, error)
}

// PlanStore persists training plans.
type PlanStore interface {
	GetByTraining(ctx context.Context, trainingID string) (trainingplan.Plan, error)
	Upsert(ctx context.Context, p trainingplan.Plan) (string, error)
	Delete(ctx context.Context, planID string) error
}

// TrainingAdminDeps holds dependencies for training administration.
type TrainingAdminDeps struct {
	Trainings   TrainingStoreForAdmin
	Assignments ActiveCounter
	Plans       PlanStore
	Audit       AuditRecorder
	Now         func() time.Time
	GenerateID  func() string // plan ids
}

// TrainingPayload is the admin form of a training. Date and times are raw strings.
type TrainingPayload struct {
	ID           string
	Date         string
	Start        string
	End          string
	Group        string
	Location     string
	Status       string
	Required     int
	CancelReason string
	Notes        string
}

// SaveTrainingInput carries input for SaveTraining.
type SaveTrainingInput struct {
	Actor   session.Session
	Payload TrainingPayload
}

// ExecuteSaveTraining creates or updates a training.
// PRE: Actor is an admin
// POST: Returns the stored training; a blank id is replaced by the next TR-YYYY-NNN
func ExecuteSaveTraining(ctx context.Context, input SaveTrainingInput, deps TrainingAdminDeps) (training.Training, error) {
	p := input.Payload
	if strings.TrimSpace(p.Date) == "" || strings.TrimSpace(p.Start) == "" || strings.TrimSpace(p.End) == "" || strings.TrimSpace(p.Group) == "" {
		return training.Training{}, training.ErrMissingFields
	}
	t, err := trainingFromPayload(p)
	if err != nil {
		return training.Training{}, err
	}
	if err := t.Validate(); err != nil {
		return training.Training{}, err
	}

	now := deps.Now()
	t.UpdatedAt = now
	if t.ID != "" {
		if err := deps.Trainings.Save(ctx, t); err != nil {
			return training.Training{}, fmt.Errorf("save training: %w", err)
		}
		recordTrainingAudit(ctx, deps, input.Actor, audit.ActionUpdate, t.ID, t.Label())
		return t, nil
	}

	t.CreatedAt = now
	year := t.Date.Year()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		ids, err := deps.Trainings.IDsForYear(ctx, year)
		if err != nil {
			return training.Training{}, fmt.Errorf("load training ids: %w", err)
		}
		t.ID = training.FormatID(year, training.NextIDNumber(ids, "TR", year))
		inserted, err := deps.Trainings.Insert(ctx, t)
		if err != nil {
			return training.Training{}, fmt.Errorf("insert training: %w", err)
		}
		if inserted {
			recordTrainingAudit(ctx, deps, input.Actor, audit.ActionCreate, t.ID, t.Label())
			return t, nil
		}
	}
	return training.Training{}, fmt.Errorf("allocate training id for %d: %d attempts collided", year, maxIDAttempts)
}

func trainingFromPayload(p TrainingPayload) (training.Training, error) {
	date, err := training.ParseDate(p.Date)
	if err != nil {
		return training.Training{}, err
	}
	start, err := training.NormalizeClock(p.Start)
	if err != nil {
		return training.Training{}, err
	}
	end, err := training.NormalizeClock(p.End)
	if err != nil {
		return training.Training{}, err
	}
	status, err := training.ParseStatus(p.Status)
	if err != nil {
		return training.Training{}, err
	}
	return training.Training{
		ID:           strings.TrimSpace(p.ID),
		Date:         date,
		Start:        start,
		End:          end,
		Group:        strings.TrimSpace(p.Group),
		Location:     strings.TrimSpace(p.Location),
		Status:       status,
		Required:     p.Required,
		CancelReason: strings.TrimSpace(p.CancelReason),
		Notes:        strings.TrimSpace(p.Notes),
	}, nil
}

// SetTrainingStatusInput carries input for SetTrainingStatus.
type SetTrainingStatusInput struct {
	Actor      session.Session
	TrainingID string
	Status     string
	Reason     string
}

// ExecuteSetTrainingStatus changes the lifecycle state of a training.
// PRE: Actor is an admin
// POST: the reason is stored only for ausgefallen
func ExecuteSetTrainingStatus(ctx context.Context, input SetTrainingStatusInput, deps TrainingAdminDeps) error {
	status, err := training.ParseStatus(input.Status)
	if err != nil {
		return err
	}
	reason := strings.TrimSpace(input.Reason)
	if status != training.StatusCanceled {
		reason = ""
	}
	if err := deps.Trainings.SetStatus(ctx, input.TrainingID, status, reason, deps.Now()); err != nil {
		return storeErr("set training status", err, training.ErrNotFound)
	}
	recordTrainingAudit(ctx, deps, input.Actor, audit.ActionSetStatus, input.TrainingID, string(status))
	return nil
}

// DeleteTrainingInput carries input for DeleteTraining.
type DeleteTrainingInput struct {
	Actor      session.Session
	TrainingID string
}

// ExecuteDeleteTraining soft-deletes a training without active assignments.
// PRE: Actor is an admin
// POST: Returns training.ErrHasAssignments while active assignments exist; nothing is written then
func ExecuteDeleteTraining(ctx context.Context, input DeleteTrainingInput, deps TrainingAdminDeps) error {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return err
	}
	n, err := deps.Assignments.CountActiveForTraining(ctx, tr.ID)
	if err != nil {
		return fmt.Errorf("count assignments: %w", err)
	}
	if n > 0 {
		return training.ErrHasAssignments
	}
	if err := deps.Trainings.SoftDelete(ctx, tr.ID, deps.Now()); err != nil {
		return storeErr("delete training", err, training.ErrNotFound)
	}
	recordTrainingAudit(ctx, deps, input.Actor, audit.ActionDelete, tr.ID, tr.Label())
	return nil
}

// SeriesInput carries input for CreateSeries.
type SeriesInput struct {
	Actor     session.Session
	Weekday   string // German weekday name
	StartDate string
	Count     int
	Start     string
	End       string
	Group     string
	Location  string
	Required  int
	Status    string
}

// ExecuteCreateSeries creates Count weekly trainings.
// PRE: Actor is an admin; 1 <= Count <= training.MaxSeriesCount, else a validation error
// POST: all trainings are created with consecutive TR-YYYY-NNN ids per year, or none
func ExecuteCreateSeries(ctx context.Context, input SeriesInput, deps TrainingAdminDeps) ([]training.Training, error) {
	if strings.TrimSpace(input.Weekday) == "" || strings.TrimSpace(input.StartDate) == "" ||
		strings.TrimSpace(input.Start) == "" || strings.TrimSpace(input.End) == "" || strings.TrimSpace(input.Group) == "" {
		return nil, training.ErrSeriesFields
	}
	if input.Count < 1 {
		return nil, training.ErrSeriesCount
	}
	if input.Count > training.MaxSeriesCount {
		return nil, training.ErrSeriesTooLong
	}
	startDate, err := training.ParseDate(input.StartDate)
	if err != nil {
		return nil, training.ErrSeriesStartDate
	}
	weekday, err := training.ParseWeekday(input.Weekday)
	if err != nil {
		return nil, err
	}
	template, err := trainingFromPayload(TrainingPayload{
		Date: input.StartDate, Start: input.Start, End: input.End, Group: input.Group,
		Location: input.Location, Status: input.Status, Required: input.Required,
	})
	if err != nil {
		return nil, err
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	now := deps.Now()
	nextByYear := make(map[int]int)
	var series []training.Training
	for _, d := range training.SeriesDates(weekday, startDate, input.Count) {
		year := d.Year()
		if _, ok := nextByYear[year]; !ok {
			ids, err := deps.Trainings.IDsForYear(ctx, year)
			if err != nil {
				return nil, fmt.Errorf("load training ids: %w", err)
			}
			nextByYear[year] = training.NextIDNumber(ids, "TR", year)
		}
		t := template
		t.ID = training.FormatID(year, nextByYear[year])
		nextByYear[year]++
		t.Date = d
		t.CreatedAt = now
		t.UpdatedAt = now
		series = append(series, t)
	}
	if err := deps.Trainings.CreateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	recordTrainingAudit(ctx, deps, input.Actor, audit.ActionCreate, series[0].ID, fmt.Sprintf("Serie %s, %d Termine", template.Group, len(series)))
	slog.Info("training_series_created", "group", template.Group, "count", len(series), "first_id", series[0].ID)
	return series, nil
}

// SavePlanInput carries input for SavePlan.
type SavePlanInput struct {
	Actor      session.Session
	TrainingID string
	Title      string
	Content    string
	Link       string
}

// ExecuteSavePlan upserts the plan of a training.
// PRE: Actor is an admin
// POST: Returns the plan id; created fields of an existing plan are kept
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps TrainingAdminDeps) (string, error) {
	tr, err := loadTraining(ctx, deps.Trainings, input.TrainingID)
	if err != nil {
		return "", err
	}
	now := deps.Now()
	p := trainingplan.Plan{
		ID:         deps.GenerateID(),
		TrainingID: tr.ID,
		Title:      strings.TrimSpace(input.Title),
		Content:    strings.TrimSpace(input.Content),
		Link:       strings.TrimSpace(input.Link),
		CreatedAt:  now,
		CreatedBy:  input.Actor.TrainerID,
		UpdatedAt:  now,
		UpdatedBy:  input.Actor.TrainerID,
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	id, err := deps.Plans.Upsert(ctx, p)
	if err != nil {
		return "", fmt.Errorf("save plan: %w", err)
	}
	recordTrainingAudit(ctx, deps, input.Actor, audit.ActionUpdate, tr.ID, "Trainingsplan "+id)
	return id, nil
}

// ExecuteDeletePlan removes a plan by id.
// POST: Returns trainingplan.ErrNotFound for unknown ids
func ExecuteDeletePlan(ctx context.Context, actor session.Session, planID string, deps TrainingAdminDeps) error {
	if err := deps.Plans.Delete(ctx, strings.TrimSpace(planID)); err != nil {
		return storeErr("delete plan", err, trainingplan.ErrNotFound)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), actor.TrainerID, actorRole(actor.IsAdmin), audit.CategoryTraining, audit.ActionDelete).
		WithResource("training_plan", planID))
	return nil
}

func recordTrainingAudit(ctx context.Context, deps TrainingAdminDeps, actor session.Session, action audit.Action, id, desc string) {
	recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), actor.TrainerID, actorRole(actor.IsAdmin), audit.CategoryTraining, action).
		WithResource("training", id).
		WithDescription(desc))
}
