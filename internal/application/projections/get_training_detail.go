package projections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainAssignment "trainerweb/internal/domain/assignment"
	domainTrainer "trainerweb/internal/domain/trainer"
	domainTraining "trainerweb/internal/domain/training"
	domainPlan "trainerweb/internal/domain/trainingplan"
	domainNotice "trainerweb/internal/domain/unavailability"
)

// TrainingDetailTrainingStore defines the training store interface needed by the training detail projection.
type TrainingDetailTrainingStore interface {
	GetByID(ctx context.Context, id string) (domainTraining.Training, error)
}

// TrainingDetailAssignmentStore defines the assignment store interface needed by the training detail projection.
type TrainingDetailAssignmentStore interface {
	ListByTraining(ctx context.Context, trainingID string) ([]domainAssignment.Assignment, error)
}

// TrainingDetailNoticeStore defines the notice store interface needed by the training detail projection.
type TrainingDetailNoticeStore interface {
	ListActiveByTraining(ctx context.Context, trainingID string) ([]domainNotice.Notice, error)
}

// TrainingDetailPlanStore defines the plan store interface needed by the training detail projection.
type TrainingDetailPlanStore interface {
	GetByTraining(ctx context.Context, trainingID string) (domainPlan.Plan, error)
}

// GetTrainingDetailQuery carries input for the training detail projection.
type GetTrainingDetailQuery struct {
	TrainingID string
	TrainerID  string // viewer; marks own signup and notice
}

// GetTrainingDetailDeps holds dependencies for the training detail projection.
type GetTrainingDetailDeps struct {
	Trainings   TrainingDetailTrainingStore
	Assignments TrainingDetailAssignmentStore
	Trainers    TrainerLister
	Notices     TrainingDetailNoticeStore
	Plans       TrainingDetailPlanStore // optional
}

// SignupView is one active assignment of a training.
type SignupView struct {
	AssignmentID string `json:"einteilung_id"`
	TrainerID    string `json:"trainer_id"`
	Name         string `json:"name"`
	Role         string `json:"rolle"`
	CheckinAt    string `json:"checkin_am"`
	Attendance   bool   `json:"attendance"`
	Comment      string `json:"kommentar"`
}

// AbsenceView is one active notice of a training.
type AbsenceView struct {
	TrainerID string `json:"trainer_id"`
	Name      string `json:"name"`
	Reason    string `json:"grund"`
}

// PlanView is the plan attached to a training.
type PlanView struct {
	ID        string `json:"plan_id"`
	Title     string `json:"titel"`
	Content   string `json:"inhalt"`
	Link      string `json:"link"`
	UpdatedAt string `json:"updated_at"`
	UpdatedBy string `json:"updated_by"`
}

// GetTrainingDetailResult carries the output of the training detail projection.
type GetTrainingDetailResult struct {
	Training TrainingView    `json:"training"`
	Signups  []SignupView    `json:"signups"`
	Absences []AbsenceView   `json:"abmeldungen"`
	Plan     *PlanView       `json:"plan"`
	Mine     *AssignmentView `json:"mine"`
}

// QueryGetTrainingDetail returns a training with its active signups and plan.
// PRE: query.TrainingID is non-empty
// POST: Returns domainTraining.ErrNotFound for unknown or deleted trainings
func QueryGetTrainingDetail(ctx context.Context, query GetTrainingDetailQuery, deps GetTrainingDetailDeps) (GetTrainingDetailResult, error) {
	t, err := deps.Trainings.GetByID(ctx, strings.TrimSpace(query.TrainingID))
	if err != nil {
		if errors.Is(err, domainTraining.ErrNotFound) {
			return GetTrainingDetailResult{}, err
		}
		return GetTrainingDetailResult{}, fmt.Errorf("get training: %w", err)
	}
	rows, err := deps.Assignments.ListByTraining(ctx, t.ID)
	if err != nil {
		return GetTrainingDetailResult{}, fmt.Errorf("list signups: %w", err)
	}
	trainers, err := deps.Trainers.List(ctx)
	if err != nil {
		return GetTrainingDetailResult{}, fmt.Errorf("list trainers: %w", err)
	}
	names := trainerNames(trainers)
	byID := make(map[string]domainTrainer.Trainer, len(trainers))
	for _, tr := range trainers {
		byID[tr.ID] = tr
	}

	result := GetTrainingDetailResult{Signups: []SignupView{}, Absences: []AbsenceView{}}
	for _, a := range rows {
		if !a.Active() {
			continue
		}
		role := a.Role
		if role == "" {
			role = byID[a.TrainerID].Role()
		}
		result.Signups = append(result.Signups, SignupView{
			AssignmentID: a.ID,
			TrainerID:    a.TrainerID,
			Name:         nameOr(names, a.TrainerID),
			Role:         role,
			CheckinAt:    formatStamp(a.CheckinAt),
			Attendance:   a.Attendance,
			Comment:      a.Comment,
		})
		if a.TrainerID == query.TrainerID {
			v := NewAssignmentView(a, t, true)
			result.Mine = &v
		}
	}
	result.Training = NewTrainingView(t, len(result.Signups))

	notices, err := deps.Notices.ListActiveByTraining(ctx, t.ID)
	if err != nil {
		return GetTrainingDetailResult{}, fmt.Errorf("list notices: %w", err)
	}
	for _, n := range notices {
		result.Absences = append(result.Absences, AbsenceView{TrainerID: n.TrainerID, Name: nameOr(names, n.TrainerID), Reason: n.Reason})
		if n.TrainerID == query.TrainerID {
			result.Training.IsUnavailable = true
		}
	}

	if deps.Plans != nil {
		p, err := deps.Plans.GetByTraining(ctx, t.ID)
		switch {
		case err == nil:
			result.Plan = &PlanView{
				ID:        p.ID,
				Title:     p.Title,
				Content:   p.Content,
				Link:      p.Link,
				UpdatedAt: formatStamp(p.UpdatedAt),
				UpdatedBy: nameOr(names, p.UpdatedBy),
			}
		case !errors.Is(err, domainPlan.ErrNotFound):
			return GetTrainingDetailResult{}, fmt.Errorf("get plan: %w", err)
		}
	}
	return result, nil
}
