package projections

import (
	"context"
	"fmt"
	"time"

	storeTraining "trainerweb/internal/adapters/storage/training"
	domainMonth "trainerweb/internal/domain/monthlock"
	domainTraining "trainerweb/internal/domain/training"
)

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	Trainings   TrainingLister
	Counts      ActiveCountStore
	Assignments AssignmentLister
}

// GetAdminDashboardResult carries the output of the admin dashboard projection.
type GetAdminDashboardResult struct {
	UpcomingCount          int `json:"upcomingCount"`
	OpenSlotsCount         int `json:"openSlotsCount"`
	OpenCheckinsCount      int `json:"openCheckinsCount"`
	TrainingsThisWeekCount int `json:"trainingsThisWeekCount"`
}

// QueryGetAdminDashboard computes the admin counters.
// PRE: now is in the club's timezone
// POST: OpenSlotsCount sums open slots of upcoming trainings only;
// TrainingsThisWeekCount uses the ISO week of now
func QueryGetAdminDashboard(ctx context.Context, now time.Time, deps GetAdminDashboardDeps) (GetAdminDashboardResult, error) {
	trainings, err := deps.Trainings.List(ctx)
	if err != nil {
		return GetAdminDashboardResult{}, fmt.Errorf("list trainings: %w", err)
	}
	counts, err := deps.Counts.CountActiveByTraining(ctx)
	if err != nil {
		return GetAdminDashboardResult{}, fmt.Errorf("count assignments: %w", err)
	}
	rows, err := deps.Assignments.List(ctx)
	if err != nil {
		return GetAdminDashboardResult{}, fmt.Errorf("list assignments: %w", err)
	}

	today := dayOf(now)
	year, week := today.ISOWeek()
	past := make(map[string]bool)
	var result GetAdminDashboardResult
	for _, t := range trainings {
		if !t.Date.Before(today) {
			result.UpcomingCount++
			result.OpenSlotsCount += t.OpenSlots(counts[t.ID])
		} else if t.Status != domainTraining.StatusCanceled {
			past[t.ID] = true
		}
		if y, w := t.Date.ISOWeek(); y == year && w == week {
			result.TrainingsThisWeekCount++
		}
	}
	for _, a := range rows {
		if a.Active() && !a.Attendance && past[a.TrainingID] {
			result.OpenCheckinsCount++
		}
	}
	return result, nil
}

// GetAdminTrainingsQuery carries input for the admin trainings list.
type GetAdminTrainingsQuery struct {
	Month  string // YYYY-MM, optional
	Status string // optional
}

// AdminTrainingsStore defines the training store interface needed by the admin trainings list.
type AdminTrainingsStore interface {
	ListFiltered(ctx context.Context, f storeTraining.Filter) ([]domainTraining.Training, error)
}

// GetAdminTrainingsDeps holds dependencies for the admin trainings list.
type GetAdminTrainingsDeps struct {
	Trainings AdminTrainingsStore
	Counts    ActiveCountStore
}

// QueryGetAdminTrainings lists live trainings filtered by month and status.
// POST: Returns a validation error for a malformed month or unknown status
func QueryGetAdminTrainings(ctx context.Context, query GetAdminTrainingsQuery, deps GetAdminTrainingsDeps) ([]TrainingView, error) {
	var filter storeTraining.Filter
	if query.Month != "" {
		if err := domainMonth.ValidateMonth(query.Month); err != nil {
			return nil, err
		}
		filter.Month = query.Month
	}
	if query.Status != "" {
		status, err := domainTraining.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	trainings, err := deps.Trainings.ListFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	counts, err := deps.Counts.CountActiveByTraining(ctx)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	items := make([]TrainingView, 0, len(trainings))
	for _, t := range trainings {
		items = append(items, NewTrainingView(t, counts[t.ID]))
	}
	return items, nil
}
