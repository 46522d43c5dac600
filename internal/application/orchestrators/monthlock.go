package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/monthlock"
	"trainerweb/internal/domain/session"
)

// MonthStatusReader reads the billing status of a month.
type MonthStatusReader interface {
	Get(ctx context.Context, month string) (monthlock.MonthStatus, error)
}

// checkMonthOpen rejects mutations in locked or released months.
// PRE: date is the training date
// POST: Returns monthlock.ErrLocked for gesperrt/freigegeben; unknown months are open
func checkMonthOpen(ctx context.Context, months MonthStatusReader, date time.Time) error {
	if months == nil || date.IsZero() {
		return nil
	}
	ms, err := months.Get(ctx, monthlock.MonthKey(date))
	if err != nil {
		return fmt.Errorf("load month status: %w", err)
	}
	return monthlock.Check(ms.Status)
}

// MonthStatusStore reads and writes month statuses.
type MonthStatusStore interface {
	Set(ctx context.Context, ms monthlock.MonthStatus) error
}

// SetMonthStatusInput carries input for SetMonthStatus.
type SetMonthStatusInput struct {
	Actor  session.Session
	Month  string
	Status string
}

// SetMonthStatusDeps holds dependencies for SetMonthStatus.
type SetMonthStatusDeps struct {
	MonthStore MonthStatusStore
	Audit      AuditRecorder
	Now        func() time.Time
}

// ExecuteSetMonthStatus opens, locks or releases a billing month.
// PRE: Actor is an admin
// POST: the month row carries the new status and the actor as updater
func ExecuteSetMonthStatus(ctx context.Context, input SetMonthStatusInput, deps SetMonthStatusDeps) (monthlock.MonthStatus, error) {
	if err := monthlock.ValidateMonth(input.Month); err != nil {
		return monthlock.MonthStatus{}, err
	}
	status, err := monthlock.ParseStatus(input.Status)
	if err != nil {
		return monthlock.MonthStatus{}, err
	}
	ms := monthlock.MonthStatus{
		Month:     input.Month,
		Status:    status,
		UpdatedAt: deps.Now(),
		UpdatedBy: input.Actor.TrainerID,
	}
	if err := deps.MonthStore.Set(ctx, ms); err != nil {
		return monthlock.MonthStatus{}, fmt.Errorf("set month status: %w", err)
	}
	recordAudit(ctx, deps.Audit, audit.NewEvent(ms.UpdatedAt, input.Actor.TrainerID, actorRole(input.Actor.IsAdmin), audit.CategoryBilling, audit.ActionSetStatus).
		WithResource("month", ms.Month).
		WithDescription(string(ms.Status)))
	slog.Info("month_status_changed", "month", ms.Month, "status", ms.Status, "actor_id", input.Actor.TrainerID)
	return ms, nil
}
