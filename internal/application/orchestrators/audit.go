package orchestrators

import (
	"context"
	"log/slog"

	"trainerweb/internal/domain/audit"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Save(ctx context.Context, event audit.Event) error
}

// recordAudit saves an event. Failures are logged and never fail the caller,
// whose change has already been committed.
func recordAudit(ctx context.Context, rec AuditRecorder, event audit.Event) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, event); err != nil {
		slog.Error("audit_save_failed", "action", event.Action, "resource_id", event.ResourceID, "error", err)
	}
}

func actorRole(isAdmin bool) string {
	if isAdmin {
		return "admin"
	}
	return "trainer"
}
