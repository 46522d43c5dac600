package audit

import (
	"context"
	"database/sql"
	"fmt"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/audit"
)

const selectColumns = `id, timestamp, category, action, severity, actor_id, actor_role, resource_type, resource_id, description`

// SQLStore implements the audit Store over audit_log.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new audit event store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Save persists an audit event.
func (s *SQLStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, storage.FormatTime(event.Timestamp), string(event.Category), string(event.Action),
		string(event.Severity), event.ActorID, event.ActorRole, event.ResourceType, event.ResourceID, event.Description)
	if err != nil {
		return fmt.Errorf("save audit event: %w", err)
	}
	return nil
}

// List returns audit events with optional filtering.
func (s *SQLStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM audit_log WHERE 1=1`
	var args []any

	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.ActorID != nil {
		query += " AND actor_id = ?"
		args = append(args, *filter.ActorID)
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}
	if !filter.From.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, storage.FormatTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, storage.FormatTime(filter.To))
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var ts sql.NullString
		if err := rows.Scan(&e.ID, &ts, &e.Category, &e.Action, &e.Severity, &e.ActorID, &e.ActorRole, &e.ResourceType, &e.ResourceID, &e.Description); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Timestamp = storage.ParseStoredTime(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}
