package monthstatus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/monthlock"
)

// Store persists per-month billing status (abrechnung_status).
type Store interface {
	// Get returns the month's status. Months without a row are open.
	Get(ctx context.Context, month string) (domain.MonthStatus, error)
	// Set upserts the month's status.
	// PRE: domain.ValidateMonth(ms.Month) == nil
	Set(ctx context.Context, ms domain.MonthStatus) error
	// List returns every stored month ordered by month.
	List(ctx context.Context) ([]domain.MonthStatus, error)
}

var _ Store = (*SQLStore)(nil)

// SQLStore implements Store.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a month status store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Get reads one month.
func (s *SQLStore) Get(ctx context.Context, month string) (domain.MonthStatus, error) {
	ms := domain.MonthStatus{Month: month}
	var status string
	var updated sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT status, updated_at, updated_by FROM abrechnung_status WHERE monat = ?`, month).
		Scan(&status, &updated, &ms.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		ms.Status = domain.StatusOpen
		return ms, nil
	}
	if err != nil {
		return domain.MonthStatus{}, fmt.Errorf("get month status %s: %w", month, err)
	}
	ms.Status = parse(status)
	ms.UpdatedAt = storage.ParseStoredTime(updated)
	return ms, nil
}

// Set writes one month.
func (s *SQLStore) Set(ctx context.Context, ms domain.MonthStatus) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO abrechnung_status (monat, status, updated_at, updated_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (monat) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		ms.Month, string(ms.Status), storage.FormatTime(ms.UpdatedAt), ms.UpdatedBy)
	if err != nil {
		return fmt.Errorf("set month status %s: %w", ms.Month, err)
	}
	return nil
}

// List reads all months.
func (s *SQLStore) List(ctx context.Context) ([]domain.MonthStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT monat, status, updated_at, updated_by FROM abrechnung_status ORDER BY monat`)
	if err != nil {
		return nil, fmt.Errorf("list month status: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthStatus
	for rows.Next() {
		var ms domain.MonthStatus
		var status string
		var updated sql.NullString
		if err := rows.Scan(&ms.Month, &status, &updated, &ms.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan month status: %w", err)
		}
		ms.Status = parse(status)
		ms.UpdatedAt = storage.ParseStoredTime(updated)
		out = append(out, ms)
	}
	return out, rows.Err()
}

// parse treats unrecognized stored values as open.
func parse(s string) domain.Status {
	st, err := domain.ParseStatus(s)
	if err != nil {
		return domain.StatusOpen
	}
	return st
}
