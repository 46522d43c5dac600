package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/training"
)

const selectColumns = `training_id, datum, start, ende, gruppe, ort, status, benoetigt_trainer, ausfall_grund, bemerkung, created_at, updated_at, deleted_at`

const insertSQL = `INSERT INTO trainings (` + selectColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`

// SQLStore implements Store over the trainings table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a training store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID returns one live training.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Training, error) {
	return s.get(ctx, `SELECT `+selectColumns+` FROM trainings WHERE training_id = ? AND deleted_at IS NULL`, id)
}

// GetAnyByID returns one training, soft-deleted or not.
func (s *SQLStore) GetAnyByID(ctx context.Context, id string) (domain.Training, error) {
	return s.get(ctx, `SELECT `+selectColumns+` FROM trainings WHERE training_id = ?`, id)
}

func (s *SQLStore) get(ctx context.Context, query, id string) (domain.Training, error) {
	t, err := scan(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Training{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Training{}, fmt.Errorf("get training %s: %w", id, err)
	}
	return t, nil
}

// List returns every live training.
func (s *SQLStore) List(ctx context.Context) ([]domain.Training, error) {
	return s.ListFiltered(ctx, Filter{})
}

// ListFiltered returns live trainings for an optional month and status.
func (s *SQLStore) ListFiltered(ctx context.Context, f Filter) ([]domain.Training, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any
	if f.Month != "" {
		where = append(where, "datum LIKE ?")
		args = append(args, f.Month+"-%")
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	query := `SELECT ` + selectColumns + ` FROM trainings WHERE ` + strings.Join(where, " AND ") + ` ORDER BY datum, start, training_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	defer rows.Close()

	var out []domain.Training
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// IDsForYear returns generated ids for a year.
func (s *SQLStore) IDsForYear(ctx context.Context, year int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT training_id FROM trainings WHERE training_id LIKE ?`, fmt.Sprintf("TR-%d-%%", year))
	if err != nil {
		return nil, fmt.Errorf("list training ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan training id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Save upserts a training and revives a soft-deleted row with the same id.
func (s *SQLStore) Save(ctx context.Context, t domain.Training) error {
	_, err := s.db.ExecContext(ctx, insertSQL+`
		ON CONFLICT (training_id) DO UPDATE SET
			datum = excluded.datum,
			start = excluded.start,
			ende = excluded.ende,
			gruppe = excluded.gruppe,
			ort = excluded.ort,
			status = excluded.status,
			benoetigt_trainer = excluded.benoetigt_trainer,
			ausfall_grund = excluded.ausfall_grund,
			bemerkung = excluded.bemerkung,
			updated_at = excluded.updated_at,
			deleted_at = NULL`, insertArgs(t)...)
	if err != nil {
		return fmt.Errorf("save training %s: %w", t.ID, err)
	}
	return nil
}

// Insert creates a new training row.
func (s *SQLStore) Insert(ctx context.Context, t domain.Training) (bool, error) {
	res, err := s.db.ExecContext(ctx, insertSQL+` ON CONFLICT (training_id) DO NOTHING`, insertArgs(t)...)
	if err != nil {
		return false, fmt.Errorf("insert training %s: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert training %s: %w", t.ID, err)
	}
	return n > 0, nil
}

// CreateSeries inserts a generated series atomically.
// POST: on error no training of the series is stored
func (s *SQLStore) CreateSeries(ctx context.Context, ts []domain.Training) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		for _, t := range ts {
			if _, err := q.ExecContext(ctx, insertSQL, insertArgs(t)...); err != nil {
				return fmt.Errorf("insert training %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// SetStatus updates status fields of a live training.
func (s *SQLStore) SetStatus(ctx context.Context, id string, status domain.Status, reason string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trainings SET status = ?, ausfall_grund = ?, updated_at = ? WHERE training_id = ? AND deleted_at IS NULL`,
		string(status), reason, storage.FormatTime(at), id)
	if err != nil {
		return fmt.Errorf("set training status %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete hides a training from reads.
func (s *SQLStore) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stamp := storage.FormatTime(at)
	res, err := s.db.ExecContext(ctx,
		`UPDATE trainings SET deleted_at = ?, updated_at = ? WHERE training_id = ? AND deleted_at IS NULL`,
		stamp, stamp, id)
	if err != nil {
		return fmt.Errorf("delete training %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertArgs(t domain.Training) []any {
	return []any{
		t.ID, storage.FormatDate(t.Date), t.Start, t.End, t.Group, t.Location,
		string(t.Status), t.Required, t.CancelReason, t.Notes,
		storage.FormatTime(t.CreatedAt), storage.FormatTime(t.UpdatedAt),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Training, error) {
	var t domain.Training
	var status string
	var date, created, updated, deleted sql.NullString
	if err := row.Scan(&t.ID, &date, &t.Start, &t.End, &t.Group, &t.Location, &status,
		&t.Required, &t.CancelReason, &t.Notes, &created, &updated, &deleted); err != nil {
		return domain.Training{}, err
	}
	t.Date = storage.ParseDate(date)
	t.Status = domain.Status(status)
	t.CreatedAt = storage.ParseStoredTime(created)
	t.UpdatedAt = storage.ParseStoredTime(updated)
	t.DeletedAt = storage.ParseStoredTime(deleted)
	return t, nil
}
