package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/assignment"
	"trainerweb/internal/domain/unavailability"
)

const selectColumns = `einteilung_id, training_id, trainer_id, rolle, eingetragen_am, ausgetragen_am, attendance, checkin_am, kommentar`

// SQLStore implements Store over the einteilungen table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates an assignment store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID returns one assignment.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM einteilungen WHERE einteilung_id = ?`, id)
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("get assignment %s: %w", id, err)
	}
	return a, nil
}

// List returns all assignments.
func (s *SQLStore) List(ctx context.Context) ([]domain.Assignment, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM einteilungen ORDER BY eingetragen_am, einteilung_id`)
}

// ListByTraining returns the rows for a training.
func (s *SQLStore) ListByTraining(ctx context.Context, trainingID string) ([]domain.Assignment, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM einteilungen WHERE training_id = ? ORDER BY eingetragen_am, einteilung_id`, trainingID)
}

// ListByTrainer returns the rows for a trainer.
func (s *SQLStore) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM einteilungen WHERE trainer_id = ? ORDER BY eingetragen_am, einteilung_id`, trainerID)
}

func (s *SQLStore) list(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountActiveByTraining groups active rows by training.
func (s *SQLStore) CountActiveByTraining(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT training_id, COUNT(*) FROM einteilungen WHERE ausgetragen_am IS NULL GROUP BY training_id`)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// CountActiveForTraining counts active rows of one training.
func (s *SQLStore) CountActiveForTraining(ctx context.Context, trainingID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM einteilungen WHERE training_id = ? AND ausgetragen_am IS NULL`, trainingID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count assignments %s: %w", trainingID, err)
	}
	return n, nil
}

// HasActive checks for an active row.
func (s *SQLStore) HasActive(ctx context.Context, trainingID, trainerID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM einteilungen WHERE training_id = ? AND trainer_id = ? AND ausgetragen_am IS NULL`,
		trainingID, trainerID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return n > 0, nil
}

// IDsForYear returns generated ids of the year.
func (s *SQLStore) IDsForYear(ctx context.Context, year int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT einteilung_id FROM einteilungen WHERE einteilung_id LIKE ?`, fmt.Sprintf("%s-%d-%%", domain.IDPrefix, year))
	if err != nil {
		return nil, fmt.Errorf("list assignment ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Insert adds an active row. Both the primary key and the active-row
// unique index resolve to DO NOTHING.
func (s *SQLStore) Insert(ctx context.Context, a domain.Assignment) (bool, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO einteilungen (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		a.ID, a.TrainingID, a.TrainerID, a.Role, storage.FormatTime(a.EnrolledAt),
		storage.BoolInt(a.Attendance), storage.NullTime(a.CheckinAt), a.Comment)
	if err != nil {
		return false, fmt.Errorf("insert assignment %s: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert assignment %s: %w", a.ID, err)
	}
	return n > 0, nil
}

// Update writes the editable columns of an active row.
func (s *SQLStore) Update(ctx context.Context, a domain.Assignment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE einteilungen SET rolle = ?, attendance = ?, checkin_am = ?, kommentar = ?
		WHERE einteilung_id = ? AND ausgetragen_am IS NULL`,
		a.Role, storage.BoolInt(a.Attendance), storage.NullTime(a.CheckinAt), a.Comment, a.ID)
	if err != nil {
		return fmt.Errorf("update assignment %s: %w", a.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrWithdrawnLocked
	}
	return nil
}

// CheckIn sets attendance and the check-in time.
func (s *SQLStore) CheckIn(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE einteilungen SET attendance = 1, checkin_am = ? WHERE einteilung_id = ?`,
		storage.FormatTime(at), id)
	if err != nil {
		return fmt.Errorf("check in %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Withdraw ends an assignment.
func (s *SQLStore) Withdraw(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE einteilungen SET ausgetragen_am = COALESCE(ausgetragen_am, ?) WHERE einteilung_id = ?`,
		storage.FormatTime(at), id)
	if err != nil {
		return fmt.Errorf("withdraw %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CancelWithNotice withdraws and writes the abmeldungen row together.
func (s *SQLStore) CancelWithNotice(ctx context.Context, trainingID, trainerID string, notice unavailability.Notice, at time.Time) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		res, err := q.ExecContext(ctx,
			`UPDATE einteilungen SET ausgetragen_am = ? WHERE training_id = ? AND trainer_id = ? AND ausgetragen_am IS NULL`,
			storage.FormatTime(at), trainingID, trainerID)
		if err != nil {
			return fmt.Errorf("withdraw for cancel: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrAlreadyCancelled
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO abmeldungen (abmeldung_id, training_id, trainer_id, grund, created_at) VALUES (?, ?, ?, ?, ?)`,
			notice.ID, notice.TrainingID, notice.TrainerID, notice.Reason, storage.FormatTime(notice.CreatedAt)); err != nil {
			return fmt.Errorf("insert notice: %w", err)
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Assignment, error) {
	var a domain.Assignment
	var attendance int
	var enrolled, withdrawn, checkin sql.NullString
	if err := row.Scan(&a.ID, &a.TrainingID, &a.TrainerID, &a.Role, &enrolled, &withdrawn, &attendance, &checkin, &a.Comment); err != nil {
		return domain.Assignment{}, err
	}
	a.EnrolledAt = storage.ParseStoredTime(enrolled)
	a.WithdrawnAt = storage.ParseStoredTime(withdrawn)
	a.Attendance = attendance != 0
	a.CheckinAt = storage.ParseStoredTime(checkin)
	return a, nil
}
