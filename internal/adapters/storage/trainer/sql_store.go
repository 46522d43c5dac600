package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/trainer"
)

const selectColumns = `trainer_id, name, email, aktiv, is_admin, rolle_standard, stundensatz_eur, pin, notizen, last_login`

const upsertSQL = `INSERT INTO trainer (trainer_id, name, email, aktiv, is_admin, rolle_standard, stundensatz_eur, pin, notizen, last_login)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (trainer_id) DO UPDATE SET
		name = excluded.name,
		email = excluded.email,
		aktiv = excluded.aktiv,
		is_admin = excluded.is_admin,
		rolle_standard = excluded.rolle_standard,
		stundensatz_eur = excluded.stundensatz_eur,
		pin = excluded.pin,
		notizen = excluded.notizen`

// SQLStore implements Store over the trainer table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a trainer store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID returns one trainer.
// PRE: id is non-empty
// POST: Returns domain.ErrNotFound when absent
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM trainer WHERE trainer_id = ?`, id)
	t, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trainer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Trainer{}, fmt.Errorf("get trainer %s: %w", id, err)
	}
	return t, nil
}

// List returns all trainers.
func (s *SQLStore) List(ctx context.Context) ([]domain.Trainer, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM trainer ORDER BY name, trainer_id`)
}

// ListActive returns active trainers.
func (s *SQLStore) ListActive(ctx context.Context) ([]domain.Trainer, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM trainer WHERE aktiv = 1 ORDER BY name, trainer_id`)
}

func (s *SQLStore) list(ctx context.Context, query string) ([]domain.Trainer, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var out []domain.Trainer
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save upserts a trainer. last_login is only written on insert.
func (s *SQLStore) Save(ctx context.Context, t domain.Trainer) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, upsertArgs(t)...); err != nil {
		return fmt.Errorf("save trainer %s: %w", t.ID, err)
	}
	return nil
}

// SaveBatch upserts trainers atomically.
// POST: either all rows are written or none
func (s *SQLStore) SaveBatch(ctx context.Context, ts []domain.Trainer) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		for _, t := range ts {
			if _, err := q.ExecContext(ctx, upsertSQL, upsertArgs(t)...); err != nil {
				return fmt.Errorf("save trainer %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// UpdatePin replaces one pin.
func (s *SQLStore) UpdatePin(ctx context.Context, id, pin string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE trainer SET pin = ? WHERE trainer_id = ?`, pin, id)
	if err != nil {
		return fmt.Errorf("update pin %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePins replaces pins atomically.
func (s *SQLStore) UpdatePins(ctx context.Context, pins map[string]string) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		for id, pin := range pins {
			if _, err := q.ExecContext(ctx, `UPDATE trainer SET pin = ? WHERE trainer_id = ?`, pin, id); err != nil {
				return fmt.Errorf("update pin %s: %w", id, err)
			}
		}
		return nil
	})
}

// UpdateLastLogin stores the login date.
func (s *SQLStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE trainer SET last_login = ? WHERE trainer_id = ?`, storage.FormatDate(at), id); err != nil {
		return fmt.Errorf("update last_login %s: %w", id, err)
	}
	return nil
}

// UpdateProfile writes the provided profile fields.
// PRE: at least one of email, notes is non-nil for the call to have an effect
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLStore) UpdateProfile(ctx context.Context, id string, email, notes *string) error {
	var sets []string
	var args []any
	if email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *email)
	}
	if notes != nil {
		sets = append(sets, "notizen = ?")
		args = append(args, *notes)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE trainer SET `+strings.Join(sets, ", ")+` WHERE trainer_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func upsertArgs(t domain.Trainer) []any {
	return []any{
		t.ID, t.Name, t.Email, storage.BoolInt(t.Active), storage.BoolInt(t.IsAdmin),
		t.Role(), t.DefaultRate, t.Pin, t.Notes, storage.NullDate(t.LastLogin),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Trainer, error) {
	var t domain.Trainer
	var active, admin int
	var lastLogin sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Email, &active, &admin, &t.DefaultRole, &t.DefaultRate, &t.Pin, &t.Notes, &lastLogin); err != nil {
		return domain.Trainer{}, err
	}
	t.Active = active != 0
	t.IsAdmin = admin != 0
	t.LastLogin = storage.ParseDate(lastLogin)
	return t, nil
}
