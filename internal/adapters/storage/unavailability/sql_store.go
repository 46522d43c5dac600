package unavailability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/unavailability"
)

const selectColumns = `abmeldung_id, training_id, trainer_id, grund, created_at, deleted_at`

// SQLStore implements Store over the abmeldungen table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a notice store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Mark upserts the active notice.
// PRE: n.ID is a fresh id, used only when no active notice exists
func (s *SQLStore) Mark(ctx context.Context, n domain.Notice) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		res, err := q.ExecContext(ctx,
			`UPDATE abmeldungen SET grund = ? WHERE training_id = ? AND trainer_id = ? AND deleted_at IS NULL`,
			n.Reason, n.TrainingID, n.TrainerID)
		if err != nil {
			return fmt.Errorf("update notice: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			return nil
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO abmeldungen (abmeldung_id, training_id, trainer_id, grund, created_at) VALUES (?, ?, ?, ?, ?)`,
			n.ID, n.TrainingID, n.TrainerID, n.Reason, storage.FormatTime(n.CreatedAt)); err != nil {
			return fmt.Errorf("insert notice: %w", err)
		}
		return nil
	})
}

// Clear ends the active notices.
func (s *SQLStore) Clear(ctx context.Context, trainingID, trainerID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE abmeldungen SET deleted_at = ? WHERE training_id = ? AND trainer_id = ? AND deleted_at IS NULL`,
		storage.FormatTime(at), trainingID, trainerID)
	if err != nil {
		return fmt.Errorf("clear notice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByTrainer returns a trainer's notices.
func (s *SQLStore) ListActiveByTrainer(ctx context.Context, trainerID string) ([]domain.Notice, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM abmeldungen WHERE trainer_id = ? AND deleted_at IS NULL ORDER BY created_at, abmeldung_id`, trainerID)
}

// ListActiveByTraining returns a training's notices.
func (s *SQLStore) ListActiveByTraining(ctx context.Context, trainingID string) ([]domain.Notice, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM abmeldungen WHERE training_id = ? AND deleted_at IS NULL ORDER BY created_at, abmeldung_id`, trainingID)
}

func (s *SQLStore) list(ctx context.Context, query string, args ...any) ([]domain.Notice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var out []domain.Notice
	for rows.Next() {
		var n domain.Notice
		var created, deleted sql.NullString
		if err := rows.Scan(&n.ID, &n.TrainingID, &n.TrainerID, &n.Reason, &created, &deleted); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		n.CreatedAt = storage.ParseStoredTime(created)
		n.DeletedAt = storage.ParseStoredTime(deleted)
		out = append(out, n)
	}
	return out, rows.Err()
}
