package trainingplan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/trainingplan"
)

// SQLStore implements Store over the trainingsplan table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a plan store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByTraining loads a plan.
func (s *SQLStore) GetByTraining(ctx context.Context, trainingID string) (domain.Plan, error) {
	var p domain.Plan
	var created, updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT plan_id, training_id, titel, inhalt, link, created_at, created_by, updated_at, updated_by
		FROM trainingsplan WHERE training_id = ?`, trainingID).
		Scan(&p.ID, &p.TrainingID, &p.Title, &p.Content, &p.Link, &created, &p.CreatedBy, &updated, &p.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("get plan %s: %w", trainingID, err)
	}
	p.CreatedAt = storage.ParseStoredTime(created)
	p.UpdatedAt = storage.ParseStoredTime(updated)
	return p, nil
}

// Upsert inserts or updates the plan keyed by training.
func (s *SQLStore) Upsert(ctx context.Context, p domain.Plan) (string, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trainingsplan (plan_id, training_id, titel, inhalt, link, created_at, created_by, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (training_id) DO UPDATE SET
			titel = excluded.titel,
			inhalt = excluded.inhalt,
			link = excluded.link,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		p.ID, p.TrainingID, p.Title, p.Content, p.Link,
		storage.FormatTime(p.CreatedAt), p.CreatedBy, storage.FormatTime(p.UpdatedAt), p.UpdatedBy)
	if err != nil {
		return "", fmt.Errorf("upsert plan %s: %w", p.TrainingID, err)
	}
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT plan_id FROM trainingsplan WHERE training_id = ?`, p.TrainingID).Scan(&id); err != nil {
		return "", fmt.Errorf("read plan id %s: %w", p.TrainingID, err)
	}
	return id, nil
}

// Delete removes a plan.
func (s *SQLStore) Delete(ctx context.Context, planID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trainingsplan WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", planID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
