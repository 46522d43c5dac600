package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/session"
)

const selectColumns = `token, trainer_id, email, name, is_admin, rolle_standard, stundensatz, notizen, created_at, updated_at, expires_at`

// SQLStore implements Store over the sessions table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a session store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Get loads a session by token.
func (s *SQLStore) Get(ctx context.Context, token string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sessions WHERE token = ?`, token)
	sess, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrExpired
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Save upserts the session row.
// PRE: s.Token and s.TrainerID are non-empty; s.CreatedAt is set
func (s *SQLStore) Save(ctx context.Context, sess domain.Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET
			trainer_id = excluded.trainer_id,
			email = excluded.email,
			name = excluded.name,
			is_admin = excluded.is_admin,
			rolle_standard = excluded.rolle_standard,
			stundensatz = excluded.stundensatz,
			notizen = excluded.notizen,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`,
		sess.Token, sess.TrainerID, sess.Email, sess.Name, storage.BoolInt(sess.IsAdmin),
		sess.Role, sess.Rate, sess.Notes,
		storage.FormatTime(sess.CreatedAt), storage.NullTime(sess.UpdatedAt), storage.NullTime(sess.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session row.
func (s *SQLStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired scans all sessions and drops the expired ones.
// Expiry is decided by domain.Session.Expired so legacy rows without
// expires_at age out by their last activity.
func (s *SQLStore) DeleteExpired(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	var expired []string
	for rows.Next() {
		sess, err := scan(rows)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan session: %w", err)
		}
		if sess.Expired(now, ttl) {
			expired = append(expired, sess.Token)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	err = s.db.WithTx(ctx, func(q storage.Querier) error {
		for _, token := range expired {
			if _, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return len(expired), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Session, error) {
	var sess domain.Session
	var admin int
	var created, updated, expires sql.NullString
	if err := row.Scan(&sess.Token, &sess.TrainerID, &sess.Email, &sess.Name, &admin,
		&sess.Role, &sess.Rate, &sess.Notes, &created, &updated, &expires); err != nil {
		return domain.Session{}, err
	}
	sess.IsAdmin = admin != 0
	sess.CreatedAt = storage.ParseStoredTime(created)
	sess.UpdatedAt = storage.ParseStoredTime(updated)
	sess.ExpiresAt = storage.ParseStoredTime(expires)
	return sess, nil
}
