package rolerate

import (
	"context"
	"fmt"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/rolerate"
)

// Store reads the role rate table. Rows are seeded by the baseline migration.
type Store interface {
	// List returns all configured role rates ordered by role.
	List(ctx context.Context) ([]domain.Rate, error)
}

var _ Store = (*SQLStore)(nil)

// SQLStore implements Store over rollen_saetze.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a role rate store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// List returns the role rates.
func (s *SQLStore) List(ctx context.Context) ([]domain.Rate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rolle, stundensatz_eur, abrechenbar FROM rollen_saetze ORDER BY rolle`)
	if err != nil {
		return nil, fmt.Errorf("list role rates: %w", err)
	}
	defer rows.Close()

	var out []domain.Rate
	for rows.Next() {
		var r domain.Rate
		var billable int
		if err := rows.Scan(&r.Role, &r.Rate, &billable); err != nil {
			return nil, fmt.Errorf("scan role rate: %w", err)
		}
		r.Billable = billable != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
