package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Querier is the statement surface shared by the pool and a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is the database interface used by all stores.
// Queries are written with ? placeholders; the implementation rebinds them per driver.
type SQLDB interface {
	Querier
	// WithTx runs fn in a transaction. fn's error rolls back; nil commits.
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// QueryObserver receives query timings, e.g. a metrics collector.
type QueryObserver interface {
	ObserveQuery(op string, d time.Duration)
}

// DefaultSlowQuery is the default threshold for slow query warnings.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB to rebind placeholders, log slow queries and report timings.
type TimedDB struct {
	db        *sql.DB
	bindType  int
	observer  QueryObserver
	threshold time.Duration
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection; driver is the name passed to sql.Open
// POST: Returns a TimedDB using DefaultSlowQuery; observer may be nil
func NewTimedDB(db *sql.DB, driver string, observer QueryObserver) *TimedDB {
	return &TimedDB{
		db:        db,
		bindType:  sqlx.BindType(driver),
		observer:  observer,
		threshold: DefaultSlowQuery,
	}
}

// WithSlowThreshold overrides the slow query threshold. Non-positive values are ignored.
func (t *TimedDB) WithSlowThreshold(d time.Duration) *TimedDB {
	if d > 0 {
		t.threshold = d
	}
	return t
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// observe logs and reports a query timing.
func (t *TimedDB) observe(op string, start time.Time) {
	d := time.Since(start)
	durationMs := float64(d.Microseconds()) / 1000.0

	if d >= t.threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}
	if t.observer != nil {
		t.observer.ObserveQuery(op, d)
	}
}

func (t *TimedDB) rebind(query string) string {
	return sqlx.Rebind(t.bindType, query)
}

// ExecContext wraps sql.DB.ExecContext with rebinding and timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing reported even on error
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer t.observe("exec", start)
	return t.db.ExecContext(ctx, t.rebind(query), args...)
}

// QueryContext wraps sql.DB.QueryContext with rebinding and timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer t.observe("query", start)
	return t.db.QueryContext(ctx, t.rebind(query), args...)
}

// QueryRowContext wraps sql.DB.QueryRowContext with rebinding and timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer t.observe("query_row", start)
	return t.db.QueryRowContext(ctx, t.rebind(query), args...)
}

// WithTx runs fn inside a transaction.
// PRE: fn must only use the Querier it is given
// POST: committed when fn returns nil, rolled back otherwise
func (t *TimedDB) WithTx(ctx context.Context, fn func(q Querier) error) error {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer t.observe("tx", start)

	if err := fn(&timedTx{tx: tx, parent: t}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("tx_rollback_failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the database connection.
func (t *TimedDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// timedTx applies the same rebinding and timing to statements inside a transaction.
type timedTx struct {
	tx     *sql.Tx
	parent *TimedDB
}

func (x *timedTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer x.parent.observe("tx_exec", start)
	return x.tx.ExecContext(ctx, x.parent.rebind(query), args...)
}

func (x *timedTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer x.parent.observe("tx_query", start)
	return x.tx.QueryContext(ctx, x.parent.rebind(query), args...)
}

func (x *timedTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer x.parent.observe("tx_query_row", start)
	return x.tx.QueryRowContext(ctx, x.parent.rebind(query), args...)
}
