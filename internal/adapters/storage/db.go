package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"trainerweb/internal/domain/rolerate"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	apply   func(ctx context.Context, tx *sql.Tx, driver string) error
}

var migrations = []migration{
	{version: 1, apply: migrateBaseline},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for an empty database.
// PRE: db is a valid connection
// POST: schema_version exists afterwards
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var v int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return v, nil
}

// MigrateDB applies every pending migration. Each step runs in one transaction
// together with its version bump, so a failed step leaves no partial schema.
// PRE: db is a valid connection; driver is "sqlite" or "postgres"
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, driver string) error {
	ctx := context.Background()
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.version, err)
		}
		if err := m.apply(ctx, tx, driver); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, rebindFor(driver, `INSERT INTO schema_version (version) VALUES (?)`), m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
	}
	return nil
}

func rebindFor(driver, query string) string {
	return sqlx.Rebind(sqlx.BindType(driver), query)
}

// baselineSchema is dialect-neutral: TEXT timestamps, INTEGER booleans,
// DOUBLE PRECISION amounts (REAL affinity in SQLite).
var baselineSchema = []string{
	`CREATE TABLE IF NOT EXISTS trainer (
		trainer_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		aktiv INTEGER NOT NULL DEFAULT 1,
		is_admin INTEGER NOT NULL DEFAULT 0,
		rolle_standard TEXT NOT NULL DEFAULT 'Trainer',
		stundensatz_eur DOUBLE PRECISION NOT NULL DEFAULT 0,
		pin TEXT NOT NULL DEFAULT '',
		notizen TEXT NOT NULL DEFAULT '',
		last_login TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		trainer_id TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		is_admin INTEGER NOT NULL DEFAULT 0,
		rolle_standard TEXT NOT NULL DEFAULT '',
		stundensatz DOUBLE PRECISION NOT NULL DEFAULT 0,
		notizen TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		expires_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_trainer ON sessions (trainer_id)`,
	`CREATE TABLE IF NOT EXISTS rollen_saetze (
		rolle TEXT PRIMARY KEY,
		stundensatz_eur DOUBLE PRECISION NOT NULL DEFAULT 0,
		abrechenbar INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS trainings (
		training_id TEXT PRIMARY KEY,
		datum TEXT NOT NULL,
		start TEXT NOT NULL,
		ende TEXT NOT NULL,
		gruppe TEXT NOT NULL,
		ort TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'geplant',
		benoetigt_trainer INTEGER NOT NULL DEFAULT 0,
		ausfall_grund TEXT NOT NULL DEFAULT '',
		bemerkung TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		deleted_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trainings_datum ON trainings (datum)`,
	`CREATE TABLE IF NOT EXISTS einteilungen (
		einteilung_id TEXT PRIMARY KEY,
		training_id TEXT NOT NULL REFERENCES trainings (training_id),
		trainer_id TEXT NOT NULL,
		rolle TEXT NOT NULL DEFAULT '',
		eingetragen_am TEXT NOT NULL,
		ausgetragen_am TEXT,
		attendance INTEGER NOT NULL DEFAULT 0,
		checkin_am TEXT,
		kommentar TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_einteilungen_active ON einteilungen (training_id, trainer_id) WHERE ausgetragen_am IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_einteilungen_trainer ON einteilungen (trainer_id)`,
	`CREATE TABLE IF NOT EXISTS abmeldungen (
		abmeldung_id TEXT PRIMARY KEY,
		training_id TEXT NOT NULL,
		trainer_id TEXT NOT NULL,
		grund TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		deleted_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_abmeldungen_trainer ON abmeldungen (trainer_id)`,
	`CREATE TABLE IF NOT EXISTS trainingsplan (
		plan_id TEXT PRIMARY KEY,
		training_id TEXT NOT NULL UNIQUE,
		titel TEXT NOT NULL DEFAULT '',
		inhalt TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		updated_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS turniere (
		turnier_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		datum_von TEXT NOT NULL,
		datum_bis TEXT NOT NULL,
		ort TEXT NOT NULL DEFAULT '',
		pauschale_tag_eur DOUBLE PRECISION NOT NULL DEFAULT 0,
		km_satz_eur DOUBLE PRECISION NOT NULL DEFAULT 0,
		bemerkung TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS turnier_einsaetze (
		turnier_einsatz_id TEXT PRIMARY KEY,
		turnier_id TEXT NOT NULL REFERENCES turniere (turnier_id) ON DELETE CASCADE,
		trainer_id TEXT NOT NULL,
		datum TEXT,
		rolle TEXT NOT NULL DEFAULT '',
		anwesend TEXT NOT NULL DEFAULT 'EINGETRAGEN',
		kommentar TEXT NOT NULL DEFAULT '',
		pauschale_tag_eur DOUBLE PRECISION,
		freigegeben INTEGER NOT NULL DEFAULT 0,
		UNIQUE (turnier_id, trainer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS fahrten (
		fahrt_id TEXT PRIMARY KEY,
		turnier_id TEXT NOT NULL REFERENCES turniere (turnier_id) ON DELETE CASCADE,
		fahrer_trainer_id TEXT NOT NULL,
		datum TEXT,
		km_gesamt DOUBLE PRECISION NOT NULL DEFAULT 0,
		km_satz_eur DOUBLE PRECISION,
		freigegeben INTEGER NOT NULL DEFAULT 0,
		kommentar TEXT NOT NULL DEFAULT '',
		UNIQUE (turnier_id, fahrer_trainer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS abrechnung_status (
		monat TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'offen',
		updated_at TEXT NOT NULL,
		updated_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		actor_role TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log (timestamp)`,
}

// migrateBaseline creates the full schema and seeds the default role rates.
func migrateBaseline(ctx context.Context, tx *sql.Tx, driver string) error {
	for _, stmt := range baselineSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %s: %w", firstLine(stmt), err)
		}
	}
	seed := rebindFor(driver, `INSERT INTO rollen_saetze (rolle, stundensatz_eur, abrechenbar) VALUES (?, ?, ?) ON CONFLICT (rolle) DO NOTHING`)
	for _, r := range rolerate.Defaults {
		if _, err := tx.ExecContext(ctx, seed, r.Role, r.Rate, BoolInt(r.Billable)); err != nil {
			return fmt.Errorf("seed role %s: %w", r.Role, err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
