package storage

import (
	"database/sql"
	"sort"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getTableSQL returns sorted CREATE statements from sqlite_master.
func getTableSQL(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT sql FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' AND sql IS NOT NULL ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var sqls []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("failed to scan sql: %v", err)
		}
		sqls = append(sqls, strings.Join(strings.Fields(s), " "))
	}
	sort.Strings(sqls)
	return sqls
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"abmeldungen",
	"abrechnung_status",
	"audit_log",
	"einteilungen",
	"fahrten",
	"rollen_saetze",
	"schema_version",
	"sessions",
	"trainer",
	"trainings",
	"trainingsplan",
	"turnier_einsaetze",
	"turniere",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	tables := getTableNames(t, db)
	if strings.Join(tables, ",") != strings.Join(expectedTables, ",") {
		t.Errorf("tables mismatch\ngot:  %v\nwant: %v", tables, expectedTables)
	}
}

// TestMigrateDB_SeedsRoleRates verifies the default rates are installed with the schema.
func TestMigrateDB_SeedsRoleRates(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	var rate float64
	var billable int
	if err := db.QueryRow(`SELECT stundensatz_eur, abrechenbar FROM rollen_saetze WHERE rolle = 'Helfer'`).Scan(&rate, &billable); err != nil {
		t.Fatalf("seed row missing: %v", err)
	}
	if rate != 0 || billable != 0 {
		t.Errorf("Helfer = %v/%d, want 0/0", rate, billable)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM rollen_saetze`).Scan(&n)
	if n != 3 {
		t.Errorf("role count = %d, want 3", n)
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no errors
// and neither the version nor the seed changes.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	version1, _ := SchemaVersion(db)
	golden := getTableSQL(t, db)

	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
	version2, _ := SchemaVersion(db)
	if version1 != version2 {
		t.Errorf("version changed after idempotent run: %d → %d", version1, version2)
	}
	if strings.Join(golden, "\n") != strings.Join(getTableSQL(t, db), "\n") {
		t.Error("schema changed after idempotent run")
	}
}

// TestMigrateDB_VersionProgression verifies that SchemaVersion reports 0 before
// migration and the latest version after.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}

	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	if v, _ = SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_ExistingDB verifies that an installation with a pre-existing
// trainer table keeps its rows.
func TestMigrateDB_ExistingDB(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE trainer (trainer_id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL DEFAULT '', aktiv INTEGER NOT NULL DEFAULT 1, is_admin INTEGER NOT NULL DEFAULT 0, rolle_standard TEXT NOT NULL DEFAULT 'Trainer', stundensatz_eur DOUBLE PRECISION NOT NULL DEFAULT 0, pin TEXT NOT NULL DEFAULT '', notizen TEXT NOT NULL DEFAULT '', last_login TEXT)`)
	if err != nil {
		t.Fatalf("failed to create pre-migration table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO trainer (trainer_id, name, pin) VALUES ('T1', 'Anna Berg', '1234')`); err != nil {
		t.Fatalf("failed to insert pre-migration data: %v", err)
	}

	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("MigrateDB on existing db failed: %v", err)
	}

	var pin string
	if err := db.QueryRow("SELECT pin FROM trainer WHERE trainer_id = 'T1'").Scan(&pin); err != nil {
		t.Fatalf("pre-migration data lost: %v", err)
	}
	if pin != "1234" {
		t.Errorf("pin = %q, want 1234", pin)
	}
}

// TestActiveAssignmentIndex verifies the partial unique index enforces one active row.
func TestActiveAssignmentIndex(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, DriverSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	db.Exec(`INSERT INTO trainings (training_id, datum, start, ende, gruppe, created_at, updated_at) VALUES ('TR-2025-001', '2025-03-04', '18:00', '19:30', 'U12', 'x', 'x')`)

	insert := `INSERT INTO einteilungen (einteilung_id, training_id, trainer_id, eingetragen_am, ausgetragen_am) VALUES (?, 'TR-2025-001', 'T1', 'x', ?)`
	if _, err := db.Exec(insert, "E1", nil); err != nil {
		t.Fatalf("first active insert: %v", err)
	}
	if _, err := db.Exec(insert, "E2", nil); err == nil {
		t.Fatal("second active row for same trainer/training must violate the index")
	}
	if _, err := db.Exec(insert, "E3", "2025-03-01T00:00:00.000000Z"); err != nil {
		t.Errorf("withdrawn rows must not conflict: %v", err)
	}
}
