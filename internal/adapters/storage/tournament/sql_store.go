package tournament

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trainerweb/internal/adapters/storage"
	domain "trainerweb/internal/domain/tournament"
)

const (
	tournamentColumns = `turnier_id, name, datum_von, datum_bis, ort, pauschale_tag_eur, km_satz_eur, bemerkung`
	assignmentColumns = `turnier_einsatz_id, turnier_id, trainer_id, datum, rolle, anwesend, kommentar, pauschale_tag_eur, freigegeben`
	tripColumns       = `fahrt_id, turnier_id, fahrer_trainer_id, datum, km_gesamt, km_satz_eur, freigegeben, kommentar`
)

// SQLStore implements Store over turniere, turnier_einsaetze and fahrten.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a tournament store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Get loads a tournament.
func (s *SQLStore) Get(ctx context.Context, id string) (domain.Tournament, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tournamentColumns+` FROM turniere WHERE turnier_id = ?`, id)
	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tournament{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Tournament{}, fmt.Errorf("get tournament %s: %w", id, err)
	}
	return t, nil
}

// List returns tournaments by start date.
func (s *SQLStore) List(ctx context.Context) ([]domain.Tournament, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tournamentColumns+` FROM turniere ORDER BY datum_von, turnier_id`)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	defer rows.Close()

	var out []domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tournament: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save upserts a tournament.
func (s *SQLStore) Save(ctx context.Context, t domain.Tournament) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO turniere (`+tournamentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (turnier_id) DO UPDATE SET
			name = excluded.name,
			datum_von = excluded.datum_von,
			datum_bis = excluded.datum_bis,
			ort = excluded.ort,
			pauschale_tag_eur = excluded.pauschale_tag_eur,
			km_satz_eur = excluded.km_satz_eur,
			bemerkung = excluded.bemerkung`,
		t.ID, t.Name, storage.FormatDate(t.DateFrom), storage.FormatDate(t.DateTo), t.Location,
		t.DailyAllowance, t.KmRate, t.Remark)
	if err != nil {
		return fmt.Errorf("save tournament %s: %w", t.ID, err)
	}
	return nil
}

// Delete removes a tournament and its child rows. Children are deleted
// explicitly so the result does not depend on foreign key enforcement.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.db.WithTx(ctx, func(q storage.Querier) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM turnier_einsaetze WHERE turnier_id = ?`, id); err != nil {
			return fmt.Errorf("delete tournament assignments: %w", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM fahrten WHERE turnier_id = ?`, id); err != nil {
			return fmt.Errorf("delete tournament trips: %w", err)
		}
		res, err := q.ExecContext(ctx, `DELETE FROM turniere WHERE turnier_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete tournament %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// GetAssignment loads one einsatz row.
func (s *SQLStore) GetAssignment(ctx context.Context, id string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM turnier_einsaetze WHERE turnier_einsatz_id = ?`, id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, domain.ErrAssignmentNotFound
	}
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("get tournament assignment %s: %w", id, err)
	}
	return a, nil
}

// FindAssignment looks up the row by its natural key.
func (s *SQLStore) FindAssignment(ctx context.Context, tournamentID, trainerID string) (domain.Assignment, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM turnier_einsaetze WHERE turnier_id = ? AND trainer_id = ?`, tournamentID, trainerID)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, false, nil
	}
	if err != nil {
		return domain.Assignment{}, false, fmt.Errorf("find tournament assignment: %w", err)
	}
	return a, true, nil
}

// ListAssignments returns the rows of a tournament.
func (s *SQLStore) ListAssignments(ctx context.Context, tournamentID string) ([]domain.Assignment, error) {
	return s.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM turnier_einsaetze WHERE turnier_id = ? ORDER BY turnier_einsatz_id`, tournamentID)
}

// ListAssignmentsByTrainer returns the rows of a trainer.
func (s *SQLStore) ListAssignmentsByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error) {
	return s.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM turnier_einsaetze WHERE trainer_id = ? ORDER BY turnier_einsatz_id`, trainerID)
}

// ListAllAssignments returns every row.
func (s *SQLStore) ListAllAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return s.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM turnier_einsaetze ORDER BY turnier_einsatz_id`)
}

func (s *SQLStore) listAssignments(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tournament assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tournament assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertAssignment writes the row for (tournament, trainer).
// POST: an existing row keeps its id, allowance override and approval flag
func (s *SQLStore) UpsertAssignment(ctx context.Context, a domain.Assignment) (string, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO turnier_einsaetze (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (turnier_id, trainer_id) DO UPDATE SET
			datum = excluded.datum,
			rolle = excluded.rolle,
			anwesend = excluded.anwesend,
			kommentar = excluded.kommentar`,
		a.ID, a.TournamentID, a.TrainerID, storage.NullDate(a.Date), a.Role, string(a.Status), a.Comment,
		storage.NullFloat(a.DailyAllowance), storage.BoolInt(a.Approved))
	if err != nil {
		return "", fmt.Errorf("upsert tournament assignment: %w", err)
	}
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT turnier_einsatz_id FROM turnier_einsaetze WHERE turnier_id = ? AND trainer_id = ?`,
		a.TournamentID, a.TrainerID).Scan(&id); err != nil {
		return "", fmt.Errorf("read tournament assignment id: %w", err)
	}
	return id, nil
}

// SetAssignmentStatus updates the status of a row.
func (s *SQLStore) SetAssignmentStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE turnier_einsaetze SET anwesend = ? WHERE turnier_einsatz_id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set tournament assignment status %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

// FindTrip looks up a trip by its natural key.
func (s *SQLStore) FindTrip(ctx context.Context, tournamentID, driverID string) (domain.Trip, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM fahrten WHERE turnier_id = ? AND fahrer_trainer_id = ?`, tournamentID, driverID)
	f, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trip{}, false, nil
	}
	if err != nil {
		return domain.Trip{}, false, fmt.Errorf("find trip: %w", err)
	}
	return f, true, nil
}

// UpsertTrip writes the driver's trip.
func (s *SQLStore) UpsertTrip(ctx context.Context, f domain.Trip) (string, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO fahrten (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (turnier_id, fahrer_trainer_id) DO UPDATE SET
			km_gesamt = excluded.km_gesamt,
			datum = excluded.datum`,
		f.ID, f.TournamentID, f.DriverID, storage.NullDate(f.Date), f.KmTotal,
		storage.NullFloat(f.KmRate), storage.BoolInt(f.Approved), f.Comment)
	if err != nil {
		return "", fmt.Errorf("upsert trip: %w", err)
	}
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT fahrt_id FROM fahrten WHERE turnier_id = ? AND fahrer_trainer_id = ?`,
		f.TournamentID, f.DriverID).Scan(&id); err != nil {
		return "", fmt.Errorf("read trip id: %w", err)
	}
	return id, nil
}

// ListTripsByTrainer returns a driver's trips.
func (s *SQLStore) ListTripsByTrainer(ctx context.Context, driverID string) ([]domain.Trip, error) {
	return s.listTrips(ctx, `SELECT `+tripColumns+` FROM fahrten WHERE fahrer_trainer_id = ? ORDER BY fahrt_id`, driverID)
}

// ListAllTrips returns every trip.
func (s *SQLStore) ListAllTrips(ctx context.Context) ([]domain.Trip, error) {
	return s.listTrips(ctx, `SELECT `+tripColumns+` FROM fahrten ORDER BY fahrt_id`)
}

func (s *SQLStore) listTrips(ctx context.Context, query string, args ...any) ([]domain.Trip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var out []domain.Trip
	for rows.Next() {
		f, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTournament(row scanner) (domain.Tournament, error) {
	var t domain.Tournament
	var from, to sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &from, &to, &t.Location, &t.DailyAllowance, &t.KmRate, &t.Remark); err != nil {
		return domain.Tournament{}, err
	}
	t.DateFrom = storage.ParseDate(from)
	t.DateTo = storage.ParseDate(to)
	return t, nil
}

func scanAssignment(row scanner) (domain.Assignment, error) {
	var a domain.Assignment
	var date, status sql.NullString
	var allowance sql.NullFloat64
	var approved int
	if err := row.Scan(&a.ID, &a.TournamentID, &a.TrainerID, &date, &a.Role, &status, &a.Comment, &allowance, &approved); err != nil {
		return domain.Assignment{}, err
	}
	a.Date = storage.ParseDate(date)
	st, err := domain.ParseStoredStatus(status.String)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("assignment %s: %w", a.ID, err)
	}
	a.Status = st
	a.DailyAllowance = storage.FloatPtr(allowance)
	a.Approved = approved != 0
	return a, nil
}

func scanTrip(row scanner) (domain.Trip, error) {
	var f domain.Trip
	var date sql.NullString
	var rate sql.NullFloat64
	var approved int
	if err := row.Scan(&f.ID, &f.TournamentID, &f.DriverID, &date, &f.KmTotal, &rate, &approved, &f.Comment); err != nil {
		return domain.Trip{}, err
	}
	f.Date = storage.ParseDate(date)
	f.KmRate = storage.FloatPtr(rate)
	f.Approved = approved != 0
	return f, nil
}
