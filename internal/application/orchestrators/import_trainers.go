package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/audit"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

// ErrImportNameColumn is returned when the header lacks a name column.
var ErrImportNameColumn = apperror.Validation("Spalte 'name' fehlt.")

// importColumns are the recognised header cells, lowercased.
var importColumns = map[string]bool{
	"trainer_id": true, "name": true, "email": true, "aktiv": true, "is_admin": true,
	"rolle_standard": true, "stundensatz_eur": true, "pin": true, "notizen": true,
}

// TrainerStoreForImport defines the store interface needed by ImportTrainers.
type TrainerStoreForImport interface {
	List(ctx context.Context) ([]trainer.Trainer, error)
	SaveBatch(ctx context.Context, ts []trainer.Trainer) error
}

// ImportTrainersInput carries the parsed rows of an upload, header first.
// PRE: Rows come from spreadsheet.ReadRows
// INVARIANT: When DryRun is true no writes occur
type ImportTrainersInput struct {
	Actor  session.Session
	Rows   [][]string
	DryRun bool
}

// ImportTrainersResult holds counts and per-row errors.
type ImportTrainersResult struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
	DryRun  bool             `json:"dryRun"`
	Unknown []string         `json:"unknownColumns,omitempty"`
}

// ImportRowError describes why one row was skipped. Row is 1-based and counts the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportTrainersDeps holds dependencies for ImportTrainers.
type ImportTrainersDeps struct {
	TrainerStore TrainerStoreForImport
	Audit        AuditRecorder
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteImportTrainers creates or updates trainers from spreadsheet rows.
// Booleans are read with trainer.ParseTruthy; plaintext pins are hashed.
// PRE: Actor is an admin
// POST: Valid rows are written in one transaction; invalid rows are reported and skipped
// INVARIANT: an existing trainer keeps its pin when the row's pin cell is blank
func ExecuteImportTrainers(ctx context.Context, input ImportTrainersInput, deps ImportTrainersDeps) (ImportTrainersResult, error) {
	result := ImportTrainersResult{DryRun: input.DryRun, Errors: []ImportRowError{}}
	if len(input.Rows) == 0 {
		return result, ErrImportNameColumn
	}

	colIdx := make(map[string]int, len(input.Rows[0]))
	for i, h := range input.Rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if !importColumns[key] {
			result.Unknown = append(result.Unknown, h)
			continue
		}
		colIdx[key] = i
	}
	if _, ok := colIdx["name"]; !ok {
		return result, ErrImportNameColumn
	}
	getCol := func(row []string, col string) (string, bool) {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	existing, err := deps.TrainerStore.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list trainers: %w", err)
	}
	byID := make(map[string]trainer.Trainer, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	seen := make(map[string]int)
	var batch []trainer.Trainer
	for i, row := range input.Rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		result.Total++

		id, _ := getCol(row, "trainer_id")
		prev, exists := byID[id]
		if id == "" {
			id = deps.GenerateID()
		}
		if first, dup := seen[id]; dup {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: fmt.Sprintf("trainer_id %s doppelt (Zeile %d)", id, first)})
			continue
		}

		t := trainer.Trainer{ID: id, Active: true}
		if exists {
			t = prev
		}
		t.Name, _ = getCol(row, "name")
		if v, ok := getCol(row, "email"); ok {
			t.Email = v
		}
		if v, ok := getCol(row, "aktiv"); ok && v != "" {
			t.Active = trainer.ParseTruthy(v)
		}
		if v, ok := getCol(row, "is_admin"); ok {
			t.IsAdmin = trainer.ParseTruthy(v)
		}
		if v, ok := getCol(row, "rolle_standard"); ok && v != "" {
			t.DefaultRole = v
		}
		if v, ok := getCol(row, "stundensatz_eur"); ok && v != "" {
			rate, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
			if err != nil || rate < 0 {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: "stundensatz_eur ungültig: " + v})
				continue
			}
			t.DefaultRate = rate
		}
		if v, ok := getCol(row, "notizen"); ok {
			t.Notes = v
		}
		if v, ok := getCol(row, "pin"); ok && v != "" {
			if trainer.IsHashedPin(v) {
				t.Pin = v
			} else {
				t.Pin = trainer.HashPin(v)
			}
		}
		t.DefaultRole = t.Role()
		if err := t.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		seen[id] = rowNum
		batch = append(batch, t)
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	if !input.DryRun && len(batch) > 0 {
		if err := deps.TrainerStore.SaveBatch(ctx, batch); err != nil {
			return result, fmt.Errorf("save trainers: %w", err)
		}
		recordAudit(ctx, deps.Audit, audit.NewEvent(deps.Now(), input.Actor.TrainerID, actorRole(input.Actor.IsAdmin), audit.CategoryTrainer, audit.ActionImport).
			WithDescription(fmt.Sprintf("%d created, %d updated", result.Created, result.Updated)))
	}

	slog.Info("trainers_import",
		"admin", input.Actor.TrainerID,
		"dry_run", input.DryRun,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
