package web

import (
	"errors"
	"net/http"

	"trainerweb/internal/adapters/spreadsheet"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/trainer"
)

// maxUploadBytes caps trainer import uploads.
const maxUploadBytes = 5 << 20

var (
	errNoUpload    = apperror.Validation("Bitte eine Datei hochladen.")
	errEmptyUpload = apperror.Validation("Die Datei enthält keine Zeilen.")
	errBadUpload   = apperror.Validation("Die Datei konnte nicht gelesen werden.")
)

// handleAdminImportTrainers handles POST /api/admin/trainers/import
// PRE: multipart form with a "file" part (XLSX or CSV); dryRun is optional
// POST: Answers {ok, result} with per-row errors; dryRun writes nothing
func (s *Server) handleAdminImportTrainers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, errNoUpload)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, errNoUpload)
		return
	}
	defer file.Close()

	rows, err := spreadsheet.ReadRows(file, header.Filename)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmpty) {
			writeError(w, r, errEmptyUpload)
			return
		}
		writeError(w, r, errBadUpload)
		return
	}

	res, err := orchestrators.ExecuteImportTrainers(r.Context(), orchestrators.ImportTrainersInput{
		Actor:  currentSession(r),
		Rows:   rows,
		DryRun: trainer.ParseTruthy(r.FormValue("dryRun")),
	}, s.importDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"result": res})
}
