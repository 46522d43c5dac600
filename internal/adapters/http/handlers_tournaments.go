package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
)

// handleTournaments handles GET /api/turniere and GET /api/admin/turniere
func (s *Server) handleTournaments(w http.ResponseWriter, r *http.Request) {
	items, err := projections.QueryGetTournaments(r.Context(), s.stores.Tournaments)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items})
}

// handleTournamentDetail handles GET /api/turniere/{id}
func (s *Server) handleTournamentDetail(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetTournamentDetail(r.Context(), projections.GetTournamentDetailQuery{
		TournamentID: chi.URLParam(r, "id"),
		TrainerID:    currentSession(r).TrainerID,
	}, projections.GetTournamentDetailDeps{Tournaments: s.stores.Tournaments, Trainers: s.stores.Trainers})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"turnier":   res.Tournament,
		"einsaetze": res.Rows,
		"mine":      res.Mine,
		"my_fahrt":  res.MyTrip,
		"counts":    res.Counts,
	})
}

// handleTournamentEnroll handles POST /api/turniere/{id}/enroll
func (s *Server) handleTournamentEnroll(w http.ResponseWriter, r *http.Request) {
	id, err := orchestrators.ExecuteTournamentEnroll(r.Context(), orchestrators.TournamentActionInput{
		Session:      currentSession(r),
		TournamentID: chi.URLParam(r, "id"),
	}, s.tournamentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"turnier_einsatz_id": id})
}

// handleTournamentWithdraw handles POST /api/turnier-einsaetze/{id}/withdraw
func (s *Server) handleTournamentWithdraw(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteTournamentWithdraw(r.Context(), currentSession(r), chi.URLParam(r, "id"), s.tournamentDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleTournamentUnavailable handles POST /api/turniere/{id}/unavailable
// A trainer still registered must withdraw first.
func (s *Server) handleTournamentUnavailable(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	err := orchestrators.ExecuteTournamentMarkUnavailable(r.Context(), orchestrators.TournamentActionInput{
		Session:      currentSession(r),
		TournamentID: chi.URLParam(r, "id"),
		Reason:       req.str("grund"),
	}, s.tournamentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleTournamentAvailable handles DELETE /api/turniere/{id}/unavailable
func (s *Server) handleTournamentAvailable(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteTournamentClearUnavailable(r.Context(), orchestrators.TournamentActionInput{
		Session:      currentSession(r),
		TournamentID: chi.URLParam(r, "id"),
	}, s.tournamentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleTournamentCheckIn handles POST /api/turniere/{id}/checkin
// A positive kmGesamt records or updates the trainer's Fahrt.
func (s *Server) handleTournamentCheckIn(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	km, _ := floatOf(req.str("kmGesamt"))
	err := orchestrators.ExecuteTournamentCheckIn(r.Context(), orchestrators.TournamentActionInput{
		Session:      currentSession(r),
		TournamentID: chi.URLParam(r, "id"),
		KmTotal:      km,
	}, s.tournamentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}
