package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
	"trainerweb/internal/domain/tournament"
	"trainerweb/internal/domain/trainer"
	"trainerweb/internal/domain/training"
)

// handleAdminDashboard handles GET /api/admin/dashboard
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetAdminDashboard(r.Context(), s.clock(), projections.GetAdminDashboardDeps{
		Trainings:   s.stores.Trainings,
		Counts:      s.stores.Assignments,
		Assignments: s.stores.Assignments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"upcomingCount":          res.UpcomingCount,
		"openSlotsCount":         res.OpenSlotsCount,
		"openCheckinsCount":      res.OpenCheckinsCount,
		"trainingsThisWeekCount": res.TrainingsThisWeekCount,
	})
}

// handleAdminTrainings handles GET /api/admin/trainings?month=YYYY-MM&status=
func (s *Server) handleAdminTrainings(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	items, err := projections.QueryGetAdminTrainings(r.Context(), projections.GetAdminTrainingsQuery{
		Month:  req.str("month"),
		Status: req.str("status"),
	}, projections.GetAdminTrainingsDeps{Trainings: s.stores.Trainings, Counts: s.stores.Assignments})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items})
}

// handleAdminSaveTraining handles POST /api/admin/trainings
// PRE: flat body or {payload: {...}} with datum, start, ende, gruppe
// POST: Answers {ok, training_id, updated_by}
func (s *Server) handleAdminSaveTraining(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	actor := currentSession(r)
	t, err := orchestrators.ExecuteSaveTraining(r.Context(), orchestrators.SaveTrainingInput{
		Actor: actor,
		Payload: orchestrators.TrainingPayload{
			ID:           p.str("training_id"),
			Date:         p.str("datum"),
			Start:        p.str("start"),
			End:          p.str("ende"),
			Group:        p.str("gruppe"),
			Location:     p.str("ort"),
			Status:       p.str("status"),
			Required:     p.whole("benoetigt_trainer"),
			CancelReason: p.str("ausfall_grund"),
			Notes:        p.str("notizen"),
		},
	}, s.trainingAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"training_id": t.ID, "updated_by": actor.TrainerID})
}

// handleAdminTrainingSeries handles POST /api/admin/trainings/series
func (s *Server) handleAdminTrainingSeries(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	series, err := orchestrators.ExecuteCreateSeries(r.Context(), orchestrators.SeriesInput{
		Actor:     currentSession(r),
		Weekday:   p.str("series_weekday"),
		StartDate: p.str("series_start_date"),
		Count:     p.whole("series_count"),
		Start:     p.str("series_start_time"),
		End:       p.str("series_end_time"),
		Group:     p.str("series_group"),
		Location:  p.str("series_location"),
		Required:  p.whole("series_needed"),
		Status:    p.str("series_status"),
	}, s.trainingAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids := make([]string, 0, len(series))
	for _, t := range series {
		ids = append(ids, t.ID)
	}
	writeOK(w, envelope{"created": len(ids), "training_ids": ids})
}

// handleAdminDeleteTraining handles DELETE /api/admin/trainings/{id}
func (s *Server) handleAdminDeleteTraining(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteTraining(r.Context(), orchestrators.DeleteTrainingInput{
		Actor:      currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
	}, s.trainingAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleAdminAssign handles POST /api/admin/trainings/{id}/assign
func (s *Server) handleAdminAssign(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	a, err := orchestrators.ExecuteAssign(r.Context(), orchestrators.AssignInput{
		Actor:      currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
		TrainerID:  p.str("trainer_id"),
		Role:       p.str("rolle"),
	}, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"einteilung_id": a.ID})
}

// handleAdminSavePlan handles POST /api/admin/trainings/{id}/plan
func (s *Server) handleAdminSavePlan(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	id, err := orchestrators.ExecuteSavePlan(r.Context(), orchestrators.SavePlanInput{
		Actor:      currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
		Title:      p.str("titel"),
		Content:    stringOf(p["inhalt"]),
		Link:       p.str("link"),
	}, s.trainingAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"plan_id": id})
}

// handleAdminDeletePlan handles DELETE /api/admin/trainings/plan/{id}
func (s *Server) handleAdminDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeletePlan(r.Context(), currentSession(r), chi.URLParam(r, "id"), s.trainingAdminDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleAdminSaveTournament handles POST /api/admin/turniere
// datum_bis defaults to datum_von for one-day tournaments.
func (s *Server) handleAdminSaveTournament(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	t := tournament.Tournament{
		ID:             p.str("turnier_id"),
		Name:           p.str("name"),
		Location:       p.str("ort"),
		DailyAllowance: p.number("pauschale_tag_eur"),
		KmRate:         p.number("km_satz_eur"),
		Remark:         p.str("bemerkung"),
	}
	if d, err := training.ParseDate(p.str("datum_von")); err == nil {
		t.DateFrom = d
	}
	t.DateTo = t.DateFrom
	if v := p.str("datum_bis"); v != "" {
		if d, err := training.ParseDate(v); err == nil {
			t.DateTo = d
		}
	}
	saved, err := orchestrators.ExecuteSaveTournament(r.Context(), orchestrators.SaveTournamentInput{
		Actor:      currentSession(r),
		Tournament: t,
	}, s.tournamentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"turnier_id": saved.ID})
}

// handleAdminDeleteTournament handles DELETE /api/admin/turniere/{id}
func (s *Server) handleAdminDeleteTournament(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteTournament(r.Context(), currentSession(r), chi.URLParam(r, "id"), s.tournamentDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleAdminRoles handles GET /api/admin/roles
func (s *Server) handleAdminRoles(w http.ResponseWriter, r *http.Request) {
	items, err := projections.QueryGetRoles(r.Context(), s.stores.RoleRates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items})
}

// handleAdminTrainers handles GET /api/admin/trainers
func (s *Server) handleAdminTrainers(w http.ResponseWriter, r *http.Request) {
	items, err := projections.QueryGetAdminTrainers(r.Context(), s.stores.Trainers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items})
}

// handleAdminSaveTrainer handles POST /api/admin/trainers
// aktiv defaults to true; a blank pin keeps the stored one.
func (s *Server) handleAdminSaveTrainer(w http.ResponseWriter, r *http.Request) {
	p := readRequest(r).payload()
	rate := p.number("stundensatz")
	if !p.has("stundensatz") {
		rate = p.number("stundensatz_eur")
	}
	t, err := orchestrators.ExecuteSaveTrainer(r.Context(), orchestrators.SaveTrainerInput{
		Actor: currentSession(r),
		Trainer: trainer.Trainer{
			ID:          p.str("trainer_id"),
			Name:        p.str("name"),
			Email:       p.str("email"),
			Active:      p.truthy("aktiv", true),
			IsAdmin:     p.truthy("is_admin", false),
			DefaultRole: p.str("rolle_standard"),
			DefaultRate: rate,
			Notes:       stringOf(p["notizen"]),
		},
		Pin: p.str("pin"),
	}, s.trainerAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"trainer_id": t.ID})
}

// handleAdminResetPin handles POST /api/admin/trainers/{id}/reset-pin
// The plaintext PIN is returned exactly once.
func (s *Server) handleAdminResetPin(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	res, err := orchestrators.ExecuteResetPin(r.Context(), orchestrators.ResetPinInput{
		Actor:     currentSession(r),
		TrainerID: chi.URLParam(r, "id"),
		NewPin:    req.str("newPin"),
	}, s.trainerAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"pin": res.Pin, "mailed": res.Mailed})
}

// handleAdminMigratePins handles POST /api/admin/trainers/migrate-pins
func (s *Server) handleAdminMigratePins(w http.ResponseWriter, r *http.Request) {
	n, err := orchestrators.ExecuteMigratePins(r.Context(), currentSession(r), s.trainerAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"migrated": n})
}
