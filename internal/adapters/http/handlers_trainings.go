package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
)

// handleTrainingDetail handles GET /api/trainings/{id}
func (s *Server) handleTrainingDetail(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetTrainingDetail(r.Context(), projections.GetTrainingDetailQuery{
		TrainingID: chi.URLParam(r, "id"),
		TrainerID:  currentSession(r).TrainerID,
	}, s.trainingDetailDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"training":    res.Training,
		"signups":     res.Signups,
		"abmeldungen": res.Absences,
		"plan":        res.Plan,
		"mine":        res.Mine,
	})
}

// handleEnroll handles POST /api/trainings/{id}/enroll
// POST: Answers {ok, einteilung_id}; a second active signup is rejected
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	a, err := orchestrators.ExecuteEnroll(r.Context(), orchestrators.EnrollInput{
		Session:    currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
	}, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"einteilung_id": a.ID})
}

// handleTrainingStatus handles POST /api/trainings/{id}/status (admin)
func (s *Server) handleTrainingStatus(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	reason := req.str("reason")
	if reason == "" {
		reason = req.str("ausfall_grund")
	}
	err := orchestrators.ExecuteSetTrainingStatus(r.Context(), orchestrators.SetTrainingStatusInput{
		Actor:      currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
		Status:     req.str("status"),
		Reason:     reason,
	}, s.trainingAdminDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleTrainingUnavailable handles POST /api/trainings/{id}/unavailable
func (s *Server) handleTrainingUnavailable(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	err := orchestrators.ExecuteMarkTrainingUnavailable(r.Context(), orchestrators.TrainingUnavailabilityInput{
		Session:    currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
		Reason:     req.str("grund"),
	}, s.unavailabilityDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleTrainingAvailable handles DELETE /api/trainings/{id}/unavailable
func (s *Server) handleTrainingAvailable(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteClearTrainingUnavailable(r.Context(), orchestrators.TrainingUnavailabilityInput{
		Session:    currentSession(r),
		TrainingID: chi.URLParam(r, "id"),
	}, s.unavailabilityDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleWithdraw handles POST /api/enrollments/{id}/withdraw
// Withdrawing an already withdrawn row is a no-op.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteWithdraw(r.Context(), orchestrators.AssignmentActionInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
	}, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleCheckIn handles POST /api/enrollments/{id}/checkin
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteCheckIn(r.Context(), orchestrators.AssignmentActionInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
	}, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleUpdateEnrollment handles POST /api/enrollments/{id}/update
// attendance and kommentar change only when present; rolle is honored for admins.
func (s *Server) handleUpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	body := fields(req.body)
	input := orchestrators.UpdateAssignmentInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
		Role:         body.str("rolle"),
	}
	if body.has("attendance") {
		v := body.truthy("attendance", false)
		input.Attendance = &v
	}
	if body.has("kommentar") {
		v := body.str("kommentar")
		input.Comment = &v
	}
	a, err := orchestrators.ExecuteUpdateAssignment(r.Context(), input, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"einteilung_id": a.ID})
}

// handleCancelEnrollment handles POST /api/enrollments/{id}/cancel
// The signup is withdrawn and an Abmeldung with the reason is recorded.
func (s *Server) handleCancelEnrollment(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	reason := req.str("grund")
	if reason == "" {
		reason = req.str("reason")
	}
	err := orchestrators.ExecuteCancelAssignment(r.Context(), orchestrators.CancelAssignmentInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
		Reason:       reason,
	}, s.enrollmentDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}
