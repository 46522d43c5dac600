package web

import (
	"net/http"

	"trainerweb/internal/adapters/http/middleware"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
)

// handleActiveTrainers handles GET /api/trainers/active
func (s *Server) handleActiveTrainers(w http.ResponseWriter, r *http.Request) {
	items, err := projections.QueryGetActiveTrainers(r.Context(), s.stores.Trainers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": items})
}

// handleActiveTrainerNames handles GET /api/trainers/active/names
func (s *Server) handleActiveTrainerNames(w http.ResponseWriter, r *http.Request) {
	names, err := projections.QueryGetActiveTrainerNames(r.Context(), s.stores.Trainers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"items": names, "names": names})
}

// handleLogin handles POST /api/login
// PRE: body carries identifier (trainer id or name) and pin
// POST: Answers {ok, token, user}, or the error with candidates when the name is ambiguous
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	identifier := req.str("identifier")
	if identifier == "" {
		identifier = req.str("trainer_id")
	}
	if identifier == "" {
		identifier = req.str("name")
	}
	s.login(w, r, orchestrators.LoginInput{Identifier: identifier, Pin: req.str("pin")})
}

// handleLoginName handles POST /api/login/name
// Only active trainers are matched and candidates carry their email.
func (s *Server) handleLoginName(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	s.login(w, r, orchestrators.LoginInput{Identifier: req.str("name"), Pin: req.str("pin"), NameOnly: true})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, input orchestrators.LoginInput) {
	res, err := orchestrators.ExecuteLogin(r.Context(), input, s.loginDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"token": res.Token, "user": projections.NewUserView(res.Session)})
}

// handleLogout handles POST /api/logout. Unknown tokens still answer ok.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteLogout(r.Context(), middleware.TokenFromRequest(r), s.sessionDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleMe handles GET /api/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	view, err := projections.QueryGetMe(r.Context(), currentSession(r).TrainerID, s.stores.Trainers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"trainer": view})
}

// handleUpdateMe handles PUT /api/me
// Only email and notizen are self-editable; absent keys stay unchanged.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	body := fields(req.body)
	input := orchestrators.UpdateProfileInput{Session: currentSession(r)}
	if body.has("email") {
		v := body.str("email")
		input.Email = &v
	}
	if body.has("notizen") {
		v := stringOf(body["notizen"])
		input.Notes = &v
	}
	sess, err := orchestrators.ExecuteUpdateProfile(r.Context(), input, s.profileDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"user": projections.NewUserView(sess)})
}

// handleChangePin handles POST /api/me/pin
func (s *Server) handleChangePin(w http.ResponseWriter, r *http.Request) {
	req := readRequest(r)
	err := orchestrators.ExecuteChangePin(r.Context(), orchestrators.ChangePinInput{
		TrainerID: currentSession(r).TrainerID,
		OldPin:    req.str("oldPin"),
		NewPin:    req.str("newPin"),
	}, orchestrators.ChangePinDeps{TrainerStore: s.stores.Trainers})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

// handleBootstrap handles GET /api/bootstrap
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetBootstrap(r.Context(), projections.GetBootstrapQuery{
		Session: currentSession(r),
		Now:     s.clock(),
	}, s.bootstrapDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"user":              res.User,
		"upcoming":          res.Upcoming,
		"allTrainings":      res.AllTrainings,
		"mineActive":        res.MineActive,
		"myUnavailable":     res.MyUnavailable,
		"turniere_upcoming": res.TournamentsNext,
		"turniere_past":     res.TournamentsPast,
		"my_turniere":       res.MyTournamentRows,
		"my_fahrten":        res.MyTrips,
	})
}
