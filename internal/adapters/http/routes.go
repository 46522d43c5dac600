package web

import (
	"github.com/go-chi/chi/v5"

	"trainerweb/internal/adapters/http/middleware"
)

// registerAPI mounts the JSON API. Paths are relative to /api.
func (s *Server) registerAPI(r chi.Router) {
	r.Get("/trainers/active", s.handleActiveTrainers)
	r.Get("/trainers/active/names", s.handleActiveTrainerNames)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.loginLimiter, denyTooManyRequests))
		r.Post("/login", s.handleLogin)
		r.Post("/login/name", s.handleLoginName)
	})
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/bootstrap", s.handleBootstrap)
		r.Get("/me", s.handleMe)
		r.Put("/me", s.handleUpdateMe)
		r.Post("/me/pin", s.handleChangePin)

		r.Get("/trainings/{id}", s.handleTrainingDetail)
		r.Post("/trainings/{id}/enroll", s.handleEnroll)
		r.Post("/trainings/{id}/unavailable", s.handleTrainingUnavailable)
		r.Delete("/trainings/{id}/unavailable", s.handleTrainingAvailable)

		r.Post("/enrollments/{id}/withdraw", s.handleWithdraw)
		r.Post("/enrollments/{id}/checkin", s.handleCheckIn)
		r.Post("/enrollments/{id}/update", s.handleUpdateEnrollment)
		r.Post("/enrollments/{id}/cancel", s.handleCancelEnrollment)

		r.Get("/turniere", s.handleTournaments)
		r.Get("/turniere/{id}", s.handleTournamentDetail)
		r.Post("/turniere/{id}/enroll", s.handleTournamentEnroll)
		r.Post("/turniere/{id}/unavailable", s.handleTournamentUnavailable)
		r.Delete("/turniere/{id}/unavailable", s.handleTournamentAvailable)
		r.Post("/turniere/{id}/checkin", s.handleTournamentCheckIn)
		r.Post("/turnier-einsaetze/{id}/withdraw", s.handleTournamentWithdraw)

		r.Get("/billing/halfyear", s.handleBillingHalfYear)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Post("/trainings/{id}/status", s.handleTrainingStatus)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/dashboard", s.handleAdminDashboard)
				r.Get("/audit", s.handleAdminAudit)

				r.Get("/trainings", s.handleAdminTrainings)
				r.Post("/trainings", s.handleAdminSaveTraining)
				r.Post("/trainings/series", s.handleAdminTrainingSeries)
				r.Delete("/trainings/plan/{id}", s.handleAdminDeletePlan)
				r.Delete("/trainings/{id}", s.handleAdminDeleteTraining)
				r.Post("/trainings/{id}/assign", s.handleAdminAssign)
				r.Post("/trainings/{id}/plan", s.handleAdminSavePlan)

				r.Get("/turniere", s.handleTournaments)
				r.Post("/turniere", s.handleAdminSaveTournament)
				r.Delete("/turniere/{id}", s.handleAdminDeleteTournament)

				r.Get("/roles", s.handleAdminRoles)
				r.Get("/trainers", s.handleAdminTrainers)
				r.Post("/trainers", s.handleAdminSaveTrainer)
				r.Post("/trainers/import", s.handleAdminImportTrainers)
				r.Post("/trainers/migrate-pins", s.handleAdminMigratePins)
				r.Post("/trainers/{id}/reset-pin", s.handleAdminResetPin)

				r.Get("/billing/overview", s.handleBillingOverview)
				r.Get("/billing/export", s.handleBillingExport)
				r.Get("/billing/months", s.handleMonthStatuses)
				r.Post("/billing/months/{month}", s.handleSetMonthStatus)
			})
		})
	})
}
