package web

import (
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
	"trainerweb/internal/domain/session"
)

// The builders below bind orchestrator and projection dependencies to the
// server's stores and clock. Both adapters (API and UI) share them.

func (s *Server) sessionDeps() orchestrators.SessionDeps {
	return orchestrators.SessionDeps{SessionStore: s.stores.Sessions, Now: s.clock, TTL: s.ttl}
}

func (s *Server) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		TrainerStore: s.stores.Trainers,
		RoleRates:    s.stores.RoleRates,
		SessionStore: s.stores.Sessions,
		Metrics:      s.collector,
		NewToken:     session.NewToken,
		Now:          s.clock,
		TTL:          s.ttl,
	}
}

func (s *Server) enrollmentDeps() orchestrators.EnrollmentDeps {
	return orchestrators.EnrollmentDeps{
		Trainings:   s.stores.Trainings,
		Trainers:    s.stores.Trainers,
		Assignments: s.stores.Assignments,
		Months:      s.stores.Months,
		Now:         s.clock,
		GenerateID:  generateID,
	}
}

func (s *Server) unavailabilityDeps() orchestrators.TrainingUnavailabilityDeps {
	return orchestrators.TrainingUnavailabilityDeps{
		Trainings:  s.stores.Trainings,
		Notices:    s.stores.Notices,
		Months:     s.stores.Months,
		Now:        s.clock,
		GenerateID: generateID,
	}
}

func (s *Server) tournamentDeps() orchestrators.TournamentDeps {
	return orchestrators.TournamentDeps{
		Tournaments: s.stores.Tournaments,
		Audit:       s.stores.Audit,
		Now:         s.clock,
		GenerateID:  generateID,
	}
}

func (s *Server) trainingAdminDeps() orchestrators.TrainingAdminDeps {
	return orchestrators.TrainingAdminDeps{
		Trainings:   s.stores.Trainings,
		Assignments: s.stores.Assignments,
		Plans:       s.stores.Plans,
		Audit:       s.stores.Audit,
		Now:         s.clock,
		GenerateID:  generateID,
	}
}

func (s *Server) trainerAdminDeps() orchestrators.TrainerAdminDeps {
	return orchestrators.TrainerAdminDeps{
		TrainerStore: s.stores.Trainers,
		Audit:        s.stores.Audit,
		Email:        s.email,
		Now:          s.clock,
		GenerateID:   generateID,
	}
}

func (s *Server) importDeps() orchestrators.ImportTrainersDeps {
	return orchestrators.ImportTrainersDeps{
		TrainerStore: s.stores.Trainers,
		Audit:        s.stores.Audit,
		Now:          s.clock,
		GenerateID:   generateID,
	}
}

func (s *Server) monthDeps() orchestrators.SetMonthStatusDeps {
	return orchestrators.SetMonthStatusDeps{MonthStore: s.stores.Months, Audit: s.stores.Audit, Now: s.clock}
}

func (s *Server) profileDeps() orchestrators.UpdateProfileDeps {
	return orchestrators.UpdateProfileDeps{
		TrainerStore: s.stores.Trainers,
		SessionStore: s.stores.Sessions,
		Now:          s.clock,
		TTL:          s.ttl,
	}
}

func (s *Server) bootstrapDeps() projections.GetBootstrapDeps {
	return projections.GetBootstrapDeps{
		Trainings:   s.stores.Trainings,
		Assignments: s.stores.Assignments,
		Notices:     s.stores.Notices,
		Tournaments: s.stores.Tournaments,
	}
}

func (s *Server) trainingDetailDeps() projections.GetTrainingDetailDeps {
	return projections.GetTrainingDetailDeps{
		Trainings:   s.stores.Trainings,
		Assignments: s.stores.Assignments,
		Trainers:    s.stores.Trainers,
		Notices:     s.stores.Notices,
		Plans:       s.stores.Plans,
	}
}

func (s *Server) billingDeps() projections.GetBillingDeps {
	return projections.GetBillingDeps{
		Trainings:   s.stores.Trainings,
		Assignments: s.stores.Assignments,
		Trainers:    s.stores.Trainers,
		RoleRates:   s.stores.RoleRates,
		Tournaments: s.stores.Tournaments,
		Months:      s.stores.Months,
	}
}
