package trainingplan

import (
	"context"

	domain "trainerweb/internal/domain/trainingplan"
)

// Store persists one optional plan per training.
type Store interface {
	// GetByTraining returns the plan or domain.ErrNotFound.
	GetByTraining(ctx context.Context, trainingID string) (domain.Plan, error)
	// Upsert writes the plan for p.TrainingID and returns the stored plan id.
	// POST: an existing plan keeps its id and created fields
	Upsert(ctx context.Context, p domain.Plan) (string, error)
	// Delete removes a plan by its id.
	// POST: Returns domain.ErrNotFound when no plan existed
	Delete(ctx context.Context, planID string) error
}

var _ Store = (*SQLStore)(nil)
