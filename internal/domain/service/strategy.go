package service

import (
	"context"

	"MatchCast/internal/domain/models"
)

// Strategy is one independent heuristic scorer contributing to the ensemble.
// Implementations are pure with respect to the vector: same input, same
// estimate, no shared mutable state. A strategy never returns an error; an
// internal fault degrades to the neutral fallback estimate instead so that
// scoring can never abort a prediction.
type Strategy interface {
	Name() string
	Score(ctx context.Context, fv *models.FeatureVector) models.StrategyEstimate
}

// FactorSource supplies external-factor signals for a fixture. Sources are
// non-critical: callers fall back to models.NeutralFactors on any error.
type FactorSource interface {
	Factors(ctx context.Context, match models.MatchContext) (models.ExternalFactors, error)
}
