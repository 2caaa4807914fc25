package repository

import (
	"context"
	"time"

	"MatchCast/internal/domain/models"
)

// TeamStore is the read-only view of the external data store the engine
// requires. Implementations return models.ErrNotFound for unknown ids and
// wrap timeouts/unavailability as models.TransientError.
type TeamStore interface {
	// GetTeam returns the current immutable snapshot for a team.
	GetTeam(ctx context.Context, id string) (*models.TeamSnapshot, error)

	// GetRecentOutcomes returns up to count outcome symbols, newest first.
	GetRecentOutcomes(ctx context.Context, teamID string, count int) ([]models.FormResult, error)

	// GetRecentMatchDates returns completion dates of the team's most recent
	// matches, newest first. Used for rest-day and congestion features.
	GetRecentMatchDates(ctx context.Context, teamID string, count int) ([]time.Time, error)

	// GetHeadToHead returns up to max completed meetings between the two
	// teams in either venue arrangement, newest first.
	GetHeadToHead(ctx context.Context, homeID, awayID string, max int) ([]models.Meeting, error)

	// GetLeagueAverages returns league-wide aggregates.
	GetLeagueAverages(ctx context.Context, league string) (models.LeagueAverages, error)
}

// PredictionSink persists finished predictions. Write-only and
// fire-and-forget from the engine's viewpoint: failures are logged by the
// caller, never surfaced.
type PredictionSink interface {
	Store(ctx context.Context, p *models.Prediction) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordPrediction(league string, outcome models.Outcome)
	RecordError(kind string)
	RecordConfidence(league string, confidence float64)
	RecordLatency(op string, seconds float64)
}
