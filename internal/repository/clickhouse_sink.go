package repository

import (
	"context"

	"MatchCast/internal/domain/models"
	chpkg "MatchCast/pkg/clickhouse"
)

// ClickHouseSink appends finished predictions to the predictions table for
// later calibration analysis.
type ClickHouseSink struct {
	client *chpkg.Client
}

func NewClickHouseSink(client *chpkg.Client) *ClickHouseSink {
	return &ClickHouseSink{client: client}
}

func (s *ClickHouseSink) Store(ctx context.Context, p *models.Prediction) error {
	const q = `INSERT INTO predictions
		(created_at, home_id, away_id, league, kick_off, outcome,
		 p_home, p_draw, p_away, confidence, degraded, strategies,
		 elapsed_ms, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	degraded := uint8(0)
	if p.Result.Degraded {
		degraded = 1
	}
	_, err := s.client.DB().ExecContext(ctx, q,
		p.CreatedAt, p.HomeID, p.AwayID, p.League, p.KickOff,
		string(p.Result.Outcome),
		p.Result.Probabilities.HomeWin,
		p.Result.Probabilities.Draw,
		p.Result.Probabilities.AwayWin,
		p.Result.Confidence,
		degraded,
		uint8(p.Result.StrategiesUsed),
		p.ElapsedMs,
		p.Result.Reasoning,
	)
	if err != nil {
		return classify("store prediction", err)
	}
	return nil
}

func (s *ClickHouseSink) Close() error {
	return nil
}
