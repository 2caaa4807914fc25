package scoring

import (
	"context"

	"MatchCast/internal/domain/models"
)

// Cascade bucket contributions and thresholds. Each signal is checked
// independently and adds its weight to exactly one bucket.
const (
	cascadeBase = 0.2

	cascadeFormGap      = 3.0
	cascadeFormWeight   = 0.25
	cascadeFormCloseGap = 1.0

	cascadeGoalDiffGap      = 0.5
	cascadeGoalDiffWeight   = 0.20
	cascadeGoalDiffCloseGap = 0.2

	cascadeRankGap    = 5
	cascadeRankWeight = 0.20

	cascadeHomeAdvMin    = 0.1
	cascadeHomeAdvWeight = 0.10

	cascadeTrendGap    = 0.3
	cascadeTrendWeight = 0.15

	cascadeCloseWeight = 0.10

	cascadeFloor   = 0.05
	cascadeCeiling = 0.90
)

// CascadeStrategy scores via a fixed sequence of independent threshold
// checks, each feeding an additive bucket, boosted-trees style.
type CascadeStrategy struct{}

func NewCascadeStrategy() *CascadeStrategy { return &CascadeStrategy{} }

func (s *CascadeStrategy) Name() string { return "rule_cascade" }

func (s *CascadeStrategy) Score(_ context.Context, fv *models.FeatureVector) models.StrategyEstimate {
	return guard(s.Name(), func() models.StrategyEstimate {
		h, d, a := cascadeBase, cascadeBase, cascadeBase

		formGap := float64(fv.Home.FormPointsLast5 - fv.Away.FormPointsLast5)
		switch {
		case formGap > cascadeFormGap:
			h += cascadeFormWeight
		case formGap < -cascadeFormGap:
			a += cascadeFormWeight
		case abs(formGap) <= cascadeFormCloseGap:
			d += cascadeCloseWeight
		}

		goalGap := fv.Home.GoalDiffPerGame - fv.Away.GoalDiffPerGame
		switch {
		case goalGap > cascadeGoalDiffGap:
			h += cascadeGoalDiffWeight
		case goalGap < -cascadeGoalDiffGap:
			a += cascadeGoalDiffWeight
		case abs(goalGap) <= cascadeGoalDiffCloseGap:
			d += cascadeCloseWeight
		}

		// Lower position is better.
		rankGap := fv.Away.Position - fv.Home.Position
		if rankGap > cascadeRankGap {
			h += cascadeRankWeight
		} else if rankGap < -cascadeRankGap {
			a += cascadeRankWeight
		}

		if fv.Match.LeagueHomeAdvantage > cascadeHomeAdvMin {
			h += cascadeHomeAdvWeight
		}

		trendGap := fv.Home.TrendShort - fv.Away.TrendShort
		if trendGap > cascadeTrendGap {
			h += cascadeTrendWeight
		} else if trendGap < -cascadeTrendGap {
			a += cascadeTrendWeight
		}

		est := estimateFrom(s.Name(), h, d, a)
		est.Probabilities = clampTriple(est.Probabilities)
		est.Outcome, est.Confidence = est.Probabilities.Best()
		return est
	})
}

// clampTriple applies the per-bucket floor and ceiling, then renormalizes
// to a distribution.
func clampTriple(p models.Probabilities) models.Probabilities {
	clamp := func(v float64) float64 {
		if v < cascadeFloor {
			return cascadeFloor
		}
		if v > cascadeCeiling {
			return cascadeCeiling
		}
		return v
	}
	h, d, a := clamp(p.HomeWin), clamp(p.Draw), clamp(p.AwayWin)
	total := h + d + a
	return models.Probabilities{HomeWin: h / total, Draw: d / total, AwayWin: a / total}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
