// Package scoring holds the three independent heuristic strategies that map
// a feature vector to an outcome estimate. The strategies model an
// ensemble-of-heuristics design, not trained models; each can be swapped for
// a genuine estimator behind the same Strategy interface.
package scoring

import (
	"math"

	"MatchCast/internal/domain/models"
)

// neutralEstimate is the degradation fallback: a faulting strategy reports
// an even spread with the draw label rather than aborting the prediction.
func neutralEstimate(name string) models.StrategyEstimate {
	third := 1.0 / 3.0
	return models.StrategyEstimate{
		Strategy:   name,
		Outcome:    models.OutcomeDraw,
		Confidence: third,
		Probabilities: models.Probabilities{
			HomeWin: third,
			Draw:    third,
			AwayWin: third,
		},
		Degraded: true,
	}
}

// guard runs fn and degrades any panic or non-finite result to the neutral
// estimate. Scoring must never abort the overall prediction.
func guard(name string, fn func() models.StrategyEstimate) (est models.StrategyEstimate) {
	defer func() {
		if r := recover(); r != nil {
			est = neutralEstimate(name)
		}
	}()
	est = fn()
	if !finiteTriple(est.Probabilities) || math.IsNaN(est.Confidence) {
		return neutralEstimate(name)
	}
	return est
}

func finiteTriple(p models.Probabilities) bool {
	for _, v := range [3]float64{p.HomeWin, p.Draw, p.AwayWin} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// estimateFrom normalizes a raw bucket triple and labels it with the best
// outcome under the draw-precedence tie policy.
func estimateFrom(name string, home, draw, away float64) models.StrategyEstimate {
	total := home + draw + away
	if total <= 0 {
		return neutralEstimate(name)
	}
	p := models.Probabilities{
		HomeWin: home / total,
		Draw:    draw / total,
		AwayWin: away / total,
	}
	outcome, conf := p.Best()
	return models.StrategyEstimate{
		Strategy:      name,
		Outcome:       outcome,
		Confidence:    conf,
		Probabilities: p,
	}
}
