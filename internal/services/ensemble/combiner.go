// Package ensemble combines the per-strategy estimates into one calibrated
// outcome distribution with a transparency trail.
package ensemble

import (
	"fmt"
	"math"

	"MatchCast/internal/domain/models"
)

// Weights assigns each strategy's share of the combined mass. A valid set
// sums to 1.0 within 1e-9.
type Weights struct {
	Cascade float64
	Vote    float64
	Layered float64
}

// DefaultWeights favor the cascade, the most interpretable strategy.
func DefaultWeights() Weights {
	return Weights{Cascade: 0.4, Vote: 0.3, Layered: 0.3}
}

// Validate checks the weight set forms a distribution.
func (w Weights) Validate() error {
	for _, v := range [3]float64{w.Cascade, w.Vote, w.Layered} {
		if v < 0 || v > 1 {
			return fmt.Errorf("strategy weight %v out of [0,1]", v)
		}
	}
	if sum := w.Cascade + w.Vote + w.Layered; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("strategy weights sum to %v, want 1", sum)
	}
	return nil
}

func (w Weights) of(strategy string) float64 {
	switch strategy {
	case "rule_cascade":
		return w.Cascade
	case "majority_vote":
		return w.Vote
	case "layered_weights":
		return w.Layered
	default:
		return 0
	}
}

// Reasoning trigger thresholds.
const (
	reasonFormGap    = 3
	reasonRankGap    = 5
	reasonHomeAdvMin = 0.1
	reasonGoalGap    = 0.5
	reasonH2HShare   = 0.6
	reasonH2HMinMeet = 4
	reasonConfHigh   = 0.7
	reasonConfLow    = 0.4
)

// Combiner folds strategy estimates into the final distribution. Each
// strategy allocates its full weighted confidence to the bucket of its own
// predicted outcome; the home bucket then receives the venue boost before
// normalization.
type Combiner struct {
	weights Weights
	// homeBoost scales the league's home advantage into extra home mass.
	homeBoost float64
}

func New(weights Weights, homeBoost float64) (*Combiner, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if homeBoost < 0 || homeBoost > 1 {
		return nil, fmt.Errorf("home boost %v out of [0,1]", homeBoost)
	}
	return &Combiner{weights: weights, homeBoost: homeBoost}, nil
}

// Combine produces the ensemble result for one feature vector. estimates must
// hold one entry per configured strategy; degraded entries still contribute
// their neutral mass so the distribution shape stays stable.
func (c *Combiner) Combine(fv *models.FeatureVector, estimates []models.StrategyEstimate) models.EnsembleResult {
	var home, draw, away float64
	genuine := 0
	for _, est := range estimates {
		w := c.weights.of(est.Strategy)
		switch est.Outcome {
		case models.OutcomeHomeWin:
			home += w * est.Confidence
		case models.OutcomeAwayWin:
			away += w * est.Confidence
		default:
			draw += w * est.Confidence
		}
		if !est.Degraded {
			genuine++
		}
	}

	home += c.homeBoost * fv.Match.LeagueHomeAdvantage

	total := home + draw + away
	if total <= 0 {
		home, draw, away, total = 1, 1, 1, 3
	}
	probs := models.Probabilities{
		HomeWin: home / total,
		Draw:    draw / total,
		AwayWin: away / total,
	}
	outcome, conf := probs.Best()

	return models.EnsembleResult{
		Outcome:        outcome,
		Probabilities:  probs,
		Confidence:     conf,
		Importance:     c.importance(),
		Reasoning:      c.reasoning(fv, outcome, conf),
		Estimates:      estimates,
		Degraded:       genuine < len(estimates),
		StrategiesUsed: genuine,
	}
}

// importanceBase is the shared transparency table. Per-strategy emphasis is
// folded in through the ensemble weights so the published numbers track the
// configured mix.
var importanceBase = []struct {
	feature string
	cascade float64
	vote    float64
	layered float64
}{
	{"recent_form", 0.30, 0.25, 0.28},
	{"goal_difference", 0.20, 0.20, 0.22},
	{"league_position", 0.18, 0.20, 0.16},
	{"home_advantage", 0.12, 0.05, 0.10},
	{"momentum_trend", 0.12, 0.15, 0.08},
	{"head_to_head", 0.08, 0.15, 0.16},
}

func (c *Combiner) importance() []models.FeatureImportance {
	out := make([]models.FeatureImportance, 0, len(importanceBase))
	for _, row := range importanceBase {
		w := c.weights.Cascade*row.cascade + c.weights.Vote*row.vote + c.weights.Layered*row.layered
		out = append(out, models.FeatureImportance{
			Feature: row.feature,
			Weight:  math.Round(w*1000) / 1000,
		})
	}
	return out
}

// reasoning emits human-readable statements in a fixed rule order so
// identical inputs always produce identical explanations.
func (c *Combiner) reasoning(fv *models.FeatureVector, outcome models.Outcome, conf float64) []string {
	var out []string

	formGap := fv.Home.FormPointsLast5 - fv.Away.FormPointsLast5
	if formGap > reasonFormGap {
		out = append(out, fmt.Sprintf("home side has stronger recent form (+%d points over last 5)", formGap))
	} else if formGap < -reasonFormGap {
		out = append(out, fmt.Sprintf("away side has stronger recent form (+%d points over last 5)", -formGap))
	}

	rankGap := fv.Away.Position - fv.Home.Position
	if rankGap > reasonRankGap {
		out = append(out, fmt.Sprintf("home side sits %d places higher in the table", rankGap))
	} else if rankGap < -reasonRankGap {
		out = append(out, fmt.Sprintf("away side sits %d places higher in the table", -rankGap))
	}

	if fv.Match.LeagueHomeAdvantage > reasonHomeAdvMin {
		out = append(out, fmt.Sprintf("league shows a meaningful home advantage (%.2f)", fv.Match.LeagueHomeAdvantage))
	}

	goalGap := fv.Home.GoalDiffPerGame - fv.Away.GoalDiffPerGame
	if goalGap > reasonGoalGap {
		out = append(out, fmt.Sprintf("home side outscores opponents by %.2f more goals per game", goalGap))
	} else if goalGap < -reasonGoalGap {
		out = append(out, fmt.Sprintf("away side outscores opponents by %.2f more goals per game", -goalGap))
	}

	if fv.H2H.Meetings >= reasonH2HMinMeet {
		share := fv.H2H.HomeWinShare()
		awayShare := float64(fv.H2H.AwayWins) / float64(fv.H2H.Meetings)
		if share > reasonH2HShare {
			out = append(out, fmt.Sprintf("home side won %.0f%% of the last %d meetings", share*100, fv.H2H.Meetings))
		} else if awayShare > reasonH2HShare {
			out = append(out, fmt.Sprintf("away side won %.0f%% of the last %d meetings", awayShare*100, fv.H2H.Meetings))
		}
	}

	switch {
	case conf > reasonConfHigh:
		out = append(out, fmt.Sprintf("strategies strongly agree on %s", outcome))
	case conf < reasonConfLow:
		out = append(out, "strategies disagree, outcome is close to a coin flip")
	}

	if len(out) == 0 {
		out = append(out, "no single factor dominates, sides are closely matched")
	}
	return out
}
