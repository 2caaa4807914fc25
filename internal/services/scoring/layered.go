package scoring

import (
	"context"
	"math"

	"MatchCast/internal/domain/models"
)

// layeredScales map each raw feature gap onto a comparable range before the
// logistic squash; a gap equal to its scale lands at sigma(1) ~ 0.73.
const (
	scaleForm5    = 3.0
	scaleForm10   = 6.0
	scaleGoalDiff = 0.5
	scaleRank     = 5.0
	scalePPG      = 0.5
	scaleTrend    = 0.3
	scaleStrength = 20.0
	scaleRest     = 3.0
)

// Fixed hand-tuned weights. Layer one condenses the ten scaled inputs into
// six interpretable units (form, goals, table, momentum, history, context);
// layer two mixes them into four composite units; layer three reads out the
// three outcome logits. Hidden layers are logistic, the output is a softmax.
var (
	layeredW1 = [6][10]float64{
		{1.6, 1.2, 0, 0, 0, 0.8, 0, 0, 0, 0.4},     // form
		{0, 0, 2.0, 0, 1.2, 0, 0.8, 0, 0, 0},       // goals
		{0, 0, 0, 1.6, 1.2, 0, 1.2, 0, 0, 0},       // table
		{1.2, 0, 0, 0, 0, 1.6, 0, 0, 0, 1.2},       // momentum
		{0, 0.8, 0, 0, 0, 0, 0, 2.4, 0.4, 0.4},     // history
		{0.4, 0, 0.4, 0, 0, 0, 0.4, 0.4, 1.6, 0.8}, // context
	}
	layeredB1 = [6]float64{-2, -2, -2, -2, -2, -2}

	layeredW2 = [4][6]float64{
		{1.6, 1.2, 1.2, 0, 0, 0},
		{0, 0.8, 0.8, 1.6, 0, 0.8},
		{0.8, 0, 0, 0.8, 1.6, 0.8},
		{0.4, 0.8, 0.8, 0.4, 0.8, 0.8},
	}
	layeredB2 = [4]float64{-2, -2, -2, -2}

	layeredW3 = [3][4]float64{
		{0.9, 0.7, 0.5, 0.1},     // home
		{0.2, -0.2, 0.2, -0.2},   // draw
		{-0.9, -0.7, -0.5, -0.1}, // away
	}
	layeredB3 = [3]float64{-1.1, 0.15, 1.1}
)

// LayeredStrategy pushes ten scaled differential features through a small
// fixed-weight feed-forward net. The weights are hand-tuned, not trained;
// the layered shape exists so trained weights can drop in later.
type LayeredStrategy struct{}

func NewLayeredStrategy() *LayeredStrategy { return &LayeredStrategy{} }

func (s *LayeredStrategy) Name() string { return "layered_weights" }

func (s *LayeredStrategy) Score(_ context.Context, fv *models.FeatureVector) models.StrategyEstimate {
	return guard(s.Name(), func() models.StrategyEstimate {
		in := layeredInputs(fv)

		var h1 [6]float64
		for i := range layeredW1 {
			sum := layeredB1[i]
			for j, w := range layeredW1[i] {
				sum += w * in[j]
			}
			h1[i] = sigmoid(sum)
		}

		var h2 [4]float64
		for i := range layeredW2 {
			sum := layeredB2[i]
			for j, w := range layeredW2[i] {
				sum += w * h1[j]
			}
			h2[i] = sigmoid(sum)
		}

		var logits [3]float64
		for i := range layeredW3 {
			sum := layeredB3[i]
			for j, w := range layeredW3[i] {
				sum += w * h2[j]
			}
			logits[i] = sum
		}

		p := softmax3(logits)
		outcome, conf := p.Best()
		return models.StrategyEstimate{
			Strategy:      s.Name(),
			Outcome:       outcome,
			Confidence:    conf,
			Probabilities: p,
		}
	})
}

// layeredInputs builds the ten home-minus-away differentials, each squashed
// to (0,1) so a positive gap favors the home side.
func layeredInputs(fv *models.FeatureVector) [10]float64 {
	h2hShare := 0.5
	if fv.H2H.Meetings > 0 {
		h2hShare = fv.H2H.HomeWinShare()
	}
	homeAdv := fv.Match.LeagueHomeAdvantage
	if homeAdv < 0 {
		homeAdv = 0
	} else if homeAdv > 1 {
		homeAdv = 1
	}
	return [10]float64{
		sigmoid(float64(fv.Home.FormPointsLast5-fv.Away.FormPointsLast5) / scaleForm5),
		sigmoid(float64(fv.Home.FormPointsLast10-fv.Away.FormPointsLast10) / scaleForm10),
		sigmoid((fv.Home.GoalDiffPerGame - fv.Away.GoalDiffPerGame) / scaleGoalDiff),
		sigmoid(float64(fv.Away.Position-fv.Home.Position) / scaleRank),
		sigmoid((fv.Home.PointsPerGame - fv.Away.PointsPerGame) / scalePPG),
		sigmoid((fv.Home.TrendShort - fv.Away.TrendShort) / scaleTrend),
		sigmoid((fv.Home.StrengthRating - fv.Away.StrengthRating) / scaleStrength),
		h2hShare,
		homeAdv,
		sigmoid((fv.Match.HomeRestDays - fv.Match.AwayRestDays) / scaleRest),
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax3(logits [3]float64) models.Probabilities {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	e0 := math.Exp(logits[0] - max)
	e1 := math.Exp(logits[1] - max)
	e2 := math.Exp(logits[2] - max)
	total := e0 + e1 + e2
	return models.Probabilities{HomeWin: e0 / total, Draw: e1 / total, AwayWin: e2 / total}
}
