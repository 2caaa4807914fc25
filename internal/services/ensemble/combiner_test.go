package ensemble

import (
	"math"
	"strings"
	"testing"

	"MatchCast/internal/domain/models"
)

func newTestCombiner(t *testing.T) *Combiner {
	t.Helper()
	c, err := New(DefaultWeights(), 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func estimates(cascade, vote, layered models.StrategyEstimate) []models.StrategyEstimate {
	cascade.Strategy = "rule_cascade"
	vote.Strategy = "majority_vote"
	layered.Strategy = "layered_weights"
	return []models.StrategyEstimate{cascade, vote, layered}
}

func homeEstimate(conf float64) models.StrategyEstimate {
	return models.StrategyEstimate{
		Outcome:       models.OutcomeHomeWin,
		Confidence:    conf,
		Probabilities: models.Probabilities{HomeWin: conf, Draw: (1 - conf) / 2, AwayWin: (1 - conf) / 2},
	}
}

func drawEstimate(conf float64) models.StrategyEstimate {
	return models.StrategyEstimate{
		Outcome:       models.OutcomeDraw,
		Confidence:    conf,
		Probabilities: models.Probabilities{HomeWin: (1 - conf) / 2, Draw: conf, AwayWin: (1 - conf) / 2},
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
	bad := Weights{Cascade: 0.5, Vote: 0.3, Layered: 0.3}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for weights summing to 1.1")
	}
	if _, err := New(Weights{Cascade: 1.2, Vote: -0.1, Layered: -0.1}, 0.1); err == nil {
		t.Fatalf("expected error for out-of-range weight")
	}
}

func TestCombineDistribution(t *testing.T) {
	c := newTestCombiner(t)
	fv := &models.FeatureVector{Match: models.MatchFeatures{LeagueHomeAdvantage: 0.3}}

	res := c.Combine(fv, estimates(homeEstimate(0.7), drawEstimate(0.6), homeEstimate(0.5)))
	p := res.Probabilities
	if math.Abs(p.HomeWin+p.Draw+p.AwayWin-1) > 1e-9 {
		t.Fatalf("probabilities sum %v", p.HomeWin+p.Draw+p.AwayWin)
	}
	if res.Outcome != models.OutcomeHomeWin {
		t.Fatalf("outcome %s, want home win", res.Outcome)
	}
	if res.Confidence != p.HomeWin {
		t.Fatalf("confidence %v, want %v", res.Confidence, p.HomeWin)
	}
	if res.StrategiesUsed != 3 || res.Degraded {
		t.Fatalf("unexpected degradation state %+v", res)
	}
}

func TestCombineHomeBoost(t *testing.T) {
	c := newTestCombiner(t)
	ests := estimates(drawEstimate(0.5), drawEstimate(0.5), drawEstimate(0.5))

	flat := c.Combine(&models.FeatureVector{}, ests)
	boosted := c.Combine(&models.FeatureVector{Match: models.MatchFeatures{LeagueHomeAdvantage: 0.4}}, ests)
	if boosted.Probabilities.HomeWin <= flat.Probabilities.HomeWin {
		t.Fatalf("home boost had no effect: %v vs %v", boosted.Probabilities.HomeWin, flat.Probabilities.HomeWin)
	}
}

func TestCombineDegradedEstimates(t *testing.T) {
	c := newTestCombiner(t)
	neutral := models.StrategyEstimate{
		Outcome:       models.OutcomeDraw,
		Confidence:    1.0 / 3.0,
		Probabilities: models.Probabilities{HomeWin: 1.0 / 3.0, Draw: 1.0 / 3.0, AwayWin: 1.0 / 3.0},
		Degraded:      true,
	}

	res := c.Combine(&models.FeatureVector{}, estimates(homeEstimate(0.8), neutral, homeEstimate(0.6)))
	if !res.Degraded {
		t.Fatalf("expected degraded result")
	}
	if res.StrategiesUsed != 2 {
		t.Fatalf("strategies used = %d, want 2", res.StrategiesUsed)
	}
	if res.Outcome != models.OutcomeHomeWin {
		t.Fatalf("outcome %s, want home win", res.Outcome)
	}
}

func TestCombineImportanceTable(t *testing.T) {
	c := newTestCombiner(t)
	res := c.Combine(&models.FeatureVector{}, estimates(drawEstimate(0.5), drawEstimate(0.5), drawEstimate(0.5)))
	if len(res.Importance) == 0 {
		t.Fatalf("expected importance table")
	}
	sum := 0.0
	for _, fi := range res.Importance {
		if fi.Weight < 0 || fi.Weight > 1 {
			t.Fatalf("importance %q = %v out of [0,1]", fi.Feature, fi.Weight)
		}
		sum += fi.Weight
	}
	if math.Abs(sum-1) > 0.01 {
		t.Fatalf("importance weights sum %v, want ~1", sum)
	}
}

func TestReasoningMentionsDominantForm(t *testing.T) {
	c := newTestCombiner(t)
	fv := &models.FeatureVector{
		Home: models.TeamFeatures{FormPointsLast5: 15},
		Away: models.TeamFeatures{FormPointsLast5: 2},
	}
	res := c.Combine(fv, estimates(homeEstimate(0.7), homeEstimate(0.7), homeEstimate(0.7)))
	found := false
	for _, r := range res.Reasoning {
		if strings.Contains(r, "stronger recent form") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no form reasoning in %v", res.Reasoning)
	}
}

func TestReasoningNeverEmpty(t *testing.T) {
	c := newTestCombiner(t)
	res := c.Combine(&models.FeatureVector{}, estimates(drawEstimate(0.4), drawEstimate(0.4), drawEstimate(0.4)))
	if len(res.Reasoning) == 0 {
		t.Fatalf("expected at least one reasoning entry")
	}
}
