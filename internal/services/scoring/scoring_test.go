package scoring

import (
	"context"
	"math"
	"testing"

	"MatchCast/internal/domain/models"
	domsvc "MatchCast/internal/domain/service"
)

func strongHomeVector() *models.FeatureVector {
	return &models.FeatureVector{
		Home: models.TeamFeatures{
			Position:        1,
			PointsPerGame:   2.5,
			GoalDiffPerGame: 1.4,
			FormPointsLast5: 15, FormPointsLast10: 27,
			StreakType: models.ResultWin, StreakLength: 5,
			TrendShort: 0.5, TrendLong: 0.4,
			StrengthRating: 95,
		},
		Away: models.TeamFeatures{
			Position:        20,
			PointsPerGame:   0.4,
			GoalDiffPerGame: -1.2,
			FormPointsLast5: 0, FormPointsLast10: 3,
			StreakType: models.ResultLoss, StreakLength: 5,
			TrendShort: -0.5, TrendLong: -0.4,
			StrengthRating: 8,
		},
		Match: models.MatchFeatures{
			LeagueAvgGoals:      2.7,
			LeagueHomeAdvantage: 0.3,
		},
		H2H: models.HeadToHeadFeatures{
			Meetings: 6, HomeWins: 5, Draws: 1,
			RecentMeetings: 5, RecentHomeWins: 4, RecentDraws: 1,
		},
		External: models.NeutralFactors(),
	}
}

func evenVector() *models.FeatureVector {
	side := models.TeamFeatures{
		Position:        8,
		PointsPerGame:   1.5,
		GoalDiffPerGame: 0.1,
		FormPointsLast5: 7, FormPointsLast10: 14,
		StreakType: models.ResultDraw, StreakLength: 1,
		TrendShort: 0.1, TrendLong: 0.1,
		StrengthRating: 55,
	}
	away := side
	away.Position = 9
	return &models.FeatureVector{
		Home:     side,
		Away:     away,
		Match:    models.MatchFeatures{LeagueAvgGoals: 2.6, LeagueHomeAdvantage: 0.05},
		H2H:      models.HeadToHeadFeatures{Meetings: 4, HomeWins: 1, Draws: 2, AwayWins: 1, RecentMeetings: 4, RecentHomeWins: 1, RecentDraws: 2, RecentAwayWins: 1},
		External: models.NeutralFactors(),
	}
}

func allStrategies() []domsvc.Strategy {
	return []domsvc.Strategy{
		NewCascadeStrategy(),
		NewVoteStrategy(),
		NewLayeredStrategy(),
	}
}

func TestStrategiesProduceDistributions(t *testing.T) {
	for _, s := range allStrategies() {
		for _, fv := range []*models.FeatureVector{strongHomeVector(), evenVector()} {
			est := s.Score(context.Background(), fv)
			p := est.Probabilities
			sum := p.HomeWin + p.Draw + p.AwayWin
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("%s: probabilities sum %v", s.Name(), sum)
			}
			for _, v := range [3]float64{p.HomeWin, p.Draw, p.AwayWin} {
				if v < 0 || v > 1 {
					t.Fatalf("%s: probability %v out of [0,1]", s.Name(), v)
				}
			}
			if est.Confidence != p.Of(est.Outcome) {
				t.Fatalf("%s: confidence %v does not match outcome mass %v", s.Name(), est.Confidence, p.Of(est.Outcome))
			}
		}
	}
}

func TestStrategiesDeterministic(t *testing.T) {
	for _, s := range allStrategies() {
		fv := strongHomeVector()
		a := s.Score(context.Background(), fv)
		b := s.Score(context.Background(), fv)
		if a != b {
			t.Fatalf("%s: not deterministic: %+v vs %+v", s.Name(), a, b)
		}
	}
}

func TestStrategiesFavorStrongHome(t *testing.T) {
	for _, s := range allStrategies() {
		est := s.Score(context.Background(), strongHomeVector())
		if est.Outcome != models.OutcomeHomeWin {
			t.Fatalf("%s: outcome %s, want home win", s.Name(), est.Outcome)
		}
		if est.Probabilities.HomeWin <= est.Probabilities.AwayWin {
			t.Fatalf("%s: home %v not above away %v", s.Name(), est.Probabilities.HomeWin, est.Probabilities.AwayWin)
		}
	}
}

func TestVoteEvenMatchIsDraw(t *testing.T) {
	est := NewVoteStrategy().Score(context.Background(), evenVector())
	if est.Outcome != models.OutcomeDraw {
		t.Fatalf("outcome %s, want draw", est.Outcome)
	}
}

func TestCascadeBounds(t *testing.T) {
	est := NewCascadeStrategy().Score(context.Background(), strongHomeVector())
	p := est.Probabilities
	for _, v := range [3]float64{p.HomeWin, p.Draw, p.AwayWin} {
		if v < 0.01 || v > 0.95 {
			t.Fatalf("probability %v escaped clamp", v)
		}
	}
}

func TestGuardDegradesOnNonFinite(t *testing.T) {
	fv := strongHomeVector()
	fv.Home.GoalDiffPerGame = math.NaN()

	for _, s := range allStrategies() {
		est := s.Score(context.Background(), fv)
		p := est.Probabilities
		if math.IsNaN(p.HomeWin) || math.IsNaN(p.Draw) || math.IsNaN(p.AwayWin) {
			t.Fatalf("%s: NaN escaped the guard: %+v", s.Name(), p)
		}
		if math.Abs(p.HomeWin+p.Draw+p.AwayWin-1) > 1e-9 {
			t.Fatalf("%s: degraded distribution does not sum to 1", s.Name())
		}
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	est := guard("boom", func() models.StrategyEstimate {
		panic("strategy fault")
	})
	if !est.Degraded {
		t.Fatalf("expected degraded estimate")
	}
	if est.Outcome != models.OutcomeDraw {
		t.Fatalf("fallback outcome %s, want draw", est.Outcome)
	}
	if math.Abs(est.Confidence-1.0/3.0) > 1e-9 {
		t.Fatalf("fallback confidence %v, want 1/3", est.Confidence)
	}
}

func TestBestTiePrefersDraw(t *testing.T) {
	p := models.Probabilities{HomeWin: 0.4, Draw: 0.4, AwayWin: 0.2}
	outcome, conf := p.Best()
	if outcome != models.OutcomeDraw || conf != 0.4 {
		t.Fatalf("tie broke to %s/%v, want draw/0.4", outcome, conf)
	}
}
