package scoring

import (
	"context"

	"MatchCast/internal/domain/models"
)

// Vote margins. Each rule compares two scalar features with a fixed margin
// and casts exactly one vote; inside the margin the vote goes to draw.
const (
	voteFormMargin     = 4
	voteGoalDiffMargin = 0.3
	voteRankMargin     = 3
	voteStreakMin      = 3
	voteH2HRecentMin   = 3
)

// voteRule casts a single vote for one outcome.
type voteRule func(fv *models.FeatureVector) models.Outcome

// VoteStrategy runs five independent decision rules, forest style, and
// turns the vote counts directly into probabilities.
type VoteStrategy struct {
	rules []voteRule
}

func NewVoteStrategy() *VoteStrategy {
	return &VoteStrategy{rules: []voteRule{voteForm, voteGoalDiff, voteRank, voteStreak, voteHeadToHead}}
}

func (s *VoteStrategy) Name() string { return "majority_vote" }

func (s *VoteStrategy) Score(_ context.Context, fv *models.FeatureVector) models.StrategyEstimate {
	return guard(s.Name(), func() models.StrategyEstimate {
		var h, d, a int
		for _, rule := range s.rules {
			switch rule(fv) {
			case models.OutcomeHomeWin:
				h++
			case models.OutcomeAwayWin:
				a++
			default:
				d++
			}
		}
		total := float64(len(s.rules))
		p := models.Probabilities{
			HomeWin: float64(h) / total,
			Draw:    float64(d) / total,
			AwayWin: float64(a) / total,
		}
		outcome, conf := p.Best()
		return models.StrategyEstimate{
			Strategy:      s.Name(),
			Outcome:       outcome,
			Confidence:    conf,
			Probabilities: p,
		}
	})
}

func voteForm(fv *models.FeatureVector) models.Outcome {
	gap := fv.Home.FormPointsLast5 - fv.Away.FormPointsLast5
	return lean(float64(gap), voteFormMargin)
}

func voteGoalDiff(fv *models.FeatureVector) models.Outcome {
	return lean(fv.Home.GoalDiffPerGame-fv.Away.GoalDiffPerGame, voteGoalDiffMargin)
}

func voteRank(fv *models.FeatureVector) models.Outcome {
	// Lower table position is better.
	return lean(float64(fv.Away.Position-fv.Home.Position), voteRankMargin)
}

func voteStreak(fv *models.FeatureVector) models.Outcome {
	homeHot := fv.Home.StreakType == models.ResultWin && fv.Home.StreakLength >= voteStreakMin
	homeCold := fv.Home.StreakType == models.ResultLoss && fv.Home.StreakLength >= voteStreakMin
	awayHot := fv.Away.StreakType == models.ResultWin && fv.Away.StreakLength >= voteStreakMin
	awayCold := fv.Away.StreakType == models.ResultLoss && fv.Away.StreakLength >= voteStreakMin
	switch {
	case homeHot && !awayHot, awayCold && !homeCold:
		return models.OutcomeHomeWin
	case awayHot && !homeHot, homeCold && !awayCold:
		return models.OutcomeAwayWin
	default:
		return models.OutcomeDraw
	}
}

func voteHeadToHead(fv *models.FeatureVector) models.Outcome {
	switch {
	case fv.H2H.RecentHomeWins >= voteH2HRecentMin:
		return models.OutcomeHomeWin
	case fv.H2H.RecentAwayWins >= voteH2HRecentMin:
		return models.OutcomeAwayWin
	default:
		return models.OutcomeDraw
	}
}

// lean maps a signed gap with a margin onto an outcome vote.
func lean(gap, margin float64) models.Outcome {
	switch {
	case gap > margin:
		return models.OutcomeHomeWin
	case gap < -margin:
		return models.OutcomeAwayWin
	default:
		return models.OutcomeDraw
	}
}
