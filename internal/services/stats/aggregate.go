package stats

import (
	"context"
	"fmt"

	"MatchCast/internal/domain/models"
	domrepo "MatchCast/internal/domain/repository"
)

const (
	// formWindow bounds the recent-outcome sequence used for form features.
	formWindow = 10
	// assumedLeagueSize anchors the position component of the strength
	// rating when the store does not report league size.
	assumedLeagueSize = 20
)

// Aggregator computes per-team derived statistics from snapshots and recent
// outcome history. Stateless; safe for concurrent use.
type Aggregator struct {
	store domrepo.TeamStore
}

func NewAggregator(store domrepo.TeamStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate resolves the team and derives its feature set. Unknown ids
// propagate models.ErrNotFound.
func (a *Aggregator) Aggregate(ctx context.Context, teamID string) (models.TeamFeatures, *models.TeamSnapshot, error) {
	snap, err := a.store.GetTeam(ctx, teamID)
	if err != nil {
		return models.TeamFeatures{}, nil, err
	}
	if err := snap.Validate(); err != nil {
		return models.TeamFeatures{}, nil, fmt.Errorf("aggregate %s: %w", teamID, err)
	}

	form, err := a.store.GetRecentOutcomes(ctx, teamID, formWindow)
	if err != nil {
		return models.TeamFeatures{}, nil, err
	}
	if len(form) > formWindow {
		form = form[:formWindow]
	}

	return Derive(snap, form), snap, nil
}

// Derive computes the full feature set from an immutable snapshot and a
// newest-first outcome sequence. Pure; exported for direct testing.
func Derive(snap *models.TeamSnapshot, form []models.FormResult) models.TeamFeatures {
	games := snap.GamesPlayed
	f := models.TeamFeatures{
		Position:    snap.Position,
		GamesPlayed: games,

		PointsPerGame:       rate(float64(snap.Points), games),
		WinPct:              rate(float64(snap.Wins)*100, games),
		DrawPct:             rate(float64(snap.Draws)*100, games),
		LossPct:             rate(float64(snap.Losses)*100, games),
		GoalsForPerGame:     rate(float64(snap.GoalsFor), games),
		GoalsAgainstPerGame: rate(float64(snap.GoalsAgainst), games),
		GoalDiffPerGame:     rate(float64(snap.GoalsFor-snap.GoalsAgainst), games),

		FormPointsLast5:  FormPoints(form, 5),
		FormPointsLast10: FormPoints(form, 10),
	}

	f.StreakType, f.StreakLength = CurrentStreak(form)
	f.LongestWinStreak = LongestStreak(form, models.ResultWin)
	f.LongestLossStreak = LongestStreak(form, models.ResultLoss)

	f.TrendShort = Trend(lastN(form, 5))
	f.TrendLong = Trend(form)

	f.StrengthRating = strengthRating(snap.Position, f.PointsPerGame)
	return f
}

// rate divides by max(games, 1): zero games played yields zero rates rather
// than a division fault.
func rate(v float64, games int) float64 {
	if games < 1 {
		games = 1
	}
	return v / float64(games)
}

// FormPoints sums league points over the newest n outcomes.
func FormPoints(form []models.FormResult, n int) int {
	pts := 0
	for _, r := range lastN(form, n) {
		pts += r.Points()
	}
	return pts
}

// CurrentStreak returns the symbol and run length of the most recent maximal
// run. An empty window yields ("", 0).
func CurrentStreak(form []models.FormResult) (models.FormResult, int) {
	if len(form) == 0 {
		return "", 0
	}
	cur := form[0]
	n := 0
	for _, r := range form {
		if r != cur {
			break
		}
		n++
	}
	return cur, n
}

// LongestStreak returns the longest run of the given symbol anywhere in the
// window, independent of which run is current.
func LongestStreak(form []models.FormResult, of models.FormResult) int {
	best, run := 0, 0
	for _, r := range form {
		if r == of {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// Trend scores the chronological transitions of a newest-first window:
// an improvement or a recovery contributes +1, an unchanged result +0.5,
// any decline -1. The sum is normalized by (n-1). Windows shorter than two
// entries have no transitions and score 0.
func Trend(form []models.FormResult) float64 {
	n := len(form)
	if n < 2 {
		return 0
	}
	sum := 0.0
	// form is newest first; walk oldest -> newest.
	for i := n - 1; i > 0; i-- {
		sum += transition(form[i], form[i-1])
	}
	return sum / float64(n-1)
}

func transition(prev, cur models.FormResult) float64 {
	switch {
	case prev == cur:
		return 0.5
	case prev == models.ResultLoss && cur == models.ResultWin: // recovery
		return 1
	case prev == models.ResultLoss && cur == models.ResultDraw:
		return 1
	case prev == models.ResultDraw && cur == models.ResultWin:
		return 1
	default:
		return -1
	}
}

// strengthRating blends table position and points pace into a 0..100
// league-relative rating.
func strengthRating(position int, ppg float64) float64 {
	if position < 1 {
		position = 1
	}
	if position > assumedLeagueSize {
		position = assumedLeagueSize
	}
	posScore := float64(assumedLeagueSize-position) / float64(assumedLeagueSize-1) * 100
	paceScore := ppg / 3.0 * 100
	if paceScore > 100 {
		paceScore = 100
	}
	return 0.6*posScore + 0.4*paceScore
}

func lastN(form []models.FormResult, n int) []models.FormResult {
	if len(form) <= n {
		return form
	}
	return form[:n]
}
