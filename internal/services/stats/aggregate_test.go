package stats

import (
	"math"
	"testing"

	"MatchCast/internal/domain/models"
)

func snapshot() *models.TeamSnapshot {
	return &models.TeamSnapshot{
		ID:           "arsenal",
		Name:         "Arsenal",
		League:       "premier_league",
		Position:     2,
		Points:       50,
		GamesPlayed:  24,
		Wins:         15,
		Draws:        5,
		Losses:       4,
		GoalsFor:     48,
		GoalsAgainst: 20,
	}
}

func TestDeriveRates(t *testing.T) {
	f := Derive(snapshot(), nil)
	if math.Abs(f.PointsPerGame-50.0/24.0) > 1e-9 {
		t.Fatalf("unexpected ppg %v", f.PointsPerGame)
	}
	if math.Abs(f.WinPct-15.0/24.0*100) > 1e-9 {
		t.Fatalf("unexpected win pct %v", f.WinPct)
	}
	if math.Abs(f.GoalDiffPerGame-28.0/24.0) > 1e-9 {
		t.Fatalf("unexpected goal diff %v", f.GoalDiffPerGame)
	}
}

func TestDeriveZeroGames(t *testing.T) {
	snap := &models.TeamSnapshot{ID: "new", Position: 20}
	f := Derive(snap, nil)
	if f.PointsPerGame != 0 || f.WinPct != 0 || f.GoalDiffPerGame != 0 {
		t.Fatalf("expected zero rates, got %+v", f)
	}
	if f.FormPointsLast5 != 0 || f.StreakLength != 0 {
		t.Fatalf("expected empty form features, got %+v", f)
	}
	if f.TrendShort != 0 || f.TrendLong != 0 {
		t.Fatalf("expected zero trends, got %+v", f)
	}
}

func TestFormPoints(t *testing.T) {
	form := []models.FormResult{"W", "W", "D", "L", "W", "L", "L", "D", "W", "W"}
	if got := FormPoints(form, 5); got != 10 {
		t.Fatalf("last5 points = %d, want 10", got)
	}
	if got := FormPoints(form, 10); got != 17 {
		t.Fatalf("last10 points = %d, want 17", got)
	}
	if got := FormPoints(form[:3], 5); got != 7 {
		t.Fatalf("short window points = %d, want 7", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	sym, n := CurrentStreak([]models.FormResult{"W", "W", "W", "L", "D"})
	if sym != models.ResultWin || n != 3 {
		t.Fatalf("streak = %s/%d, want W/3", sym, n)
	}
	sym, n = CurrentStreak(nil)
	if sym != "" || n != 0 {
		t.Fatalf("empty streak = %s/%d, want empty", sym, n)
	}
}

func TestLongestStreak(t *testing.T) {
	form := []models.FormResult{"L", "W", "W", "L", "L", "L", "W"}
	if got := LongestStreak(form, models.ResultLoss); got != 3 {
		t.Fatalf("longest loss streak = %d, want 3", got)
	}
	if got := LongestStreak(form, models.ResultWin); got != 2 {
		t.Fatalf("longest win streak = %d, want 2", got)
	}
	if got := LongestStreak(form, models.ResultDraw); got != 0 {
		t.Fatalf("longest draw streak = %d, want 0", got)
	}
}

func TestTrendTooShort(t *testing.T) {
	if got := Trend([]models.FormResult{"W"}); got != 0 {
		t.Fatalf("single-entry trend = %v, want 0", got)
	}
	if got := Trend(nil); got != 0 {
		t.Fatalf("empty trend = %v, want 0", got)
	}
}

func TestTrendImproving(t *testing.T) {
	// Newest first: L then W means the team improved.
	got := Trend([]models.FormResult{"W", "L"})
	if got != 1 {
		t.Fatalf("recovery trend = %v, want 1", got)
	}
}

func TestTrendDeclining(t *testing.T) {
	got := Trend([]models.FormResult{"L", "W"})
	if got != -1 {
		t.Fatalf("decline trend = %v, want -1", got)
	}
}

func TestTrendSteady(t *testing.T) {
	got := Trend([]models.FormResult{"W", "W", "W"})
	if got != 0.5 {
		t.Fatalf("steady trend = %v, want 0.5", got)
	}
}

func TestTrendBounded(t *testing.T) {
	seqs := [][]models.FormResult{
		{"W", "L", "D", "W", "L"},
		{"L", "L", "L", "L", "L"},
		{"W", "D", "W", "D", "W"},
	}
	for _, s := range seqs {
		got := Trend(s)
		if got < -1 || got > 1 {
			t.Fatalf("trend %v out of [-1,1] for %v", got, s)
		}
	}
}

func TestStrengthRatingBounds(t *testing.T) {
	top := strengthRating(1, 3.0)
	if math.Abs(top-100) > 1e-9 {
		t.Fatalf("top rating = %v, want 100", top)
	}
	bottom := strengthRating(20, 0)
	if bottom != 0 {
		t.Fatalf("bottom rating = %v, want 0", bottom)
	}
	// Out-of-range positions clamp instead of exceeding bounds.
	if got := strengthRating(0, 1.5); got < 0 || got > 100 {
		t.Fatalf("clamped rating %v out of bounds", got)
	}
	if got := strengthRating(25, 1.5); got < 0 || got > 100 {
		t.Fatalf("clamped rating %v out of bounds", got)
	}
}
