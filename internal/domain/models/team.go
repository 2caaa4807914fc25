package models

import (
	"fmt"
	"time"
)

// FormResult is a single recent-outcome symbol from a team's perspective.
type FormResult string

const (
	ResultWin  FormResult = "W"
	ResultDraw FormResult = "D"
	ResultLoss FormResult = "L"
)

// Points returns league points awarded for the result.
func (r FormResult) Points() int {
	switch r {
	case ResultWin:
		return 3
	case ResultDraw:
		return 1
	default:
		return 0
	}
}

// TeamSnapshot is an immutable per-request read of a team's league record.
// The engine never mutates snapshots; the store owns them.
type TeamSnapshot struct {
	ID           string
	Name         string
	League       string
	Position     int // 1-based table position
	Points       int
	GamesPlayed  int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	// Form holds the most recent outcomes, newest first, at most 10 entries.
	Form []FormResult
}

// Validate checks snapshot consistency on read.
func (s *TeamSnapshot) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("snapshot: empty team id")
	}
	if s.Position < 1 {
		return fmt.Errorf("snapshot %s: position %d < 1", s.ID, s.Position)
	}
	if s.Wins+s.Draws+s.Losses != s.GamesPlayed {
		return fmt.Errorf("snapshot %s: W+D+L=%d != games played %d",
			s.ID, s.Wins+s.Draws+s.Losses, s.GamesPlayed)
	}
	if len(s.Form) > 10 {
		return fmt.Errorf("snapshot %s: form length %d > 10", s.ID, len(s.Form))
	}
	return nil
}

// MatchContext identifies one upcoming fixture.
type MatchContext struct {
	HomeID  string
	AwayID  string
	League  string
	KickOff time.Time
	Venue   string
}

// Meeting is one completed historical match between two teams.
type Meeting struct {
	Date      time.Time
	HomeID    string
	AwayID    string
	HomeGoals int
	AwayGoals int
}

// LeagueAverages holds league-wide aggregates used as match-level features.
type LeagueAverages struct {
	AvgGoalsPerGame  float64
	AvgHomeAdvantage float64
}
