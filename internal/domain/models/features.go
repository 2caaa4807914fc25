package models

// TeamFeatures are the per-side derived statistics produced by the aggregator.
// Percentages are 0..100, trends are -1..1, rates are per game.
type TeamFeatures struct {
	Position    int
	GamesPlayed int

	PointsPerGame       float64
	WinPct              float64
	DrawPct             float64
	LossPct             float64
	GoalsForPerGame     float64
	GoalsAgainstPerGame float64
	GoalDiffPerGame     float64

	FormPointsLast5  int
	FormPointsLast10 int

	StreakType        FormResult
	StreakLength      int
	LongestWinStreak  int
	LongestLossStreak int

	TrendShort float64 // over the last 5 outcomes
	TrendLong  float64 // over the full form window

	StrengthRating float64 // league-relative, 0..100
}

// MatchFeatures are shared fixture-level features.
type MatchFeatures struct {
	HomeRestDays      float64
	AwayRestDays      float64
	HomeMatchesLast14 int
	AwayMatchesLast14 int
	Weekend           bool

	LeagueAvgGoals      float64
	LeagueHomeAdvantage float64

	SeasonProgressPct float64 // 0..100 from the Aug 1 season start
	SeasonWeek        int     // ceil(progress% / 2.6)
}

// HeadToHeadFeatures summarize up to the last 20 meetings of the pairing,
// side-aligned to the current fixture's home/away assignment.
type HeadToHeadFeatures struct {
	Meetings     int
	HomeWins     int
	Draws        int
	AwayWins     int
	HomeGoalsAvg float64
	AwayGoalsAvg float64

	// Over the most recent 5 meetings only.
	RecentMeetings int
	RecentHomeWins int
	RecentDraws    int
	RecentAwayWins int
}

// HomeWinShare returns home wins / meetings in [0,1], 0 when no history.
func (h HeadToHeadFeatures) HomeWinShare() float64 {
	if h.Meetings == 0 {
		return 0
	}
	return float64(h.HomeWins) / float64(h.Meetings)
}

// ExternalFactors bundle auxiliary low-confidence signals. When the source is
// unavailable they default to neutral values and Placeholder is set so callers
// can tell defaults from live data.
type ExternalFactors struct {
	WeatherSeverity   float64 // 0..1, 0 = clear
	CrowdFactor       float64 // 0..1
	RefereeHomeBias   float64 // -1..1
	HomeMotivation    float64 // 0..1
	AwayMotivation    float64 // 0..1
	HomeMissingKeyPct float64 // 0..100
	AwayMissingKeyPct float64 // 0..100
	Placeholder       bool
}

// NeutralFactors returns the defined neutral defaults.
func NeutralFactors() ExternalFactors {
	return ExternalFactors{
		WeatherSeverity: 0,
		CrowdFactor:     0.5,
		RefereeHomeBias: 0,
		HomeMotivation:  0.5,
		AwayMotivation:  0.5,
		Placeholder:     true,
	}
}

// FeatureVector is the complete normalized input consumed by every strategy
// for one prediction. It is assembled once per request and never mutated.
type FeatureVector struct {
	Home     TeamFeatures
	Away     TeamFeatures
	Match    MatchFeatures
	H2H      HeadToHeadFeatures
	External ExternalFactors
}

// FeatureValue is one named numeric field of the vector.
type FeatureValue struct {
	Name  string
	Value float64
}

// Floats returns every numeric field of the vector in a fixed, documented
// order. This is the single source of truth for the vector's dimensionality:
// finiteness validation iterates it and the layered strategy's input scaling
// is defined against the same names. Changing the field set here is a breaking
// change for any fixed-size weight matrix.
func (fv *FeatureVector) Floats() []FeatureValue {
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	return []FeatureValue{
		{"home_position", float64(fv.Home.Position)},
		{"home_games_played", float64(fv.Home.GamesPlayed)},
		{"home_points_per_game", fv.Home.PointsPerGame},
		{"home_win_pct", fv.Home.WinPct},
		{"home_draw_pct", fv.Home.DrawPct},
		{"home_loss_pct", fv.Home.LossPct},
		{"home_goals_for_pg", fv.Home.GoalsForPerGame},
		{"home_goals_against_pg", fv.Home.GoalsAgainstPerGame},
		{"home_goal_diff_pg", fv.Home.GoalDiffPerGame},
		{"home_form_points_5", float64(fv.Home.FormPointsLast5)},
		{"home_form_points_10", float64(fv.Home.FormPointsLast10)},
		{"home_streak_length", float64(fv.Home.StreakLength)},
		{"home_longest_win_streak", float64(fv.Home.LongestWinStreak)},
		{"home_longest_loss_streak", float64(fv.Home.LongestLossStreak)},
		{"home_trend_short", fv.Home.TrendShort},
		{"home_trend_long", fv.Home.TrendLong},
		{"home_strength", fv.Home.StrengthRating},
		{"away_position", float64(fv.Away.Position)},
		{"away_games_played", float64(fv.Away.GamesPlayed)},
		{"away_points_per_game", fv.Away.PointsPerGame},
		{"away_win_pct", fv.Away.WinPct},
		{"away_draw_pct", fv.Away.DrawPct},
		{"away_loss_pct", fv.Away.LossPct},
		{"away_goals_for_pg", fv.Away.GoalsForPerGame},
		{"away_goals_against_pg", fv.Away.GoalsAgainstPerGame},
		{"away_goal_diff_pg", fv.Away.GoalDiffPerGame},
		{"away_form_points_5", float64(fv.Away.FormPointsLast5)},
		{"away_form_points_10", float64(fv.Away.FormPointsLast10)},
		{"away_streak_length", float64(fv.Away.StreakLength)},
		{"away_longest_win_streak", float64(fv.Away.LongestWinStreak)},
		{"away_longest_loss_streak", float64(fv.Away.LongestLossStreak)},
		{"away_trend_short", fv.Away.TrendShort},
		{"away_trend_long", fv.Away.TrendLong},
		{"away_strength", fv.Away.StrengthRating},
		{"home_rest_days", fv.Match.HomeRestDays},
		{"away_rest_days", fv.Match.AwayRestDays},
		{"home_matches_14d", float64(fv.Match.HomeMatchesLast14)},
		{"away_matches_14d", float64(fv.Match.AwayMatchesLast14)},
		{"weekend", b(fv.Match.Weekend)},
		{"league_avg_goals", fv.Match.LeagueAvgGoals},
		{"league_home_advantage", fv.Match.LeagueHomeAdvantage},
		{"season_progress_pct", fv.Match.SeasonProgressPct},
		{"season_week", float64(fv.Match.SeasonWeek)},
		{"h2h_meetings", float64(fv.H2H.Meetings)},
		{"h2h_home_wins", float64(fv.H2H.HomeWins)},
		{"h2h_draws", float64(fv.H2H.Draws)},
		{"h2h_away_wins", float64(fv.H2H.AwayWins)},
		{"h2h_home_goals_avg", fv.H2H.HomeGoalsAvg},
		{"h2h_away_goals_avg", fv.H2H.AwayGoalsAvg},
		{"h2h_recent_home_wins", float64(fv.H2H.RecentHomeWins)},
		{"h2h_recent_draws", float64(fv.H2H.RecentDraws)},
		{"h2h_recent_away_wins", float64(fv.H2H.RecentAwayWins)},
		{"weather_severity", fv.External.WeatherSeverity},
		{"crowd_factor", fv.External.CrowdFactor},
		{"referee_home_bias", fv.External.RefereeHomeBias},
		{"home_motivation", fv.External.HomeMotivation},
		{"away_motivation", fv.External.AwayMotivation},
		{"home_missing_key_pct", fv.External.HomeMissingKeyPct},
		{"away_missing_key_pct", fv.External.AwayMissingKeyPct},
	}
}
