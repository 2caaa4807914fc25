package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"MatchCast/internal/domain/models"
	chpkg "MatchCast/pkg/clickhouse"
)

// ClickHouseTeamStore reads league records, form history and head-to-head
// meetings from ClickHouse. Unknown ids map to models.ErrNotFound, transport
// faults to models.TransientError.
type ClickHouseTeamStore struct {
	client *chpkg.Client
}

func NewClickHouseTeamStore(client *chpkg.Client) *ClickHouseTeamStore {
	return &ClickHouseTeamStore{client: client}
}

// Schema returns idempotent DDL for the tables this store reads and the
// prediction sink writes. Applied via Client.InitSchema at startup.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS team_snapshots (
			team_id       String,
			name          String,
			league        String,
			position      UInt16,
			points        UInt16,
			games_played  UInt16,
			wins          UInt16,
			draws         UInt16,
			losses        UInt16,
			goals_for     UInt16,
			goals_against UInt16,
			updated_at    DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY team_id`,
		`CREATE TABLE IF NOT EXISTS matches (
			match_id   String,
			league     String,
			played_at  DateTime,
			home_id    String,
			away_id    String,
			home_goals UInt8,
			away_goals UInt8
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(played_at)
		ORDER BY (league, played_at)`,
		`CREATE TABLE IF NOT EXISTS league_aggregates (
			league             String,
			avg_goals_per_game Float64,
			avg_home_advantage Float64,
			updated_at         DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY league`,
		`CREATE TABLE IF NOT EXISTS predictions (
			created_at    DateTime,
			home_id       String,
			away_id       String,
			league        String,
			kick_off      DateTime,
			outcome       String,
			p_home        Float64,
			p_draw        Float64,
			p_away        Float64,
			confidence    Float64,
			degraded      UInt8,
			strategies    UInt8,
			elapsed_ms    Int64,
			reasoning     Array(String)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (league, created_at)`,
	}
}

func (s *ClickHouseTeamStore) GetTeam(ctx context.Context, id string) (*models.TeamSnapshot, error) {
	const q = `SELECT team_id, name, league, position, points, games_played,
		wins, draws, losses, goals_for, goals_against
		FROM team_snapshots FINAL WHERE team_id = ?`

	var snap models.TeamSnapshot
	err := s.client.DB().QueryRowContext(ctx, q, id).Scan(
		&snap.ID, &snap.Name, &snap.League, &snap.Position, &snap.Points,
		&snap.GamesPlayed, &snap.Wins, &snap.Draws, &snap.Losses,
		&snap.GoalsFor, &snap.GoalsAgainst,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, classify("get team", err)
	}
	return &snap, nil
}

func (s *ClickHouseTeamStore) GetRecentOutcomes(ctx context.Context, teamID string, count int) ([]models.FormResult, error) {
	const q = `SELECT home_id, home_goals, away_goals
		FROM matches
		WHERE home_id = ? OR away_id = ?
		ORDER BY played_at DESC
		LIMIT ?`

	rows, err := s.client.DB().QueryContext(ctx, q, teamID, teamID, count)
	if err != nil {
		return nil, classify("get recent outcomes", err)
	}
	defer rows.Close()

	var out []models.FormResult
	for rows.Next() {
		var homeID string
		var hg, ag int
		if err := rows.Scan(&homeID, &hg, &ag); err != nil {
			return nil, classify("scan outcome", err)
		}
		// Align goals to the queried team's perspective.
		if homeID != teamID {
			hg, ag = ag, hg
		}
		switch {
		case hg > ag:
			out = append(out, models.ResultWin)
		case hg < ag:
			out = append(out, models.ResultLoss)
		default:
			out = append(out, models.ResultDraw)
		}
	}
	return out, rows.Err()
}

func (s *ClickHouseTeamStore) GetRecentMatchDates(ctx context.Context, teamID string, count int) ([]time.Time, error) {
	const q = `SELECT played_at FROM matches
		WHERE home_id = ? OR away_id = ?
		ORDER BY played_at DESC
		LIMIT ?`

	rows, err := s.client.DB().QueryContext(ctx, q, teamID, teamID, count)
	if err != nil {
		return nil, classify("get match dates", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, classify("scan match date", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *ClickHouseTeamStore) GetHeadToHead(ctx context.Context, homeID, awayID string, max int) ([]models.Meeting, error) {
	const q = `SELECT played_at, home_id, away_id, home_goals, away_goals
		FROM matches
		WHERE (home_id = ? AND away_id = ?) OR (home_id = ? AND away_id = ?)
		ORDER BY played_at DESC
		LIMIT ?`

	rows, err := s.client.DB().QueryContext(ctx, q, homeID, awayID, awayID, homeID, max)
	if err != nil {
		return nil, classify("get head to head", err)
	}
	defer rows.Close()

	var out []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.Date, &m.HomeID, &m.AwayID, &m.HomeGoals, &m.AwayGoals); err != nil {
			return nil, classify("scan meeting", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *ClickHouseTeamStore) GetLeagueAverages(ctx context.Context, league string) (models.LeagueAverages, error) {
	const q = `SELECT avg_goals_per_game, avg_home_advantage
		FROM league_aggregates FINAL WHERE league = ?`

	var avg models.LeagueAverages
	err := s.client.DB().QueryRowContext(ctx, q, league).Scan(&avg.AvgGoalsPerGame, &avg.AvgHomeAdvantage)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LeagueAverages{}, fmt.Errorf("league %s: %w", league, models.ErrNotFound)
	}
	if err != nil {
		return models.LeagueAverages{}, classify("get league averages", err)
	}
	return avg, nil
}

// classify separates transport/timeout faults (retryable) from genuine query
// errors.
func classify(op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.Transient(op, err)
	case errors.As(err, &netErr):
		return models.Transient(op, err)
	case errors.Is(err, sql.ErrConnDone):
		return models.Transient(op, err)
	case strings.Contains(err.Error(), "connection refused"):
		return models.Transient(op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
