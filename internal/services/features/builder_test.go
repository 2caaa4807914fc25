package features

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"MatchCast/internal/domain/models"
)

// fakeStore serves canned fixtures; individual lookups can be failed.
type fakeStore struct {
	teams    map[string]*models.TeamSnapshot
	outcomes map[string][]models.FormResult
	dates    map[string][]time.Time
	meetings []models.Meeting
	averages *models.LeagueAverages

	failH2H    bool
	failDates  bool
	failLeague bool
}

func (s *fakeStore) GetTeam(_ context.Context, id string) (*models.TeamSnapshot, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, models.ErrNotFound)
	}
	return t, nil
}

func (s *fakeStore) GetRecentOutcomes(_ context.Context, teamID string, count int) ([]models.FormResult, error) {
	form := s.outcomes[teamID]
	if len(form) > count {
		form = form[:count]
	}
	return form, nil
}

func (s *fakeStore) GetRecentMatchDates(_ context.Context, teamID string, count int) ([]time.Time, error) {
	if s.failDates {
		return nil, models.Transient("dates", fmt.Errorf("store down"))
	}
	d := s.dates[teamID]
	if len(d) > count {
		d = d[:count]
	}
	return d, nil
}

func (s *fakeStore) GetHeadToHead(_ context.Context, _, _ string, max int) ([]models.Meeting, error) {
	if s.failH2H {
		return nil, models.Transient("h2h", fmt.Errorf("store down"))
	}
	m := s.meetings
	if len(m) > max {
		m = m[:max]
	}
	return m, nil
}

func (s *fakeStore) GetLeagueAverages(_ context.Context, league string) (models.LeagueAverages, error) {
	if s.failLeague || s.averages == nil {
		return models.LeagueAverages{}, models.Transient("league", fmt.Errorf("store down"))
	}
	return *s.averages, nil
}

var kickOff = time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC) // Saturday

func matchCtx() models.MatchContext {
	return models.MatchContext{
		HomeID:  "home",
		AwayID:  "away",
		League:  "premier_league",
		KickOff: kickOff,
	}
}

func newTestBuilder(store *fakeStore) *Builder {
	return NewBuilder(store, NeutralFactorSource{}, nil, WithClock(func() time.Time { return kickOff }))
}

func TestBuildDefaultsWhenCollaboratorsFail(t *testing.T) {
	store := &fakeStore{failH2H: true, failDates: true, failLeague: true}
	b := newTestBuilder(store)

	mf, h2h, ext, err := b.Build(context.Background(), matchCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.HomeRestDays != 14 || mf.AwayRestDays != 14 {
		t.Fatalf("expected default rest days, got %+v", mf)
	}
	if mf.LeagueAvgGoals != 2.6 || mf.LeagueHomeAdvantage != 0.30 {
		t.Fatalf("expected league defaults, got %+v", mf)
	}
	if h2h.Meetings != 0 {
		t.Fatalf("expected empty head-to-head, got %+v", h2h)
	}
	if !ext.Placeholder {
		t.Fatalf("expected placeholder factors")
	}
}

func TestBuildWeekendFlag(t *testing.T) {
	b := newTestBuilder(&fakeStore{failH2H: true, failDates: true, failLeague: true})

	mf, _, _, err := b.Build(context.Background(), matchCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mf.Weekend {
		t.Fatalf("saturday fixture should be a weekend")
	}

	mc := matchCtx()
	mc.KickOff = time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC) // Wednesday
	mf, _, _, err = b.Build(context.Background(), mc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.Weekend {
		t.Fatalf("wednesday fixture should not be a weekend")
	}
}

func TestBuildRestAndCongestion(t *testing.T) {
	store := &fakeStore{
		failH2H:    true,
		failLeague: true,
		dates: map[string][]time.Time{
			"home": {
				kickOff.AddDate(0, 0, -3),
				kickOff.AddDate(0, 0, -7),
				kickOff.AddDate(0, 0, -11),
				kickOff.AddDate(0, 0, -21),
			},
			"away": {
				kickOff.AddDate(0, 0, -10),
			},
		},
	}
	b := newTestBuilder(store)

	mf, _, _, err := b.Build(context.Background(), matchCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(mf.HomeRestDays-3) > 1e-9 {
		t.Fatalf("home rest = %v, want 3", mf.HomeRestDays)
	}
	if mf.HomeMatchesLast14 != 3 {
		t.Fatalf("home congestion = %d, want 3", mf.HomeMatchesLast14)
	}
	if math.Abs(mf.AwayRestDays-10) > 1e-9 {
		t.Fatalf("away rest = %v, want 10", mf.AwayRestDays)
	}
	if mf.AwayMatchesLast14 != 1 {
		t.Fatalf("away congestion = %d, want 1", mf.AwayMatchesLast14)
	}
}

func TestHeadToHeadSideAlignment(t *testing.T) {
	// Three meetings, newest first. The current home side won all three, one
	// of them playing away.
	store := &fakeStore{
		failDates:  true,
		failLeague: true,
		meetings: []models.Meeting{
			{Date: kickOff.AddDate(0, -2, 0), HomeID: "home", AwayID: "away", HomeGoals: 2, AwayGoals: 0},
			{Date: kickOff.AddDate(0, -8, 0), HomeID: "away", AwayID: "home", HomeGoals: 1, AwayGoals: 3},
			{Date: kickOff.AddDate(-1, 0, 0), HomeID: "home", AwayID: "away", HomeGoals: 1, AwayGoals: 0},
		},
	}
	b := newTestBuilder(store)

	_, h2h, _, err := b.Build(context.Background(), matchCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h2h.Meetings != 3 || h2h.HomeWins != 3 || h2h.AwayWins != 0 {
		t.Fatalf("unexpected h2h %+v", h2h)
	}
	if h2h.HomeWinShare() != 1.0 {
		t.Fatalf("home win share = %v, want 1.0", h2h.HomeWinShare())
	}
	if math.Abs(h2h.HomeGoalsAvg-2) > 1e-9 {
		t.Fatalf("home goals avg = %v, want 2", h2h.HomeGoalsAvg)
	}
	if h2h.RecentMeetings != 3 || h2h.RecentHomeWins != 3 {
		t.Fatalf("unexpected recent counts %+v", h2h)
	}
}

func TestSeasonProgress(t *testing.T) {
	// March falls in the season that started the previous August.
	pct, week := seasonProgress(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	if pct <= 50 || pct >= 70 {
		t.Fatalf("march progress = %v, want between 50 and 70", pct)
	}
	if week != int(math.Ceil(pct/2.6)) {
		t.Fatalf("week %d does not match progress %v", week, pct)
	}

	// Early August is the start of a new season.
	pct, _ = seasonProgress(time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC))
	if pct > 1 {
		t.Fatalf("august progress = %v, want near 0", pct)
	}
}

func TestAssembleRejectsNonFinite(t *testing.T) {
	var home, away models.TeamFeatures
	home.PointsPerGame = math.NaN()

	_, err := Assemble(home, away, models.MatchFeatures{}, models.HeadToHeadFeatures{}, models.ExternalFactors{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssembleAcceptsFiniteVector(t *testing.T) {
	fv, err := Assemble(models.TeamFeatures{}, models.TeamFeatures{}, models.MatchFeatures{}, models.HeadToHeadFeatures{}, models.NeutralFactors())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fv.Floats()) == 0 {
		t.Fatalf("expected populated vector")
	}
}
