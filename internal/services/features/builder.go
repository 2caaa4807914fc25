package features

import (
	"context"
	"math"
	"time"

	"MatchCast/internal/domain/models"
	domrepo "MatchCast/internal/domain/repository"
	domsvc "MatchCast/internal/domain/service"
	applogger "MatchCast/pkg/logger"
)

const (
	// defaultRestDays applies when a team has no prior completed match.
	defaultRestDays = 14
	// congestionWindow is the trailing window for fixture-congestion counts.
	congestionWindow = 14 * 24 * time.Hour
	// h2hWindow bounds the head-to-head history considered.
	h2hWindow = 20
	// h2hRecent bounds the recent-meetings sub-counts.
	h2hRecent = 5

	// Fallbacks when the league-aggregate collaborator is unavailable.
	defaultLeagueAvgGoals = 2.6
	defaultHomeAdvantage  = 0.30
)

// Builder computes match-level, head-to-head and external-factor features
// for a fixture. Only entity lookups are critical; every other collaborator
// degrades to defined defaults.
type Builder struct {
	store   domrepo.TeamStore
	factors domsvc.FactorSource
	logger  *applogger.Logger
	now     func() time.Time
}

type BuilderOption func(*Builder)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(store domrepo.TeamStore, factors domsvc.FactorSource, logger *applogger.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{store: store, factors: factors, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the shared fixture features. It never fails due to missing
// head-to-head history or unavailable auxiliary collaborators.
func (b *Builder) Build(ctx context.Context, mc models.MatchContext) (models.MatchFeatures, models.HeadToHeadFeatures, models.ExternalFactors, error) {
	kickOff := mc.KickOff
	if kickOff.IsZero() {
		kickOff = b.now()
	}

	mf := models.MatchFeatures{
		Weekend:             isWeekend(kickOff),
		LeagueAvgGoals:      defaultLeagueAvgGoals,
		LeagueHomeAdvantage: defaultHomeAdvantage,
	}
	mf.HomeRestDays, mf.HomeMatchesLast14 = b.schedule(ctx, mc.HomeID, kickOff)
	mf.AwayRestDays, mf.AwayMatchesLast14 = b.schedule(ctx, mc.AwayID, kickOff)
	mf.SeasonProgressPct, mf.SeasonWeek = seasonProgress(kickOff)

	if avg, err := b.store.GetLeagueAverages(ctx, mc.League); err != nil {
		b.warn("league averages unavailable, using defaults", mc.League, err)
	} else {
		mf.LeagueAvgGoals = avg.AvgGoalsPerGame
		mf.LeagueHomeAdvantage = avg.AvgHomeAdvantage
	}

	h2h := b.headToHead(ctx, mc)

	ext := models.NeutralFactors()
	if b.factors != nil {
		if got, err := b.factors.Factors(ctx, mc); err != nil {
			b.warn("external factors unavailable, using neutral defaults", mc.League, err)
		} else {
			ext = got
		}
	}

	return mf, h2h, ext, nil
}

// schedule returns rest days before kickOff and the count of matches inside
// the trailing congestion window. No prior match yields the default rest.
func (b *Builder) schedule(ctx context.Context, teamID string, kickOff time.Time) (float64, int) {
	dates, err := b.store.GetRecentMatchDates(ctx, teamID, 10)
	if err != nil {
		b.warn("recent match dates unavailable", teamID, err)
		return defaultRestDays, 0
	}

	rest := float64(defaultRestDays)
	congested := 0
	windowStart := kickOff.Add(-congestionWindow)
	seenPrior := false
	for _, d := range dates {
		if !d.Before(kickOff) {
			continue
		}
		if !seenPrior {
			rest = kickOff.Sub(d).Hours() / 24
			seenPrior = true
		}
		if d.After(windowStart) {
			congested++
		}
	}
	return rest, congested
}

// headToHead summarizes up to the last 20 meetings, aligned to the current
// pairing's home/away assignment. Missing history is a defined zero case.
func (b *Builder) headToHead(ctx context.Context, mc models.MatchContext) models.HeadToHeadFeatures {
	meetings, err := b.store.GetHeadToHead(ctx, mc.HomeID, mc.AwayID, h2hWindow)
	if err != nil {
		b.warn("head-to-head unavailable, using empty history", mc.HomeID, err)
		return models.HeadToHeadFeatures{}
	}
	if len(meetings) == 0 {
		return models.HeadToHeadFeatures{}
	}
	if len(meetings) > h2hWindow {
		meetings = meetings[:h2hWindow]
	}

	h := models.HeadToHeadFeatures{Meetings: len(meetings)}
	homeGoals, awayGoals := 0, 0
	for i, m := range meetings {
		// Goals for the current fixture's home side, whichever venue the
		// historical meeting was played at.
		hg, ag := m.HomeGoals, m.AwayGoals
		if m.HomeID != mc.HomeID {
			hg, ag = ag, hg
		}
		homeGoals += hg
		awayGoals += ag

		recent := i < h2hRecent
		switch {
		case hg > ag:
			h.HomeWins++
			if recent {
				h.RecentHomeWins++
			}
		case hg < ag:
			h.AwayWins++
			if recent {
				h.RecentAwayWins++
			}
		default:
			h.Draws++
			if recent {
				h.RecentDraws++
			}
		}
		if recent {
			h.RecentMeetings++
		}
	}
	n := float64(len(meetings))
	h.HomeGoalsAvg = float64(homeGoals) / n
	h.AwayGoalsAvg = float64(awayGoals) / n
	return h
}

// seasonProgress measures elapsed season as a fraction of a 365-day year
// from the fixed August 1 season start, as a percentage, and the derived
// season week = ceil(progress% / 2.6).
func seasonProgress(at time.Time) (float64, int) {
	start := time.Date(at.Year(), time.August, 1, 0, 0, 0, 0, at.Location())
	if at.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	pct := at.Sub(start).Hours() / 24 / 365 * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, int(math.Ceil(pct / 2.6))
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (b *Builder) warn(msg, subject string, err error) {
	if b.logger == nil {
		return
	}
	b.logger.Warn(msg, applogger.String("subject", subject), applogger.Error(err))
}
