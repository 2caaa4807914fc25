package repository

import (
	"context"
	"time"

	"MatchCast/internal/domain/models"
	domrepo "MatchCast/internal/domain/repository"
	"MatchCast/pkg/cache"
)

// Cache TTLs. Snapshots and history change at most once per matchday;
// league aggregates drift slower still.
const (
	teamTTL   = 5 * time.Minute
	formTTL   = 5 * time.Minute
	h2hTTL    = 30 * time.Minute
	leagueTTL = time.Hour
)

// CachedTeamStore decorates a TeamStore with read-through caching. Cache
// faults are never surfaced; the store falls through to the inner source.
type CachedTeamStore struct {
	inner domrepo.TeamStore
	cache cache.Service
}

func NewCachedTeamStore(inner domrepo.TeamStore, c cache.Service) *CachedTeamStore {
	return &CachedTeamStore{inner: inner, cache: c}
}

func (s *CachedTeamStore) GetTeam(ctx context.Context, id string) (*models.TeamSnapshot, error) {
	key := cache.GenerateKey("team", id)
	var snap models.TeamSnapshot
	if err := s.cache.Get(ctx, key, &snap); err == nil {
		return &snap, nil
	}
	got, err := s.inner.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, got, teamTTL)
	return got, nil
}

func (s *CachedTeamStore) GetRecentOutcomes(ctx context.Context, teamID string, count int) ([]models.FormResult, error) {
	key := cache.GenerateKeyWithParams("form", teamID, count)
	var form []models.FormResult
	if err := s.cache.Get(ctx, key, &form); err == nil {
		return form, nil
	}
	got, err := s.inner.GetRecentOutcomes(ctx, teamID, count)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, got, formTTL)
	return got, nil
}

func (s *CachedTeamStore) GetRecentMatchDates(ctx context.Context, teamID string, count int) ([]time.Time, error) {
	key := cache.GenerateKeyWithParams("dates", teamID, count)
	var dates []time.Time
	if err := s.cache.Get(ctx, key, &dates); err == nil {
		return dates, nil
	}
	got, err := s.inner.GetRecentMatchDates(ctx, teamID, count)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, got, formTTL)
	return got, nil
}

func (s *CachedTeamStore) GetHeadToHead(ctx context.Context, homeID, awayID string, max int) ([]models.Meeting, error) {
	key := cache.GenerateKeyWithParams("h2h", homeID, awayID, max)
	var meetings []models.Meeting
	if err := s.cache.Get(ctx, key, &meetings); err == nil {
		return meetings, nil
	}
	got, err := s.inner.GetHeadToHead(ctx, homeID, awayID, max)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, got, h2hTTL)
	return got, nil
}

func (s *CachedTeamStore) GetLeagueAverages(ctx context.Context, league string) (models.LeagueAverages, error) {
	key := cache.GenerateKey("league", league)
	var avg models.LeagueAverages
	if err := s.cache.Get(ctx, key, &avg); err == nil {
		return avg, nil
	}
	got, err := s.inner.GetLeagueAverages(ctx, league)
	if err != nil {
		return models.LeagueAverages{}, err
	}
	_ = s.cache.Set(ctx, key, got, leagueTTL)
	return got, nil
}
