package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"MatchCast/internal/domain/models"
	domsvc "MatchCast/internal/domain/service"
	"MatchCast/internal/services/ensemble"
	"MatchCast/internal/services/features"
	"MatchCast/internal/services/scoring"
	"MatchCast/internal/services/stats"
)

var fixedNow = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)

type fixtureStore struct {
	teams map[string]*models.TeamSnapshot
	forms map[string][]models.FormResult
}

func (s *fixtureStore) GetTeam(_ context.Context, id string) (*models.TeamSnapshot, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, models.ErrNotFound)
	}
	return t, nil
}

func (s *fixtureStore) GetRecentOutcomes(_ context.Context, teamID string, count int) ([]models.FormResult, error) {
	form := s.forms[teamID]
	if len(form) > count {
		form = form[:count]
	}
	return form, nil
}

func (s *fixtureStore) GetRecentMatchDates(_ context.Context, teamID string, count int) ([]time.Time, error) {
	return []time.Time{fixedNow.AddDate(0, 0, -7)}, nil
}

func (s *fixtureStore) GetHeadToHead(_ context.Context, _, _ string, _ int) ([]models.Meeting, error) {
	return nil, nil
}

func (s *fixtureStore) GetLeagueAverages(_ context.Context, _ string) (models.LeagueAverages, error) {
	return models.LeagueAverages{}, models.Transient("league", fmt.Errorf("unavailable"))
}

type recordingSink struct {
	mu     sync.Mutex
	stored []*models.Prediction
	fail   bool
}

func (s *recordingSink) Store(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("sink down")
	}
	s.stored = append(s.stored, p)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

func repeat(r models.FormResult, n int) []models.FormResult {
	out := make([]models.FormResult, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func testStore() *fixtureStore {
	mid := models.TeamSnapshot{
		League: "premier_league", Points: 35, GamesPlayed: 24,
		Wins: 9, Draws: 8, Losses: 7, GoalsFor: 30, GoalsAgainst: 30,
	}
	leader := mid
	leader.ID, leader.Name, leader.Position = "leader", "Leader FC", 1
	leader.Points, leader.Wins, leader.Draws, leader.Losses = 60, 19, 3, 2
	leader.GoalsFor, leader.GoalsAgainst = 55, 15

	straggler := mid
	straggler.ID, straggler.Name, straggler.Position = "straggler", "Straggler FC", 20
	straggler.Points, straggler.Wins, straggler.Draws, straggler.Losses = 10, 2, 4, 18
	straggler.GoalsFor, straggler.GoalsAgainst = 14, 50

	twinA := mid
	twinA.ID, twinA.Name, twinA.Position = "twin_a", "Twin A", 8
	twinB := mid
	twinB.ID, twinB.Name, twinB.Position = "twin_b", "Twin B", 9

	twinForm := []models.FormResult{"W", "D", "L", "W", "D", "L", "W", "D", "L", "W"}
	return &fixtureStore{
		teams: map[string]*models.TeamSnapshot{
			"leader":    &leader,
			"straggler": &straggler,
			"twin_a":    &twinA,
			"twin_b":    &twinB,
		},
		forms: map[string][]models.FormResult{
			"leader":    repeat(models.ResultWin, 10),
			"straggler": repeat(models.ResultLoss, 10),
			"twin_a":    twinForm,
			"twin_b":    twinForm,
		},
	}
}

func newTestPredictor(t *testing.T, store *fixtureStore, sink *recordingSink) *Predictor {
	t.Helper()
	combiner, err := ensemble.New(ensemble.DefaultWeights(), 0.1)
	if err != nil {
		t.Fatalf("combiner: %v", err)
	}
	strategies := []domsvc.Strategy{
		scoring.NewCascadeStrategy(),
		scoring.NewVoteStrategy(),
		scoring.NewLayeredStrategy(),
	}
	builder := features.NewBuilder(store, features.NeutralFactorSource{}, nil,
		features.WithClock(func() time.Time { return fixedNow }))
	return NewPredictor(
		stats.NewAggregator(store), builder, strategies, combiner,
		sink, nil, nil,
		WithClock(func() time.Time { return fixedNow }),
	)
}

func waitForSink(t *testing.T, sink *recordingSink, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < want {
		if time.Now().After(deadline) {
			t.Fatalf("sink received %d predictions, want %d", sink.count(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPredictDominantHome(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPredictor(t, testStore(), sink)

	pred, err := p.Predict(context.Background(), models.PredictRequest{HomeID: "leader", AwayID: "straggler"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Result.Outcome != models.OutcomeHomeWin {
		t.Fatalf("outcome %s, want home win", pred.Result.Outcome)
	}
	if pred.Result.Confidence <= 0.5 {
		t.Fatalf("confidence %v, want above 0.5", pred.Result.Confidence)
	}
	probs := pred.Result.Probabilities
	if math.Abs(probs.HomeWin+probs.Draw+probs.AwayWin-1) > 1e-9 {
		t.Fatalf("probabilities sum %v", probs.HomeWin+probs.Draw+probs.AwayWin)
	}
	if pred.HomeName != "Leader FC" || pred.AwayName != "Straggler FC" {
		t.Fatalf("names not echoed: %+v", pred)
	}
	if len(pred.Result.Estimates) != 3 {
		t.Fatalf("expected 3 strategy estimates, got %d", len(pred.Result.Estimates))
	}
	waitForSink(t, sink, 1)
}

func TestPredictEvenMatch(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})

	pred, err := p.Predict(context.Background(), models.PredictRequest{HomeID: "twin_a", AwayID: "twin_b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Result.Outcome != models.OutcomeDraw && pred.Result.Confidence >= 0.45 {
		t.Fatalf("identical sides produced %s at %v", pred.Result.Outcome, pred.Result.Confidence)
	}
}

func TestPredictDeterministic(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})
	req := models.PredictRequest{HomeID: "leader", AwayID: "straggler"}

	a, err := p.Predict(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Predict(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Result.Outcome != b.Result.Outcome || a.Result.Probabilities != b.Result.Probabilities {
		t.Fatalf("predictions differ: %+v vs %+v", a.Result, b.Result)
	}
}

func TestPredictSelfReference(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})

	_, err := p.Predict(context.Background(), models.PredictRequest{HomeID: "leader", AwayID: "leader"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPredictUnknownTeam(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})

	_, err := p.Predict(context.Background(), models.PredictRequest{HomeID: "leader", AwayID: "ghost"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPredictBadMatchDate(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})

	_, err := p.Predict(context.Background(), models.PredictRequest{
		HomeID: "leader", AwayID: "straggler", MatchDate: "next tuesday",
	})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPredictSurvivesSinkFailure(t *testing.T) {
	sink := &recordingSink{fail: true}
	p := newTestPredictor(t, testStore(), sink)

	pred, err := p.Predict(context.Background(), models.PredictRequest{HomeID: "leader", AwayID: "straggler"})
	if err != nil {
		t.Fatalf("persistence failure leaked to caller: %v", err)
	}
	if pred == nil {
		t.Fatalf("expected prediction")
	}
}

func TestPredictBatchOrderAndIsolation(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})
	req := models.PredictBatchRequest{Requests: []models.PredictRequest{
		{HomeID: "leader", AwayID: "straggler"},
		{HomeID: "leader", AwayID: "ghost"},
		{HomeID: "twin_a", AwayID: "twin_b"},
		{HomeID: "twin_a", AwayID: "twin_a"},
		{HomeID: "straggler", AwayID: "leader"},
		{HomeID: "twin_b", AwayID: "twin_a"},
	}}

	items, err := p.PredictBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != len(req.Requests) {
		t.Fatalf("got %d items, want %d", len(items), len(req.Requests))
	}
	for i, item := range items {
		if item.Index != i {
			t.Fatalf("item %d has index %d", i, item.Index)
		}
	}
	for _, i := range []int{0, 2, 4, 5} {
		if items[i].Prediction == nil || items[i].Error != "" {
			t.Fatalf("item %d should have succeeded: %+v", i, items[i])
		}
	}
	for _, i := range []int{1, 3} {
		if items[i].Prediction != nil || items[i].Error == "" {
			t.Fatalf("item %d should have failed: %+v", i, items[i])
		}
	}
}

func TestPredictBatchSizeLimit(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})
	reqs := make([]models.PredictRequest, maxBatchSize+1)
	for i := range reqs {
		reqs[i] = models.PredictRequest{HomeID: "leader", AwayID: "straggler"}
	}

	_, err := p.PredictBatch(context.Background(), models.PredictBatchRequest{Requests: reqs})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	items, err := p.PredictBatch(context.Background(), models.PredictBatchRequest{Requests: reqs[:maxBatchSize]})
	if err != nil {
		t.Fatalf("full batch rejected: %v", err)
	}
	if len(items) != maxBatchSize {
		t.Fatalf("got %d items, want %d", len(items), maxBatchSize)
	}
}

func TestPredictEmptyBatch(t *testing.T) {
	p := newTestPredictor(t, testStore(), &recordingSink{})
	_, err := p.PredictBatch(context.Background(), models.PredictBatchRequest{})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
