package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MatchCast/internal/domain/models"
	domrepo "MatchCast/internal/domain/repository"
	domsvc "MatchCast/internal/domain/service"
	enginemetrics "MatchCast/internal/service/metrics"
	"MatchCast/internal/services/ensemble"
	"MatchCast/internal/services/features"
	"MatchCast/internal/services/stats"
	applogger "MatchCast/pkg/logger"
	"MatchCast/pkg/util"
)

const (
	// maxBatchSize bounds one batch request.
	maxBatchSize = 20
	// batchConcurrency caps fixtures predicted at once within a batch.
	batchConcurrency = 5
	// batchPause separates concurrency waves to smooth store load.
	batchPause = 50 * time.Millisecond

	// persistTimeout bounds the background sink write.
	persistTimeout = 5 * time.Second
)

// Predictor orchestrates the full pipeline: aggregate both sides, build the
// shared features, assemble the vector, fan out to every strategy, combine,
// and persist in the background.
type Predictor struct {
	aggregator *stats.Aggregator
	builder    *features.Builder
	strategies []domsvc.Strategy
	combiner   *ensemble.Combiner
	sink       domrepo.PredictionSink
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	now        func() time.Time
	timeout    time.Duration
}

type PredictorOption func(*Predictor)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) PredictorOption {
	return func(p *Predictor) { p.now = now }
}

// WithTimeout bounds one prediction's collaborator calls. Zero disables the
// bound.
func WithTimeout(d time.Duration) PredictorOption {
	return func(p *Predictor) { p.timeout = d }
}

func NewPredictor(
	aggregator *stats.Aggregator,
	builder *features.Builder,
	strategies []domsvc.Strategy,
	combiner *ensemble.Combiner,
	sink domrepo.PredictionSink,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...PredictorOption,
) *Predictor {
	p := &Predictor{
		aggregator: aggregator,
		builder:    builder,
		strategies: strategies,
		combiner:   combiner,
		sink:       sink,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict runs one fixture through the pipeline. Unknown team ids surface
// models.ErrNotFound, malformed input a models.ValidationError, store
// unavailability a models.TransientError. A single faulting strategy never
// fails the call; the result is marked degraded instead.
func (p *Predictor) Predict(ctx context.Context, req models.PredictRequest) (*models.Prediction, error) {
	started := p.now()

	mc, err := p.matchContext(req)
	if err != nil {
		p.recordError("validation")
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	homeF, awayF, homeSnap, awaySnap, err := p.aggregateSides(ctx, mc)
	if err != nil {
		p.recordError(errorKind(err))
		return nil, err
	}

	mf, h2h, ext, err := p.builder.Build(ctx, mc)
	if err != nil {
		p.recordError(errorKind(err))
		return nil, err
	}

	fv, err := features.Assemble(homeF, awayF, mf, h2h, ext)
	if err != nil {
		p.recordError("validation")
		return nil, err
	}

	estimates := p.scoreAll(ctx, fv)
	result := p.combiner.Combine(fv, estimates)

	elapsed := p.now().Sub(started)
	pred := &models.Prediction{
		HomeID:    mc.HomeID,
		HomeName:  homeSnap.Name,
		AwayID:    mc.AwayID,
		AwayName:  awaySnap.Name,
		League:    mc.League,
		KickOff:   mc.KickOff,
		Result:    result,
		ElapsedMs: elapsed.Milliseconds(),
		CreatedAt: started,
	}

	if p.metrics != nil {
		p.metrics.RecordPrediction(mc.League, result.Outcome)
		p.metrics.RecordConfidence(mc.League, result.Confidence)
		p.metrics.RecordLatency("predict", elapsed.Seconds())
	}
	p.persistAsync(pred)
	return pred, nil
}

// PredictBatch runs up to 20 fixtures, at most 5 concurrently, and returns
// per-item results in input order. Individual failures never abort siblings.
func (p *Predictor) PredictBatch(ctx context.Context, req models.PredictBatchRequest) ([]models.BatchItem, error) {
	n := len(req.Requests)
	if n == 0 {
		return nil, models.Validationf("batch: empty request list")
	}
	if n > maxBatchSize {
		return nil, models.Validationf("batch: %d requests exceeds limit %d", n, maxBatchSize)
	}

	items := make([]models.BatchItem, n)
	for wave := 0; wave < n; wave += batchConcurrency {
		end := wave + batchConcurrency
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := wave; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				pred, err := p.Predict(ctx, req.Requests[idx])
				item := models.BatchItem{Index: idx}
				if err != nil {
					item.Error = err.Error()
				} else {
					item.Prediction = pred
				}
				items[idx] = item
			}(i)
		}
		wg.Wait()
		if end < n {
			select {
			case <-ctx.Done():
				for i := end; i < n; i++ {
					items[i] = models.BatchItem{Index: i, Error: ctx.Err().Error()}
				}
				return items, nil
			case <-time.After(batchPause):
			}
		}
	}
	return items, nil
}

// matchContext validates the request and resolves the kickoff time.
func (p *Predictor) matchContext(req models.PredictRequest) (models.MatchContext, error) {
	if req.HomeID == "" || req.AwayID == "" {
		return models.MatchContext{}, models.Validationf("both home_id and away_id are required")
	}
	if req.HomeID == req.AwayID {
		return models.MatchContext{}, models.Validationf("a team cannot play itself: %s", req.HomeID)
	}
	kickOff := p.now()
	if req.MatchDate != "" {
		t, ok := util.ParseTime(req.MatchDate)
		if !ok {
			return models.MatchContext{}, models.Validationf("match_date %q: not RFC3339 or unix seconds", req.MatchDate)
		}
		kickOff = t
	}
	league := req.League
	if league == "" {
		league = "premier_league"
	}
	return models.MatchContext{
		HomeID:  req.HomeID,
		AwayID:  req.AwayID,
		League:  league,
		KickOff: kickOff,
		Venue:   req.Venue,
	}, nil
}

// aggregateSides resolves both teams concurrently.
func (p *Predictor) aggregateSides(ctx context.Context, mc models.MatchContext) (models.TeamFeatures, models.TeamFeatures, *models.TeamSnapshot, *models.TeamSnapshot, error) {
	type side struct {
		feats models.TeamFeatures
		snap  *models.TeamSnapshot
		err   error
	}
	var home, away side
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		home.feats, home.snap, home.err = p.aggregator.Aggregate(ctx, mc.HomeID)
	}()
	go func() {
		defer wg.Done()
		away.feats, away.snap, away.err = p.aggregator.Aggregate(ctx, mc.AwayID)
	}()
	wg.Wait()
	if home.err != nil {
		return models.TeamFeatures{}, models.TeamFeatures{}, nil, nil, fmt.Errorf("home %s: %w", mc.HomeID, home.err)
	}
	if away.err != nil {
		return models.TeamFeatures{}, models.TeamFeatures{}, nil, nil, fmt.Errorf("away %s: %w", mc.AwayID, away.err)
	}
	return home.feats, away.feats, home.snap, away.snap, nil
}

// scoreAll fans the vector out to every strategy concurrently and collects
// estimates in registration order.
func (p *Predictor) scoreAll(ctx context.Context, fv *models.FeatureVector) []models.StrategyEstimate {
	estimates := make([]models.StrategyEstimate, len(p.strategies))
	var wg sync.WaitGroup
	for i, s := range p.strategies {
		wg.Add(1)
		go func(idx int, strat domsvc.Strategy) {
			defer wg.Done()
			started := time.Now()
			est := strat.Score(ctx, fv)
			enginemetrics.StrategyLatency.WithLabelValues(strat.Name()).Observe(time.Since(started).Seconds())
			if est.Degraded {
				enginemetrics.StrategyDegraded.WithLabelValues(strat.Name()).Inc()
				if p.logger != nil {
					p.logger.Warn("strategy degraded to neutral estimate",
						applogger.String("strategy", strat.Name()))
				}
			}
			estimates[idx] = est
		}(i, s)
	}
	wg.Wait()
	return estimates
}

// persistAsync hands the finished prediction to the sink without blocking or
// failing the caller.
func (p *Predictor) persistAsync(pred *models.Prediction) {
	if p.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := p.sink.Store(ctx, pred); err != nil {
			if p.logger != nil {
				p.logger.Warn("prediction persistence failed",
					applogger.String("home", pred.HomeID),
					applogger.String("away", pred.AwayID),
					applogger.Error(err))
			}
			p.recordError("persist")
		}
	}()
}

func (p *Predictor) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func errorKind(err error) string {
	switch {
	case models.IsValidation(err):
		return "validation"
	case models.IsTransient(err):
		return "transient"
	default:
		return "not_found"
	}
}
