package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MatchCast/internal/domain/models"
	domrepo "MatchCast/internal/domain/repository"
	"MatchCast/internal/service/ratelimit"
)

// SinkPipeline sits between the predictor and the persistence sink. It
// throttles per league, buffers when the sink is unavailable, and flushes in
// the background with backoff so a slow sink never stalls predictions.
type SinkPipeline struct {
	sink    domrepo.PredictionSink
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter

	maxPerSec float64
	bufCh     chan *models.Prediction
	stopCh    chan struct{}
	started   bool
	mu        sync.Mutex
}

type PipelineOption func(*SinkPipeline)

// WithMaxPerSecond caps accepted predictions per league per second.
func WithMaxPerSecond(n float64) PipelineOption {
	return func(p *SinkPipeline) {
		if n > 0 {
			p.maxPerSec = n
		}
	}
}

// WithBufferSize sets the in-flight buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *SinkPipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.Prediction, n)
		}
	}
}

func NewSinkPipeline(sink domrepo.PredictionSink, metrics domrepo.Metrics, opts ...PipelineOption) *SinkPipeline {
	p := &SinkPipeline{
		sink:      sink,
		metrics:   metrics,
		limiter:   ratelimit.New(),
		maxPerSec: 50,
		bufCh:     make(chan *models.Prediction, 1000),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background flusher.
func (p *SinkPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case pred := <-p.bufCh:
				if pred == nil {
					continue
				}
				if err := p.sink.Store(ctx, pred); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.recordError("sink_flush")
					time.Sleep(backoff)
					// Requeue if space; drop otherwise.
					select {
					case p.bufCh <- pred:
					default:
						p.recordError("sink_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Store accepts a prediction for eventual persistence. Throttled entries and
// buffer overflow are dropped with a metric, never an error to the caller.
func (p *SinkPipeline) Store(_ context.Context, pred *models.Prediction) error {
	if pred == nil {
		return fmt.Errorf("nil prediction")
	}
	if !p.limiter.Allow("sink:"+pred.League, p.maxPerSec, p.maxPerSec) {
		p.recordError("sink_throttle_" + pred.League)
		return nil
	}
	select {
	case p.bufCh <- pred:
		if p.metrics != nil {
			p.metrics.RecordLatency("sink_buffer_depth", float64(len(p.bufCh)))
		}
		return nil
	default:
		p.recordError("sink_buffer_full")
		return nil
	}
}

// Close stops the flusher and closes the underlying sink.
func (p *SinkPipeline) Close() error {
	p.mu.Lock()
	if p.started {
		close(p.stopCh)
		p.started = false
	}
	p.mu.Unlock()
	return p.sink.Close()
}

func (p *SinkPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}
