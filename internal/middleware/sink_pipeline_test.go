package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"MatchCast/internal/domain/models"
)

type captureSink struct {
	mu     sync.Mutex
	stored []*models.Prediction
	fail   bool
	closed bool
}

func (s *captureSink) Store(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("sink down")
	}
	s.stored = append(s.stored, p)
	return nil
}

func (s *captureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

func prediction(league string) *models.Prediction {
	return &models.Prediction{
		HomeID: "home", AwayID: "away", League: league,
		CreatedAt: time.Now(),
	}
}

func TestPipelineFlushesToSink(t *testing.T) {
	sink := &captureSink{}
	p := NewSinkPipeline(sink, nil)
	p.Start(context.Background())
	defer p.Close()

	for i := 0; i < 5; i++ {
		if err := p.Store(context.Background(), prediction("premier_league")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("flushed %d of 5", sink.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPipelineNeverSurfacesSinkFailure(t *testing.T) {
	sink := &captureSink{fail: true}
	p := NewSinkPipeline(sink, nil, WithBufferSize(4))
	p.Start(context.Background())
	defer p.Close()

	for i := 0; i < 10; i++ {
		if err := p.Store(context.Background(), prediction("premier_league")); err != nil {
			t.Fatalf("failure leaked to caller: %v", err)
		}
	}
}

func TestPipelineThrottles(t *testing.T) {
	sink := &captureSink{}
	p := NewSinkPipeline(sink, nil, WithMaxPerSecond(1))

	// First entry consumes the only token; the rest are dropped silently.
	for i := 0; i < 3; i++ {
		if err := p.Store(context.Background(), prediction("ligue_1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if depth := len(p.bufCh); depth != 1 {
		t.Fatalf("buffer depth = %d, want 1", depth)
	}
}

func TestPipelineCloseClosesSink(t *testing.T) {
	sink := &captureSink{}
	p := NewSinkPipeline(sink, nil)
	p.Start(context.Background())

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.mu.Lock()
	closed := sink.closed
	sink.mu.Unlock()
	if !closed {
		t.Fatalf("sink not closed")
	}
}

func TestPipelineRejectsNil(t *testing.T) {
	p := NewSinkPipeline(&captureSink{}, nil)
	if err := p.Store(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil prediction")
	}
}
