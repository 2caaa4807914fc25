package ratelimit

import (
	"sync"
	"time"
)

// pruneAfter drops buckets idle longer than this so one-off keys (short-lived
// leagues, ad hoc sink labels) do not accumulate forever.
const pruneAfter = 10 * time.Minute

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Each key refills independently at the rate
// passed to Allow, so callers can throttle per league or per sink label with
// one shared instance.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	pruned  time.Time
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket), pruned: time.Now()}
}

// Allow consumes one token for key if available. A new key starts full.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, last: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * refillPerSec
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.last = now

	if now.Sub(l.pruned) > pruneAfter {
		l.prune(now)
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) prune(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.last) > pruneAfter {
			delete(l.buckets, k)
		}
	}
	l.pruned = now
}
