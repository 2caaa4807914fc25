package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// defaultMemoryTTL bounds entries written without an expiration.
const defaultMemoryTTL = 7 * 24 * time.Hour

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

func (m *memoryItem) expired(now time.Time) bool {
	return now.After(m.expireAt)
}

// MemoryCache is an in-process Service with LRU eviction and a background
// janitor. Values are stored JSON-encoded so Get behaves like the Redis
// backend.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*memoryItem
	touched map[string]time.Time
	maxSize int
	stopCh  chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		items:   make(map[string]*memoryItem),
		touched: make(map[string]time.Time),
		maxSize: cfg.MaxSize,
		stopCh:  make(chan struct{}),
	}
	go mc.janitor(cfg.CleanupInterval)
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if len(mc.items) >= mc.maxSize {
		mc.evictOldest()
	}
	now := time.Now()
	mc.items[key] = &memoryItem{data: data, expireAt: now.Add(expiration)}
	mc.touched[key] = now
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	item, ok := mc.items[key]
	now := time.Now()
	if !ok || item.expired(now) {
		if ok {
			delete(mc.items, key)
			delete(mc.touched, key)
		}
		mc.mu.Unlock()
		return ErrCacheMiss
	}
	mc.touched[key] = now
	data := item.data
	mc.mu.Unlock()

	return json.Unmarshal(data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.items, key)
		delete(mc.touched, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	now := time.Now()
	for _, key := range keys {
		if item, ok := mc.items[key]; ok && !item.expired(now) {
			return true, nil
		}
	}
	return false, nil
}

// Close stops the janitor.
func (mc *MemoryCache) Close() error {
	select {
	case <-mc.stopCh:
	default:
		close(mc.stopCh)
	}
	return nil
}

// evictOldest removes the least recently touched entry. Caller holds mu.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, at := range mc.touched {
		if oldestKey == "" || at.Before(oldestTime) {
			oldestKey = key
			oldestTime = at
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
		delete(mc.touched, oldestKey)
	}
}

func (mc *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-mc.stopCh:
			return
		case <-ticker.C:
			mc.mu.Lock()
			now := time.Now()
			for key, item := range mc.items {
				if item.expired(now) {
					delete(mc.items, key)
					delete(mc.touched, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}
