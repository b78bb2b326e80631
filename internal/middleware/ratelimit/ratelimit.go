// Package ratelimit provides fixed-window request counters keyed by
// client identity.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store answers whether one more request from key fits in the current
// window.
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	count       int
	windowStart time.Time
	timer       *time.Timer
}

// MemoryStore counts requests per key over a fixed window. Entries expire
// with their window, so an idle key costs nothing after one window
// passes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryStore(limit int, window time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, exists := s.entries[key]
	if !exists || now.Sub(e.windowStart) >= s.window {
		if exists && e.timer != nil {
			e.timer.Stop()
		}
		e = &entry{windowStart: now}
		e.timer = time.AfterFunc(s.window, func() { s.cleanup(key) })
		s.entries[key] = e
	}

	if e.count >= s.limit {
		return false, nil
	}
	e.count++
	return true, nil
}

func (s *MemoryStore) cleanup(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Stop cancels all expiry timers.
func (s *MemoryStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
