package broker

import (
	"sync"
	"time"
)

type rateEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter throttles message sends per connection using a fixed window:
// the first send after the window expires opens a fresh window, and at most
// `limit` sends are allowed before it closes. Denied sends do not count
// toward the next window.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing `limit` messages per `window`
// for each connection id.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether connID may send another message now, counting the
// attempt when it is allowed.
func (l *RateLimiter) Allow(connID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[connID]
	if !ok || !now.Before(e.resetAt) {
		l.entries[connID] = &rateEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if e.count >= l.limit {
		return false
	}

	e.count++
	return true
}

// Forget drops the entry for a disconnected connection so the map cannot
// grow without bound.
func (l *RateLimiter) Forget(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, connID)
}
