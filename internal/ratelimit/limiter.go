// Package ratelimit implements sliding-window admission control. The
// limiter is an in-process counter with atomic consume semantics; a
// multi-instance deployment must move the bucket state to a shared store.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Result reports the outcome of one consume attempt.
type Result struct {
	OK                bool
	Remaining         int
	RetryAfterSeconds int
	Reset             time.Duration
}

type bucket struct {
	hits []time.Time
}

// Limiter tracks request timestamps per key over a sliding window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// New constructs a Limiter. A nil now func defaults to time.Now.
func New(now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// Consume records a hit for key unless the window is full. When rejected,
// RetryAfterSeconds is the time until the oldest hit leaves the window,
// rounded up, minimum 1.
func (l *Limiter) Consume(key string, limit int, window time.Duration) Result {
	if l == nil || limit <= 0 || window <= 0 {
		return Result{OK: true, Remaining: limit}
	}

	now := l.now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}

	// Prune hits that fell out of the window.
	kept := b.hits[:0]
	for _, t := range b.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.hits = kept

	if len(b.hits) >= limit {
		oldest := b.hits[0]
		reset := oldest.Add(window).Sub(now)
		if reset < 0 {
			reset = 0
		}
		retryAfter := int(math.Ceil(reset.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Result{RetryAfterSeconds: retryAfter, Reset: reset}
	}

	b.hits = append(b.hits, now)
	remaining := limit - len(b.hits)
	if remaining < 0 {
		remaining = 0
	}

	oldest := b.hits[0]
	reset := oldest.Add(window).Sub(now)
	if reset < 0 {
		reset = 0
	}
	return Result{OK: true, Remaining: remaining, Reset: reset}
}

// Clear drops all bucket state. Test helper.
func (l *Limiter) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string]*bucket)
}
