// Package rate provides a token bucket limiter used to pace requests
// against the upstream registries and scraping APIs.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. Tokens refill at a fixed rate up to the burst
// capacity; Wait blocks until a token is available or the context ends.
type Limiter struct {
	rate   float64 // tokens per second
	burst  int
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// New creates a limiter allowing ratePerSecond operations with the given
// burst capacity. Non-positive arguments fall back to 1.
func New(ratePerSecond float64, burst int) *Limiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   ratePerSecond,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait blocks until an operation may proceed or ctx is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.nextToken()):
		}
	}
}

// Allow consumes a token if one is available, without blocking.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// nextToken returns how long until a token will be available.
func (l *Limiter) nextToken() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advance(time.Now())
	if l.tokens >= 1 {
		return 0
	}
	missing := 1.0 - l.tokens
	return time.Duration(missing / l.rate * float64(time.Second))
}

// advance refills tokens for the elapsed time. Caller holds l.mu.
func (l *Limiter) advance(now time.Time) {
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}
