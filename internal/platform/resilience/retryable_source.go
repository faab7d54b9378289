// internal/platform/resilience/retryable_source.go
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/logx"
)

// RetryableSource wraps a check with retry and circuit-breaker logic. This
// is where retries live; the orchestrator above never retries.
type RetryableSource struct {
	source            ports.Source
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	circuitBreaker    *CircuitBreaker
	logger            logx.Logger
}

// NewRetryableSource wraps source. cb may be nil to disable the breaker.
func NewRetryableSource(
	source ports.Source,
	maxRetries int,
	backoffBase time.Duration,
	backoffMultiplier float64,
	cb *CircuitBreaker,
	logger logx.Logger,
) *RetryableSource {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoffBase <= 0 {
		backoffBase = 1 * time.Second
	}
	if backoffMultiplier < 1.0 {
		backoffMultiplier = 2.0
	}
	return &RetryableSource{
		source:            source,
		maxRetries:        maxRetries,
		backoffBase:       backoffBase,
		backoffMultiplier: backoffMultiplier,
		circuitBreaker:    cb,
		logger:            logger.With("component", "retryable-source", "source", source.Name()),
	}
}

// Name returns the wrapped source's name.
func (r *RetryableSource) Name() domain.SourceName {
	return r.source.Name()
}

// Requires returns the wrapped source's identifier requirement.
func (r *RetryableSource) Requires() ports.IdentifierKind {
	return r.source.Requires()
}

// Run executes the wrapped source, retrying transient failures with
// exponential backoff. A settled Skipped result is returned as-is; only
// errors are retried.
func (r *RetryableSource) Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error) {
	if r.circuitBreaker != nil && !r.circuitBreaker.Allow() {
		r.logger.Warn("circuit breaker open, skipping source")
		return nil, fmt.Errorf("source %s: %w", r.source.Name(), ErrCircuitOpen)
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.logger.Info("retrying source", "attempt", attempt, "max_retries", r.maxRetries)
			if err := r.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		result, err := r.source.Run(ctx, identity)
		if err == nil {
			if r.circuitBreaker != nil {
				r.circuitBreaker.RecordSuccess()
			}
			return result, nil
		}

		lastErr = err
		if r.circuitBreaker != nil {
			r.circuitBreaker.RecordFailure()
		}
		if ctx.Err() != nil {
			// Context gone; retrying cannot help.
			break
		}
	}

	return nil, lastErr
}

// Close closes the wrapped source.
func (r *RetryableSource) Close() error {
	return r.source.Close()
}

func (r *RetryableSource) backoff(ctx context.Context, attempt int) error {
	d := time.Duration(float64(r.backoffBase) * math.Pow(r.backoffMultiplier, float64(attempt-1)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
