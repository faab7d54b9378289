// internal/platform/resilience/retryable_source_test.go
package resilience

import (
	"context"
	"testing"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

// flakySource fails a fixed number of times before succeeding.
type flakySource struct {
	failures int
	calls    int
}

func (f *flakySource) Name() domain.SourceName        { return domain.SourceGST }
func (f *flakySource) Requires() ports.IdentifierKind { return ports.IdentifierNone }
func (f *flakySource) Close() error                   { return nil }

func (f *flakySource) Run(_ context.Context, _ domain.CompanyIdentity) (*domain.SourceResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.ErrServiceUnavailable
	}
	return domain.NewSuccessResult(domain.SourceGST, 20), nil
}

func TestRetryableSource_RetriesUntilSuccess(t *testing.T) {
	inner := &flakySource{failures: 2}
	rs := NewRetryableSource(inner, 3, time.Millisecond, 2.0, nil, logx.NewSilent())

	result, err := rs.Run(context.Background(), domain.CompanyIdentity{Name: "Acme"})
	testutil.AssertNoError(t, err, "eventually succeeds")
	testutil.AssertTrue(t, result.IsSuccess(), "success result")
	testutil.AssertEqual(t, inner.calls, 3, "two failures plus the success")
}

func TestRetryableSource_ExhaustsRetries(t *testing.T) {
	inner := &flakySource{failures: 10}
	rs := NewRetryableSource(inner, 2, time.Millisecond, 2.0, nil, logx.NewSilent())

	_, err := rs.Run(context.Background(), domain.CompanyIdentity{Name: "Acme"})
	testutil.AssertErrorIs(t, err, errors.ErrServiceUnavailable, "last error surfaces")
	testutil.AssertEqual(t, inner.calls, 3, "initial attempt plus two retries")
}

func TestRetryableSource_StopsOnCancelledContext(t *testing.T) {
	inner := &flakySource{failures: 10}
	rs := NewRetryableSource(inner, 5, time.Millisecond, 2.0, nil, logx.NewSilent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rs.Run(ctx, domain.CompanyIdentity{Name: "Acme"})
	testutil.AssertError(t, err, "cancelled run errors")
	testutil.AssertTrue(t, inner.calls <= 1, "no retries after cancellation")
}

func TestRetryableSource_OpenBreakerShortCircuits(t *testing.T) {
	inner := &flakySource{failures: 10}
	cb := NewCircuitBreaker(1, time.Minute, 1)
	cb.RecordFailure() // force open

	rs := NewRetryableSource(inner, 3, time.Millisecond, 2.0, cb, logx.NewSilent())
	_, err := rs.Run(context.Background(), domain.CompanyIdentity{Name: "Acme"})
	testutil.AssertErrorIs(t, err, ErrCircuitOpen, "breaker rejects")
	testutil.AssertEqual(t, inner.calls, 0, "inner source never invoked")
}

func TestRetryableSource_DelegatesMetadata(t *testing.T) {
	inner := &flakySource{}
	rs := NewRetryableSource(inner, 0, time.Millisecond, 2.0, nil, logx.NewSilent())
	testutil.AssertEqual(t, rs.Name(), domain.SourceGST, "name passthrough")
	testutil.AssertEqual(t, rs.Requires(), ports.IdentifierNone, "requires passthrough")
	testutil.AssertNoError(t, rs.Close(), "close passthrough")
}
