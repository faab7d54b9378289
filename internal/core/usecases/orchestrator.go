// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/config"
	platerrors "legitscan/internal/platform/errors"
	"legitscan/internal/platform/logx"
)

// Orchestrator is the validation entry point. It fans out to the four
// signal-gathering checks concurrently, tolerates any subset of them
// failing, then runs the pure pipeline: consistency cross-check, score
// aggregation, classification, report assembly. The pipeline is linear with
// no retries at this layer; retries belong to the collaborators.
type Orchestrator struct {
	sources     map[domain.SourceName]ports.Source
	consistency *ConsistencyEvaluator
	aggregator  *ScoreAggregator
	classifier  *ClassificationEngine

	checkTimeout   time.Duration
	overallTimeout time.Duration
	logger         logx.Logger
}

// OrchestratorOptions configures the orchestrator.
type OrchestratorOptions struct {
	Sources []ports.Source
	Config  config.Config
	Logger  logx.Logger
}

// NewOrchestrator validates the configuration (weights summing to 100 is a
// startup invariant, not a per-request check) and wires the pipeline.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	sources := make(map[domain.SourceName]ports.Source, len(opts.Sources))
	for _, s := range opts.Sources {
		if s == nil || !s.Name().IsValid() {
			continue
		}
		sources[s.Name()] = s
	}
	if len(sources) == 0 {
		return nil, domain.ErrNoSourcesAvailable
	}

	logger := opts.Logger.With("component", "orchestrator")
	return &Orchestrator{
		sources:        sources,
		consistency:    NewConsistencyEvaluator(opts.Config.Weights, opts.Logger),
		aggregator:     NewScoreAggregator(opts.Config.Weights, opts.Logger),
		classifier:     NewClassificationEngine(opts.Config.QualifyingRedFlags, opts.Logger),
		checkTimeout:   opts.Config.CheckTimeout,
		overallTimeout: opts.Config.OverallTimeout,
		logger:         logger,
	}, nil
}

// Validate runs the full pipeline for one company. It always returns a
// complete report when the identity is well formed: collaborator failures
// are absorbed as zero-contribution results, never surfaced as errors.
func (o *Orchestrator) Validate(ctx context.Context, identity domain.CompanyIdentity) (*domain.LegitimacyReport, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := domain.NewLegitimacyReport(identity)

	o.logger.Info("validation started",
		"company", identity.Name,
		"has_gstin", identity.HasGSTIN(),
		"has_cin", identity.HasCIN(),
	)

	ctx, cancel := context.WithTimeout(ctx, o.overallTimeout)
	defer cancel()

	// Collecting: concurrent fan-out, one goroutine per eligible check.
	results := o.runChecks(ctx, identity)
	for _, name := range domain.AllSources {
		report.PerSource[name] = results[name]
		o.logger.Debug("check settled", "result", results[name].Summary())
	}

	// Evaluating consistency: only with two successful registry results.
	gst, mca := results[domain.SourceGST], results[domain.SourceMCA]
	if gst.IsSuccess() && mca.IsSuccess() {
		report.Consistency = o.consistency.Evaluate(gst.Attributes, mca.Attributes)
	}

	// Aggregating.
	agg := o.aggregator.Aggregate(results, report.Consistency)
	report.Breakdown = agg.Breakdown
	report.TotalScore = agg.Breakdown.Total
	report.GreenFlags = agg.GreenFlags
	report.RedFlags = agg.RedFlags

	// Classifying. Accumulated attribute mismatches escalate alongside the
	// qualifying red flags.
	report.Classification, report.Confidence = o.classifier.Classify(
		agg.Breakdown, agg.RedFlags, report.Consistency.MismatchCount())

	// Done.
	report.DurationSeconds = time.Since(start).Seconds()

	o.logger.Info("validation completed",
		"company", identity.Name,
		"score", report.TotalScore,
		"classification", report.Classification,
		"confidence", report.Confidence,
		"failed_sources", len(report.FailedSources()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// runChecks launches every eligible check concurrently and waits for all of
// them to settle. Each goroutine writes only its own slot; nothing is read
// until the join, so there is no race on shared state.
func (o *Orchestrator) runChecks(ctx context.Context, identity domain.CompanyIdentity) map[domain.SourceName]*domain.SourceResult {
	slots := make([]*domain.SourceResult, len(domain.AllSources))
	var wg sync.WaitGroup

	for i, name := range domain.AllSources {
		source, ok := o.sources[name]
		if !ok {
			slots[i] = domain.NewSkippedResult(name, "check not configured")
			continue
		}
		if reason, skip := skipReason(source, identity); skip {
			slots[i] = domain.NewSkippedResult(name, reason)
			continue
		}

		wg.Add(1)
		go func(i int, src ports.Source) {
			defer wg.Done()
			slots[i] = o.runCheck(ctx, src, identity)
		}(i, source)
	}
	wg.Wait()

	results := make(map[domain.SourceName]*domain.SourceResult, len(slots))
	for i, name := range domain.AllSources {
		results[name] = slots[i]
	}
	return results
}

// runCheck executes one check under its own timeout. A check that overruns
// is settled as Failed(Timeout) immediately; a late result is discarded
// (the buffered channel lets the stray goroutine finish without leaking).
func (o *Orchestrator) runCheck(ctx context.Context, source ports.Source, identity domain.CompanyIdentity) *domain.SourceResult {
	name := source.Name()
	cctx, cancel := context.WithTimeout(ctx, o.checkTimeout)
	defer cancel()

	type outcome struct {
		result *domain.SourceResult
		err    error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		result, err := source.Run(cctx, identity)
		done <- outcome{result: result, err: err}
	}()

	var result *domain.SourceResult
	select {
	case out := <-done:
		switch {
		case out.err != nil:
			result = domain.NewFailedResult(name, errorKind(out.err), out.err.Error())
		case out.result == nil || !out.result.IsValid():
			result = domain.NewFailedResult(name, domain.ErrorKindInvalidResponse, "source returned malformed result")
		default:
			result = out.result
		}
	case <-cctx.Done():
		result = domain.NewFailedResult(name, domain.ErrorKindTimeout, cctx.Err().Error())
	}

	result.Elapsed = time.Since(start)
	return result
}

// skipReason decides eligibility without invoking the collaborator, so an
// absent identifier costs no external API call.
func skipReason(source ports.Source, identity domain.CompanyIdentity) (string, bool) {
	switch source.Requires() {
	case ports.IdentifierGSTIN:
		if !identity.HasGSTIN() {
			return "no GSTIN provided", true
		}
	case ports.IdentifierCIN:
		if !identity.HasCIN() {
			return "no CIN provided", true
		}
	}
	return "", false
}

// errorKind maps a collaborator error to the failure taxonomy.
func errorKind(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domain.ErrSourceTimeout),
		platerrors.IsTimeout(err):
		return domain.ErrorKindTimeout
	case errors.Is(err, domain.ErrInvalidResponse),
		errors.Is(err, platerrors.ErrInvalidResponse):
		return domain.ErrorKindInvalidResponse
	default:
		return domain.ErrorKindUnavailable
	}
}
