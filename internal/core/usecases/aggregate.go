// internal/core/usecases/aggregate.go
package usecases

import (
	"legitscan/internal/core/domain"
	"legitscan/internal/platform/config"
	"legitscan/internal/platform/logx"
)

// Aggregation is the output of the score aggregator: the breakdown plus the
// merged, deduplicated flags in canonical order.
type Aggregation struct {
	Breakdown  domain.ScoreBreakdown
	GreenFlags []string
	RedFlags   []string
}

// ScoreAggregator folds the settled source results and the optional
// consistency result into a single breakdown. It is deterministic and
// order-independent: the inputs are read in canonical component order
// regardless of check completion order, and all arithmetic is integer.
type ScoreAggregator struct {
	weights config.Weights
	logger  logx.Logger
}

// NewScoreAggregator builds an aggregator for a validated weight table.
func NewScoreAggregator(weights config.Weights, logger logx.Logger) *ScoreAggregator {
	return &ScoreAggregator{
		weights: weights,
		logger:  logger.With("component", "aggregator"),
	}
}

// Aggregate sums each source's contribution (0 for Skipped/Failed) and the
// consistency sub-score (0 when absent). Each component is clamped to its
// configured maximum as a guard against a miscounting collaborator; since
// the maxima sum to 100, the total is bounded without distorting the
// sum-equals-total invariant.
func (a *ScoreAggregator) Aggregate(
	results map[domain.SourceName]*domain.SourceResult,
	consistency *domain.ConsistencyResult,
) Aggregation {
	breakdown := domain.ScoreBreakdown{
		GST:         clamp(results[domain.SourceGST].Contribution(), a.weights.GST),
		MCA:         clamp(results[domain.SourceMCA].Contribution(), a.weights.MCA),
		Consistency: clamp(consistency.Contribution(), a.weights.Consistency),
		Reddit:      clamp(results[domain.SourceReddit].Contribution(), a.weights.Reddit),
		LinkedIn:    clamp(results[domain.SourceLinkedIn].Contribution(), a.weights.LinkedIn),
	}
	breakdown.Total = breakdown.Sum()

	green, red := a.mergeFlags(results, consistency)

	a.logger.Debug("scores aggregated",
		"total", breakdown.Total,
		"green_flags", len(green),
		"red_flags", len(red),
	)
	return Aggregation{Breakdown: breakdown, GreenFlags: green, RedFlags: red}
}

// mergeFlags collects flags in the fixed ordering GST -> MCA -> Consistency
// -> Reddit -> LinkedIn, deduplicating while preserving first insertion.
func (a *ScoreAggregator) mergeFlags(
	results map[domain.SourceName]*domain.SourceResult,
	consistency *domain.ConsistencyResult,
) (green, red []string) {
	green = []string{}
	red = []string{}
	seenGreen := make(map[string]struct{})
	seenRed := make(map[string]struct{})

	appendFlags := func(greens, reds []string) {
		for _, f := range greens {
			if _, ok := seenGreen[f]; !ok {
				seenGreen[f] = struct{}{}
				green = append(green, f)
			}
		}
		for _, f := range reds {
			if _, ok := seenRed[f]; !ok {
				seenRed[f] = struct{}{}
				red = append(red, f)
			}
		}
	}

	for _, name := range []domain.SourceName{domain.SourceGST, domain.SourceMCA} {
		if r := results[name]; r.IsSuccess() {
			appendFlags(r.GreenFlags, r.RedFlags)
		}
	}
	if consistency != nil {
		appendFlags(consistency.GreenFlags, consistency.RedFlags)
	}
	for _, name := range []domain.SourceName{domain.SourceReddit, domain.SourceLinkedIn} {
		if r := results[name]; r.IsSuccess() {
			appendFlags(r.GreenFlags, r.RedFlags)
		}
	}
	return green, red
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
