// internal/core/usecases/classify.go
package usecases

import (
	"strings"

	"legitscan/internal/core/domain"
	"legitscan/internal/platform/logx"
)

// Score thresholds for the base classification table.
const (
	thresholdLegitimate   = 80
	thresholdLikely       = 60
	thresholdQuestionable = 40

	// questionableMediumFloor splits QUESTIONABLE confidence: at or above
	// this score the evidence is mixed (MEDIUM), below it thin (LOW).
	questionableMediumFloor = 50

	// overrideRedFlagCount is how many distinct qualifying red flags force
	// the verdict down a tier.
	overrideRedFlagCount = 2

	// overrideMismatchCount is how many registry attribute mismatches force
	// the verdict down a tier. State and year disagreements raise no red
	// flag of their own, so they escalate through this counter instead.
	overrideMismatchCount = 2
)

// ClassificationEngine maps a breakdown plus accumulated red flags to the
// final verdict. The base rule is the score threshold table; the override
// rule forces the verdict down at least one tier when enough qualifying red
// flags accumulate, because strong disqualifying evidence (a cancelled
// registration, say) can coexist with a high additive score.
type ClassificationEngine struct {
	// qualifyingPatterns are lower-cased substrings; a red flag containing
	// any of them counts toward the override. Operator-tunable.
	qualifyingPatterns []string
	logger             logx.Logger
}

// NewClassificationEngine builds an engine with the configured qualifying
// red-flag patterns. An empty pattern list means every red flag qualifies.
func NewClassificationEngine(qualifyingPatterns []string, logger logx.Logger) *ClassificationEngine {
	patterns := make([]string, 0, len(qualifyingPatterns))
	for _, p := range qualifyingPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return &ClassificationEngine{
		qualifyingPatterns: patterns,
		logger:             logger.With("component", "classifier"),
	}
}

// Classify returns the verdict and confidence for a breakdown, the merged
// red flags and the registry attribute mismatch count. Deterministic: same
// inputs, same verdict.
func (e *ClassificationEngine) Classify(
	breakdown domain.ScoreBreakdown,
	redFlags []string,
	mismatches int,
) (domain.Classification, domain.Confidence) {
	count := e.QualifyingCount(redFlags)
	class, confidence := classify(breakdown.Total, count, mismatches)

	e.logger.Debug("classified",
		"total", breakdown.Total,
		"qualifying_red_flags", count,
		"mismatches", mismatches,
		"classification", class,
		"confidence", confidence,
	)
	return class, confidence
}

// QualifyingCount counts the distinct red flags matching a qualifying
// pattern.
func (e *ClassificationEngine) QualifyingCount(redFlags []string) int {
	seen := make(map[string]struct{}, len(redFlags))
	count := 0
	for _, flag := range redFlags {
		f := strings.ToLower(strings.TrimSpace(flag))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		if e.matchesQualifying(f) {
			count++
		}
	}
	return count
}

func (e *ClassificationEngine) matchesQualifying(flag string) bool {
	if len(e.qualifyingPatterns) == 0 {
		return true
	}
	for _, p := range e.qualifyingPatterns {
		if strings.Contains(flag, p) {
			return true
		}
	}
	return false
}

// classify is the pure mapping from (total score, qualifying red-flag
// count, mismatch count) to (classification, confidence). Base table:
//
//	80-100  LEGITIMATE         HIGH
//	60-79   LIKELY_LEGITIMATE  MEDIUM
//	40-59   QUESTIONABLE       MEDIUM (>=50) or LOW
//	 0-39   NOT_LEGITIMATE     HIGH
//
// With redFlagCount >= 2 or mismatches >= 2 the verdict drops one tier from
// the base rule and the confidence of a downgraded verdict is never HIGH.
func classify(total, redFlagCount, mismatches int) (domain.Classification, domain.Confidence) {
	var class domain.Classification
	var confidence domain.Confidence

	switch {
	case total >= thresholdLegitimate:
		class, confidence = domain.ClassLegitimate, domain.ConfidenceHigh
	case total >= thresholdLikely:
		class, confidence = domain.ClassLikelyLegitimate, domain.ConfidenceMedium
	case total >= thresholdQuestionable:
		class = domain.ClassQuestionable
		if total >= questionableMediumFloor {
			confidence = domain.ConfidenceMedium
		} else {
			confidence = domain.ConfidenceLow
		}
	default:
		class, confidence = domain.ClassNotLegitimate, domain.ConfidenceHigh
	}

	override := redFlagCount >= overrideRedFlagCount || mismatches >= overrideMismatchCount
	if override && class != domain.ClassNotLegitimate {
		class = class.Downgrade()
		if confidence == domain.ConfidenceHigh {
			confidence = domain.ConfidenceMedium
		}
	}
	return class, confidence
}
