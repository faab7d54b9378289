// internal/core/usecases/consistency.go
package usecases

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"legitscan/internal/core/domain"
	"legitscan/internal/platform/config"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/validator"
)

// tokenOverlapThreshold is the minimum shared-token ratio for two legal
// names to count as a fuzzy match.
const tokenOverlapThreshold = 0.5

// ConsistencyEvaluator cross-checks the identifying attributes extracted by
// the two registry sources. It only runs when both registry checks settled
// successfully; the orchestrator enforces that.
type ConsistencyEvaluator struct {
	nameWeight  int
	stateWeight int
	yearWeight  int
	logger      logx.Logger
}

// NewConsistencyEvaluator derives the name/state/year sub-weights from the
// configured consistency maximum.
func NewConsistencyEvaluator(weights config.Weights, logger logx.Logger) *ConsistencyEvaluator {
	name, state, year := weights.ConsistencySplit()
	return &ConsistencyEvaluator{
		nameWeight:  name,
		stateWeight: state,
		yearWeight:  year,
		logger:      logger.With("component", "consistency"),
	}
}

// Evaluate compares the tax-registry attributes against the corporate-
// registry attributes and produces the consistency sub-score and flags.
func (e *ConsistencyEvaluator) Evaluate(tax, corporate domain.Attributes) *domain.ConsistencyResult {
	result := &domain.ConsistencyResult{NameMatch: domain.NameMatchUnknown}

	e.evaluateName(tax.LegalName, corporate.LegalName, result)
	e.evaluateState(tax.State, corporate.State, result)
	e.evaluateYear(tax.IncorporationYear, corporate.IncorporationYear, result)

	e.logger.Debug("consistency evaluated",
		"score", result.Score,
		"name_match", result.NameMatch,
		"mismatches", result.Mismatches,
	)
	return result
}

// MaxScore returns the consistency maximum the evaluator was built with.
func (e *ConsistencyEvaluator) MaxScore() int {
	return e.nameWeight + e.stateWeight + e.yearWeight
}

func (e *ConsistencyEvaluator) evaluateName(taxName, corpName string, result *domain.ConsistencyResult) {
	a := validator.NormalizeCompanyName(taxName)
	b := validator.NormalizeCompanyName(corpName)

	// One registry not exposing a legal name is missing evidence, not an
	// inconsistency: contribute nothing and raise nothing.
	if a == "" || b == "" {
		result.NameMatch = domain.NameMatchUnknown
		return
	}

	switch {
	case a == b:
		result.NameMatch = domain.NameMatchExact
		result.Score += e.nameWeight
		result.GreenFlags = append(result.GreenFlags, "legal name matches between tax and corporate registry")
	case namesCloselyMatch(a, b):
		result.NameMatch = domain.NameMatchFuzzy
		result.Score += e.nameWeight / 2
		result.GreenFlags = append(result.GreenFlags, "legal names are a close match between tax and corporate registry")
	default:
		result.NameMatch = domain.NameMatchMismatch
		result.Mismatches++
		result.RedFlags = append(result.RedFlags, domain.FlagNameInconsistency)
	}
}

func (e *ConsistencyEvaluator) evaluateState(taxState, corpState string, result *domain.ConsistencyResult) {
	a := validator.NormalizeState(taxState)
	b := validator.NormalizeState(corpState)
	if a == "" || b == "" {
		return
	}
	if a == b {
		result.StateMatch = true
		result.Score += e.stateWeight
		result.GreenFlags = append(result.GreenFlags, "registered state matches between tax and corporate registry")
	} else {
		result.Mismatches++
	}
}

func (e *ConsistencyEvaluator) evaluateYear(taxYear, corpYear int, result *domain.ConsistencyResult) {
	if taxYear == 0 || corpYear == 0 {
		return
	}
	if taxYear == corpYear {
		result.YearMatch = true
		result.Score += e.yearWeight
		result.GreenFlags = append(result.GreenFlags, "incorporation year matches between tax and corporate registry")
	} else {
		result.Mismatches++
	}
}

// namesCloselyMatch reports whether two normalized legal names are close
// enough to count as the same company: containment, a case-folded fuzzy
// subsequence match, or sufficient token overlap.
func namesCloselyMatch(a, b string) bool {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	if fuzzy.MatchNormalizedFold(a, b) || fuzzy.MatchNormalizedFold(b, a) {
		return true
	}
	return tokenOverlap(a, b) >= tokenOverlapThreshold
}

// tokenOverlap returns the ratio of shared tokens to the smaller token set.
func tokenOverlap(a, b string) float64 {
	at := validator.NameTokens(a)
	bt := validator.NameTokens(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(at))
	for _, t := range at {
		set[t] = struct{}{}
	}
	shared := 0
	for _, t := range bt {
		if _, ok := set[t]; ok {
			shared++
		}
	}
	smaller := len(at)
	if len(bt) < smaller {
		smaller = len(bt)
	}
	return float64(shared) / float64(smaller)
}
