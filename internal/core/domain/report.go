// internal/core/domain/report.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LegitimacyReport is the final product of a validation run. It is built
// once by the orchestrator after all checks have settled and is immutable
// from the caller's point of view. It always carries a score and a
// classification, even when some sources failed; PerSource tells the caller
// which evidence the score was computed from.
type LegitimacyReport struct {
	// ID uniquely identifies the validation run.
	ID string `json:"id"`

	Identity CompanyIdentity `json:"identity"`

	Breakdown      ScoreBreakdown `json:"score_breakdown"`
	TotalScore     int            `json:"total_score"`
	Classification Classification `json:"classification"`
	Confidence     Confidence     `json:"confidence"`

	// GreenFlags and RedFlags are deduplicated, in fixed component order
	// (GST, MCA, Consistency, Reddit, LinkedIn).
	GreenFlags []string `json:"green_flags"`
	RedFlags   []string `json:"red_flags"`

	// PerSource holds the settled result of every check, including skips
	// and failures.
	PerSource map[SourceName]*SourceResult `json:"per_source"`

	// Consistency is nil unless both registry checks succeeded.
	Consistency *ConsistencyResult `json:"consistency,omitempty"`

	GeneratedAt     time.Time `json:"generated_at"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// NewLegitimacyReport creates a report shell for the given identity.
func NewLegitimacyReport(identity CompanyIdentity) *LegitimacyReport {
	return &LegitimacyReport{
		ID:          uuid.NewString(),
		Identity:    identity,
		GreenFlags:  []string{},
		RedFlags:    []string{},
		PerSource:   make(map[SourceName]*SourceResult, len(AllSources)),
		GeneratedAt: time.Now().UTC(),
	}
}

// Result returns the settled result for a source, or nil if absent.
func (r *LegitimacyReport) Result(name SourceName) *SourceResult {
	return r.PerSource[name]
}

// FailedSources returns the names of checks that failed, in canonical order.
func (r *LegitimacyReport) FailedSources() []SourceName {
	var failed []SourceName
	for _, name := range AllSources {
		if res := r.PerSource[name]; res != nil && res.Status == StatusFailed {
			failed = append(failed, name)
		}
	}
	return failed
}

// Summary returns a loggable one-line form of the report.
func (r *LegitimacyReport) Summary() string {
	return fmt.Sprintf(
		"LegitimacyReport{company=%s, score=%d, class=%s, confidence=%s, red=%d, duration=%.2fs}",
		r.Identity.Name, r.TotalScore, r.Classification, r.Confidence,
		len(r.RedFlags), r.DurationSeconds,
	)
}
