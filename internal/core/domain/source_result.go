// internal/core/domain/source_result.go
package domain

import (
	"fmt"
	"time"
)

// Attributes are the identifying fields a registry check extracts from its
// source. The consistency evaluator cross-checks these between the tax and
// corporate registries. Zero values mean the source did not expose the field.
type Attributes struct {
	LegalName         string `json:"legal_name,omitempty"`
	State             string `json:"state,omitempty"`
	IncorporationYear int    `json:"incorporation_year,omitempty"`
}

// SourceError carries the typed failure of a check.
type SourceError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// SourceResult is the settled outcome of a single check. It is a closed
// tagged variant over Status: Success carries a bounded sub-score, extracted
// attributes and flags; Skipped carries a reason; Failed carries a typed
// error. Skipped and Failed always contribute zero score and no flags.
type SourceResult struct {
	Source SourceName   `json:"source"`
	Status SourceStatus `json:"status"`

	// Score is the sub-score earned by a Success result, 0 otherwise.
	Score int `json:"score"`

	// Attributes are set only on Success, and only by registry checks.
	Attributes Attributes `json:"attributes,omitempty"`

	GreenFlags []string `json:"green_flags,omitempty"`
	RedFlags   []string `json:"red_flags,omitempty"`

	// SkipReason is set only on Skipped.
	SkipReason string `json:"skip_reason,omitempty"`

	// Err is set only on Failed.
	Err *SourceError `json:"error,omitempty"`

	// Detail holds source-specific evidence for the JSON artifact
	// (registration status, scam mention count, etc.). Not used by scoring.
	Detail map[string]any `json:"detail,omitempty"`

	// Elapsed is how long the check took to settle.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// NewSuccessResult builds a Success result. Negative scores are clamped to
// zero; the per-source maximum is enforced by the aggregator's config check.
func NewSuccessResult(source SourceName, score int) *SourceResult {
	if score < 0 {
		score = 0
	}
	return &SourceResult{
		Source: source,
		Status: StatusSuccess,
		Score:  score,
		Detail: make(map[string]any),
	}
}

// NewSkippedResult builds a Skipped result with the given reason.
func NewSkippedResult(source SourceName, reason string) *SourceResult {
	return &SourceResult{
		Source:     source,
		Status:     StatusSkipped,
		SkipReason: reason,
	}
}

// NewFailedResult builds a Failed result with a typed error.
func NewFailedResult(source SourceName, kind ErrorKind, message string) *SourceResult {
	return &SourceResult{
		Source: source,
		Status: StatusFailed,
		Err:    &SourceError{Kind: kind, Message: message},
	}
}

// AddGreenFlag appends a green flag. No-op on non-Success results.
func (r *SourceResult) AddGreenFlag(flag string) {
	if r.Status == StatusSuccess && flag != "" {
		r.GreenFlags = append(r.GreenFlags, flag)
	}
}

// AddRedFlag appends a red flag. No-op on non-Success results.
func (r *SourceResult) AddRedFlag(flag string) {
	if r.Status == StatusSuccess && flag != "" {
		r.RedFlags = append(r.RedFlags, flag)
	}
}

// SetDetail records source-specific evidence on a Success result.
func (r *SourceResult) SetDetail(key string, value any) {
	if r.Status != StatusSuccess {
		return
	}
	if r.Detail == nil {
		r.Detail = make(map[string]any)
	}
	r.Detail[key] = value
}

// IsSuccess reports whether the check settled successfully.
func (r *SourceResult) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}

// Contribution returns the sub-score this result adds to the total.
// Skipped and Failed contribute zero regardless of the Score field.
func (r *SourceResult) Contribution() int {
	if !r.IsSuccess() {
		return 0
	}
	return r.Score
}

// IsValid checks the variant invariants: exactly the fields of the active
// variant are populated.
func (r *SourceResult) IsValid() bool {
	if r == nil || !r.Source.IsValid() || !r.Status.IsValid() {
		return false
	}
	switch r.Status {
	case StatusSuccess:
		return r.Err == nil && r.SkipReason == "" && r.Score >= 0
	case StatusSkipped:
		return r.Score == 0 && r.Err == nil && len(r.GreenFlags) == 0 && len(r.RedFlags) == 0
	case StatusFailed:
		return r.Score == 0 && r.Err != nil && len(r.GreenFlags) == 0 && len(r.RedFlags) == 0
	}
	return false
}

// Summary returns a loggable one-line form of the result.
func (r *SourceResult) Summary() string {
	switch r.Status {
	case StatusSuccess:
		return fmt.Sprintf("%s: success score=%d green=%d red=%d", r.Source, r.Score, len(r.GreenFlags), len(r.RedFlags))
	case StatusSkipped:
		return fmt.Sprintf("%s: skipped (%s)", r.Source, r.SkipReason)
	default:
		return fmt.Sprintf("%s: failed (%s)", r.Source, r.Err)
	}
}
