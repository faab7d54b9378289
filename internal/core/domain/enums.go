// internal/core/domain/enums.go
package domain

// SourceName identifies one of the four signal-gathering checks.
type SourceName string

const (
	// SourceGST is the government tax registry check (GSTIN lookup).
	SourceGST SourceName = "gst"

	// SourceMCA is the corporate registry check (CIN lookup via Zaubacorp).
	SourceMCA SourceName = "mca"

	// SourceReddit is the social-media sentiment check (scam mentions).
	SourceReddit SourceName = "reddit"

	// SourceLinkedIn is the professional-network presence check.
	SourceLinkedIn SourceName = "linkedin"
)

// AllSources lists the checks in canonical report order. Flag merging and
// breakdown assembly follow this ordering, never completion order.
var AllSources = []SourceName{SourceGST, SourceMCA, SourceReddit, SourceLinkedIn}

// IsValid reports whether the source name is one of the known checks.
func (n SourceName) IsValid() bool {
	switch n {
	case SourceGST, SourceMCA, SourceReddit, SourceLinkedIn:
		return true
	default:
		return false
	}
}

// String returns the string form of the source name.
func (n SourceName) String() string {
	return string(n)
}

// SourceStatus is the settlement state of a single check.
type SourceStatus string

const (
	// StatusSuccess means the check ran and produced a normalized result.
	StatusSuccess SourceStatus = "success"

	// StatusSkipped means the check was not run (missing identifier).
	StatusSkipped SourceStatus = "skipped"

	// StatusFailed means the check ran and failed; it contributes zero.
	StatusFailed SourceStatus = "failed"
)

// IsValid reports whether the status is a known settlement state.
func (s SourceStatus) IsValid() bool {
	switch s {
	case StatusSuccess, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string form of the status.
func (s SourceStatus) String() string {
	return string(s)
}

// ErrorKind classifies a failed check.
type ErrorKind string

const (
	// ErrorKindUnavailable indicates a collaborator network or API failure.
	ErrorKindUnavailable ErrorKind = "source_unavailable"

	// ErrorKindTimeout indicates the check exceeded its configured timeout.
	ErrorKindTimeout ErrorKind = "timeout"

	// ErrorKindInvalidResponse indicates the collaborator returned data
	// that could not be normalized.
	ErrorKindInvalidResponse ErrorKind = "invalid_response"
)

// String returns the string form of the error kind.
func (k ErrorKind) String() string {
	return string(k)
}

// Classification is the final legitimacy verdict.
type Classification string

const (
	ClassLegitimate       Classification = "LEGITIMATE"
	ClassLikelyLegitimate Classification = "LIKELY_LEGITIMATE"
	ClassQuestionable     Classification = "QUESTIONABLE"
	ClassNotLegitimate    Classification = "NOT_LEGITIMATE"
)

// Tier returns the ordinal rank of the classification, highest first.
// Used by the override rule to force a verdict down a tier.
func (c Classification) Tier() int {
	switch c {
	case ClassLegitimate:
		return 0
	case ClassLikelyLegitimate:
		return 1
	case ClassQuestionable:
		return 2
	default:
		return 3
	}
}

// Downgrade returns the classification one tier below the receiver.
// NOT_LEGITIMATE is the floor.
func (c Classification) Downgrade() Classification {
	switch c {
	case ClassLegitimate:
		return ClassLikelyLegitimate
	case ClassLikelyLegitimate:
		return ClassQuestionable
	default:
		return ClassNotLegitimate
	}
}

// String returns the string form of the classification.
func (c Classification) String() string {
	return string(c)
}

// Confidence expresses how strongly the evidence supports the verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// String returns the string form of the confidence level.
func (c Confidence) String() string {
	return string(c)
}
