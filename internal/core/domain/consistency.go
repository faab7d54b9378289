// internal/core/domain/consistency.go
package domain

// FlagNameInconsistency is raised when the legal names extracted from the
// tax and corporate registries do not match even fuzzily. It is one of the
// default qualifying red flags for the classification override.
const FlagNameInconsistency = "name inconsistency between tax and corporate registry"

// NameMatchKind describes how the two registry legal names compared.
type NameMatchKind string

const (
	NameMatchExact    NameMatchKind = "exact"
	NameMatchFuzzy    NameMatchKind = "fuzzy"
	NameMatchMismatch NameMatchKind = "mismatch"
	NameMatchUnknown  NameMatchKind = "unknown"
)

// ConsistencyResult is the cross-check between the two registry results.
// It exists only when both registry checks settled successfully.
type ConsistencyResult struct {
	// Score is the consistency sub-score, bounded by the configured maximum.
	Score int `json:"score"`

	// NameMatch records the outcome of the legal-name comparison.
	NameMatch NameMatchKind `json:"name_match"`

	// StateMatch and YearMatch are true only when both sources exposed the
	// field and the values were equal.
	StateMatch bool `json:"state_match"`
	YearMatch  bool `json:"year_match"`

	// Mismatches counts attribute comparisons that failed outright. Two or
	// more feed the classification override.
	Mismatches int `json:"mismatches"`

	GreenFlags []string `json:"green_flags,omitempty"`
	RedFlags   []string `json:"red_flags,omitempty"`
}

// Contribution returns the sub-score of a possibly absent consistency result.
func (c *ConsistencyResult) Contribution() int {
	if c == nil {
		return 0
	}
	return c.Score
}

// MismatchCount returns the mismatch count of a possibly absent result.
func (c *ConsistencyResult) MismatchCount() int {
	if c == nil {
		return 0
	}
	return c.Mismatches
}
