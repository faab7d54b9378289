// internal/core/domain/breakdown.go
package domain

// ScoreBreakdown maps each scoring component to its sub-score. Total is
// always the sum of the five components, clamped into [0,100] by the
// aggregator. Integer arithmetic only.
type ScoreBreakdown struct {
	GST         int `json:"gst"`
	MCA         int `json:"mca"`
	Consistency int `json:"consistency"`
	Reddit      int `json:"reddit"`
	LinkedIn    int `json:"linkedin"`

	Total int `json:"total"`
}

// Sum recomputes the total from the components.
func (b ScoreBreakdown) Sum() int {
	return b.GST + b.MCA + b.Consistency + b.Reddit + b.LinkedIn
}

// IsConsistent reports whether Total equals the component sum and sits in
// the valid range.
func (b ScoreBreakdown) IsConsistent() bool {
	return b.Total == b.Sum() && b.Total >= 0 && b.Total <= 100
}

// Components returns the breakdown as an ordered list of (name, score)
// pairs, in canonical component order.
func (b ScoreBreakdown) Components() []ScoreComponent {
	return []ScoreComponent{
		{Name: "gst", Score: b.GST},
		{Name: "mca", Score: b.MCA},
		{Name: "consistency", Score: b.Consistency},
		{Name: "reddit", Score: b.Reddit},
		{Name: "linkedin", Score: b.LinkedIn},
	}
}

// ScoreComponent is one named entry of a breakdown.
type ScoreComponent struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}
