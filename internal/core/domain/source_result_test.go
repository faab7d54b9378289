// internal/core/domain/source_result_test.go
package domain

import (
	"testing"

	"legitscan/internal/testutil"
)

func TestSourceResult_Variants(t *testing.T) {
	success := NewSuccessResult(SourceGST, 25)
	skipped := NewSkippedResult(SourceMCA, "no CIN provided")
	failed := NewFailedResult(SourceReddit, ErrorKindTimeout, "deadline exceeded")

	testutil.AssertTrue(t, success.IsValid(), "success variant valid")
	testutil.AssertTrue(t, skipped.IsValid(), "skipped variant valid")
	testutil.AssertTrue(t, failed.IsValid(), "failed variant valid")

	testutil.AssertEqual(t, success.Contribution(), 25, "success contributes its score")
	testutil.AssertEqual(t, skipped.Contribution(), 0, "skipped contributes zero")
	testutil.AssertEqual(t, failed.Contribution(), 0, "failed contributes zero")
}

func TestSourceResult_NegativeScoreClamped(t *testing.T) {
	r := NewSuccessResult(SourceLinkedIn, -5)
	testutil.AssertEqual(t, r.Score, 0, "negative score clamped to zero")
	testutil.AssertTrue(t, r.IsValid(), "still a valid success")
}

func TestSourceResult_FlagsOnlyOnSuccess(t *testing.T) {
	skipped := NewSkippedResult(SourceGST, "no GSTIN provided")
	skipped.AddGreenFlag("should not stick")
	skipped.AddRedFlag("should not stick")
	testutil.AssertLen(t, skipped.GreenFlags, 0, "skipped accepts no green flags")
	testutil.AssertLen(t, skipped.RedFlags, 0, "skipped accepts no red flags")

	failed := NewFailedResult(SourceGST, ErrorKindUnavailable, "down")
	failed.AddRedFlag("should not stick")
	failed.SetDetail("key", "value")
	testutil.AssertLen(t, failed.RedFlags, 0, "failed accepts no red flags")
	testutil.AssertNil(t, failed.Detail["key"], "failed accepts no detail")

	success := NewSuccessResult(SourceGST, 10)
	success.AddGreenFlag("registered")
	success.AddGreenFlag("") // empty flags dropped
	testutil.AssertLen(t, success.GreenFlags, 1, "success keeps non-empty flags")
}

func TestSourceResult_InvalidShapes(t *testing.T) {
	tests := []struct {
		name   string
		result *SourceResult
	}{
		{"unknown source", &SourceResult{Source: "whois", Status: StatusSuccess}},
		{"unknown status", &SourceResult{Source: SourceGST, Status: "pending"}},
		{"failed without error", &SourceResult{Source: SourceGST, Status: StatusFailed}},
		{"skipped with score", &SourceResult{Source: SourceGST, Status: StatusSkipped, Score: 5}},
		{
			"success with error",
			&SourceResult{Source: SourceGST, Status: StatusSuccess, Err: &SourceError{Kind: ErrorKindTimeout}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertFalse(t, tt.result.IsValid(), "variant invariant violated")
		})
	}
}

func TestClassification_TierAndDowngrade(t *testing.T) {
	testutil.AssertEqual(t, ClassLegitimate.Downgrade(), ClassLikelyLegitimate, "legitimate downgrades")
	testutil.AssertEqual(t, ClassLikelyLegitimate.Downgrade(), ClassQuestionable, "likely downgrades")
	testutil.AssertEqual(t, ClassQuestionable.Downgrade(), ClassNotLegitimate, "questionable downgrades")
	testutil.AssertEqual(t, ClassNotLegitimate.Downgrade(), ClassNotLegitimate, "floor stays put")

	testutil.AssertTrue(t, ClassLegitimate.Tier() < ClassNotLegitimate.Tier(), "tier ordering")
}
