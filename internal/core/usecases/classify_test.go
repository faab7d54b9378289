// internal/core/usecases/classify_test.go
package usecases

import (
	"testing"

	"legitscan/internal/core/domain"
	"legitscan/internal/platform/config"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

func newClassifier() *ClassificationEngine {
	return NewClassificationEngine(config.DefaultConfig().QualifyingRedFlags, logx.NewSilent())
}

func breakdownWithTotal(total int) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{GST: total, Total: total}
}

func TestClassify_ThresholdTable(t *testing.T) {
	e := newClassifier()

	tests := []struct {
		total      int
		class      domain.Classification
		confidence domain.Confidence
	}{
		{100, domain.ClassLegitimate, domain.ConfidenceHigh},
		{80, domain.ClassLegitimate, domain.ConfidenceHigh},
		{79, domain.ClassLikelyLegitimate, domain.ConfidenceMedium},
		{60, domain.ClassLikelyLegitimate, domain.ConfidenceMedium},
		{59, domain.ClassQuestionable, domain.ConfidenceMedium},
		{50, domain.ClassQuestionable, domain.ConfidenceMedium},
		{49, domain.ClassQuestionable, domain.ConfidenceLow},
		{40, domain.ClassQuestionable, domain.ConfidenceLow},
		{39, domain.ClassNotLegitimate, domain.ConfidenceHigh},
		{0, domain.ClassNotLegitimate, domain.ConfidenceHigh},
	}

	for _, tt := range tests {
		class, confidence := e.Classify(breakdownWithTotal(tt.total), nil, 0)
		testutil.AssertEqual(t, class, tt.class, "classification at total")
		testutil.AssertEqual(t, confidence, tt.confidence, "confidence at total")
	}
}

func TestClassify_RedFlagOverrideDowngradesOneTier(t *testing.T) {
	e := newClassifier()
	flags := []string{
		"GST status is Cancelled",
		"Company struck off the corporate register",
	}

	class, confidence := e.Classify(breakdownWithTotal(85), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassLikelyLegitimate, "downgraded from LEGITIMATE")
	testutil.AssertEqual(t, confidence, domain.ConfidenceMedium, "downgraded verdict is never HIGH confidence")

	class, _ = e.Classify(breakdownWithTotal(65), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassQuestionable, "downgraded from LIKELY_LEGITIMATE")

	class, _ = e.Classify(breakdownWithTotal(45), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassNotLegitimate, "downgraded from QUESTIONABLE")
}

func TestClassify_MismatchEscalationDowngradesOneTier(t *testing.T) {
	e := newClassifier()

	// State and year disagreements carry no red flag of their own; two of
	// them still force the verdict down a tier.
	class, confidence := e.Classify(breakdownWithTotal(90), nil, 2)
	testutil.AssertEqual(t, class, domain.ClassLikelyLegitimate, "downgraded from LEGITIMATE")
	testutil.AssertEqual(t, confidence, domain.ConfidenceMedium, "downgraded verdict is never HIGH confidence")

	class, _ = e.Classify(breakdownWithTotal(65), nil, 3)
	testutil.AssertEqual(t, class, domain.ClassQuestionable, "downgraded from LIKELY_LEGITIMATE")

	class, confidence = e.Classify(breakdownWithTotal(90), nil, 1)
	testutil.AssertEqual(t, class, domain.ClassLegitimate, "one mismatch is not enough")
	testutil.AssertEqual(t, confidence, domain.ConfidenceHigh, "confidence unchanged")

	class, _ = e.Classify(breakdownWithTotal(10), nil, 3)
	testutil.AssertEqual(t, class, domain.ClassNotLegitimate, "cannot drop below the floor")
}

func TestClassify_NotLegitimateIsTheFloor(t *testing.T) {
	e := newClassifier()
	flags := []string{"status is cancelled", "struck off", "scam reports found on Reddit (9 reports)"}

	class, confidence := e.Classify(breakdownWithTotal(10), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassNotLegitimate, "cannot drop below the floor")
	testutil.AssertEqual(t, confidence, domain.ConfidenceHigh, "floor keeps its base confidence")
}

func TestClassify_SingleQualifyingFlagDoesNotOverride(t *testing.T) {
	e := newClassifier()
	class, confidence := e.Classify(breakdownWithTotal(85), []string{"GST status is Cancelled"}, 0)
	testutil.AssertEqual(t, class, domain.ClassLegitimate, "one flag is not enough")
	testutil.AssertEqual(t, confidence, domain.ConfidenceHigh, "confidence unchanged")
}

func TestClassify_DuplicateFlagsCountOnce(t *testing.T) {
	e := newClassifier()
	flags := []string{
		"GST status is Cancelled",
		"gst status is cancelled", // same flag, different case
		"  GST status is Cancelled  ",
	}
	testutil.AssertEqual(t, e.QualifyingCount(flags), 1, "case-folded dedup")

	class, _ := e.Classify(breakdownWithTotal(85), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassLegitimate, "duplicates do not trigger the override")
}

func TestClassify_NonQualifyingFlagsIgnored(t *testing.T) {
	e := newClassifier()
	flags := []string{
		"website looks outdated",
		"no press coverage found",
	}
	testutil.AssertEqual(t, e.QualifyingCount(flags), 0, "unlisted patterns do not qualify")

	class, _ := e.Classify(breakdownWithTotal(85), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassLegitimate, "no override")
}

func TestClassify_EmptyPatternListQualifiesEverything(t *testing.T) {
	e := NewClassificationEngine(nil, logx.NewSilent())
	flags := []string{"anything at all", "something else"}

	class, _ := e.Classify(breakdownWithTotal(85), flags, 0)
	testutil.AssertEqual(t, class, domain.ClassLikelyLegitimate, "all flags qualify when no patterns configured")
}

func TestClassify_Deterministic(t *testing.T) {
	e := newClassifier()
	flags := []string{"status is cancelled", "struck off"}
	firstClass, firstConf := e.Classify(breakdownWithTotal(72), flags, 0)
	for i := 0; i < 10; i++ {
		class, conf := e.Classify(breakdownWithTotal(72), flags, 0)
		testutil.AssertEqual(t, class, firstClass, "stable classification")
		testutil.AssertEqual(t, conf, firstConf, "stable confidence")
	}
}
