// internal/sources/linkedin/linkedin_test.go
package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

// testChecker serves the same hits to all three footprint queries.
func testChecker(t *testing.T, hits []searchHit) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		testutil.AssertNoError(t, json.NewDecoder(r.Body).Decode(&req), "decode search request")
		testutil.AssertEqual(t, req.APIKey, "test-key", "api key forwarded")
		json.NewEncoder(w).Encode(searchResponse{Results: hits})
	}))
	t.Cleanup(srv.Close)

	cfg := ports.DefaultSourceConfig()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"
	cfg.Retries = 0
	return New(cfg, logx.NewSilent())
}

func TestChecker_Metadata(t *testing.T) {
	c := New(ports.DefaultSourceConfig(), logx.NewSilent())
	testutil.AssertEqual(t, c.Name(), domain.SourceLinkedIn, "name")
	testutil.AssertEqual(t, c.Requires(), ports.IdentifierNone, "name-based check")
	testutil.AssertNoError(t, c.Close(), "close")
}

func TestRun_StrongFootprint(t *testing.T) {
	c := testChecker(t, []searchHit{
		{
			Title:   "Acme Solutions | LinkedIn",
			Content: "Acme Solutions, 51-200 employees, now hiring, careers, join our team, apply now, updated 2025",
		},
		{
			Title:   "Life at Acme",
			Content: "great internship, learned a lot, supportive mentors",
		},
	})

	result, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Score, 10, "strong footprint")
	testutil.AssertEqual(t, result.Detail["strength"], string(StrengthStrong), "strength")
	testutil.AssertEqual(t, result.Detail["employee_estimate"], "51-200 employees", "employee estimate")
	testutil.AssertContains(t, result.GreenFlags, "Strong employability signals found", "strong flag")
}

func TestRun_NoFootprintStaysNeutral(t *testing.T) {
	c := testChecker(t, []searchHit{
		{Title: "Acme Solutions", Content: "a small consultancy"},
	})

	result, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Score, 5, "unknown footprint is neutral")
	testutil.AssertEqual(t, result.Detail["strength"], string(StrengthUnknown), "strength")
	testutil.AssertEqual(t, result.Detail["intern_sentiment"], "INSUFFICIENT_DATA", "no feedback seen")
	testutil.AssertLen(t, result.GreenFlags, 0, "nothing to celebrate")
}

func TestRun_MissingAPIKey(t *testing.T) {
	c := New(ports.DefaultSourceConfig(), logx.NewSilent())
	_, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertError(t, err, "no key, no check")
}

func TestFootprintStrength(t *testing.T) {
	tests := []struct {
		name    string
		signals footprintSignals
		want    Strength
	}{
		{"all four", footprintSignals{"200 employees", 5, true, "POSITIVE"}, StrengthStrong},
		{"three of four", footprintSignals{"200 employees", 5, true, "NEUTRAL"}, StrengthStrong},
		{"two of four", footprintSignals{"200 employees", 0, true, "NEUTRAL"}, StrengthModerate},
		{"one of four", footprintSignals{"", 0, true, "NEUTRAL"}, StrengthWeak},
		{"hiring below threshold", footprintSignals{"", 3, false, "NEUTRAL"}, StrengthUnknown},
		{"nothing", footprintSignals{}, StrengthUnknown},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, tt.signals.strength(), tt.want, tt.name)
	}
}

func TestExtractEmployeeCount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme | 10,001+ employees | LinkedIn", "10,001+ employees"},
		{"51-200 employees on LinkedIn", "51-200 employees"},
		{"500 Employees and counting", "500 employees"},
		{"employees are happy here", ""},
		{"no counts at all", ""},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, extractEmployeeCount(tt.in), tt.want, tt.in)
	}
}

func TestCountHiringSignals(t *testing.T) {
	testutil.AssertEqual(t, countHiringSignals("We are growing! Now hiring, apply now"), 4, "hiring-heavy snippet")
	testutil.AssertEqual(t, countHiringSignals("quarterly results announced"), 0, "no signals")
}

func TestCommentSentiment(t *testing.T) {
	testutil.AssertEqual(t, commentSentiment("great team, learned so much, supportive"), "POSITIVE", "positive snippet")
	testutil.AssertEqual(t, commentSentiment("unpaid work, total scam, avoid"), "NEGATIVE", "negative snippet")
	testutil.AssertEqual(t, commentSentiment("it was an internship"), "NEUTRAL", "neutral snippet")
}
