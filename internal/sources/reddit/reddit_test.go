// internal/sources/reddit/reddit_test.go
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

// scamThreadPage renders n comments that read like internship scam reports.
func scamThreadPage(company string, n int) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb,
			`<div class="comment"><p>%s internship is a scam, they asked for a fee upfront (report %d)</p></div>`,
			company, i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// newTestChecker stands up one server answering both the search API (POST)
// and the thread pages (GET).
func newTestChecker(t *testing.T, threadHTML string, threadCount int) *Checker {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			hits := make([]searchHit, 0, threadCount)
			for i := 0; i < threadCount; i++ {
				hits = append(hits, searchHit{
					Title:   "Acme internship discussion",
					URL:     fmt.Sprintf("%s/reddit.com/r/internships/thread%d", srv.URL, i),
					Content: "Acme internship experiences",
				})
			}
			json.NewEncoder(w).Encode(searchResponse{Results: hits})
			return
		}
		w.Write([]byte(threadHTML))
	}))
	t.Cleanup(srv.Close)

	cfg := ports.DefaultSourceConfig()
	cfg.Retries = 0
	cfg.Custom = map[string]string{
		"search_api_key": "test-key",
		"search_url":     srv.URL,
	}
	return New(cfg, logx.NewSilent())
}

func TestChecker_Metadata(t *testing.T) {
	c := New(ports.DefaultSourceConfig(), logx.NewSilent())
	testutil.AssertEqual(t, c.Name(), domain.SourceReddit, "name")
	testutil.AssertEqual(t, c.Requires(), ports.IdentifierNone, "name-based check")
	testutil.AssertNoError(t, c.Close(), "close")
}

func TestRun_NoDiscussionsIsClean(t *testing.T) {
	c := newTestChecker(t, "", 0)

	result, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Score, 20, "clean scan")
	testutil.AssertContains(t, result.GreenFlags, "No scam reports found on Reddit", "clean flag")
	testutil.AssertEqual(t, result.Detail["verdict"], string(VerdictLegit), "verdict")
}

func TestRun_ScamReportsFlipVerdict(t *testing.T) {
	c := newTestChecker(t, scamThreadPage("Acme", 10), 2)

	result, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Score, 0, "scam verdict contributes zero")
	testutil.AssertEqual(t, result.Detail["verdict"], string(VerdictScam), "verdict")
	testutil.AssertTrue(t, len(result.RedFlags) == 1, "one red flag")
	testutil.AssertContains(t, result.RedFlags[0], "Scam reports found on Reddit", "scam flag")
}

func TestRun_FewComplaintsStayLegit(t *testing.T) {
	c := newTestChecker(t, scamThreadPage("Acme", 2), 1)

	result, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertNoError(t, err, "run")

	testutil.AssertEqual(t, result.Score, 20, "below the scam threshold")
	testutil.AssertEqual(t, result.Detail["verdict"], string(VerdictLegit), "verdict")
}

func TestRun_MissingSearchKey(t *testing.T) {
	c := New(ports.DefaultSourceConfig(), logx.NewSilent())
	_, err := c.Run(context.Background(), domain.NewCompanyIdentity("Acme Solutions", "", ""))
	testutil.AssertError(t, err, "no key, no check")
}

func TestMentionsCompany(t *testing.T) {
	tests := []struct {
		text    string
		company string
		want    bool
	}{
		{"Acme Solutions ripped me off", "Acme Solutions", true},
		{"acme solutions ripped me off", "Acme Solutions", true},
		{"I interned at Acme last summer", "Acme Solutions", true}, // significant word
		{"totally unrelated rant", "Acme Solutions", false},
		{"", "Acme Solutions", false},
		{"some text", "", false},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, mentionsCompany(tt.text, tt.company), tt.want, tt.text)
	}
}

func TestCommentFilters(t *testing.T) {
	testutil.AssertTrue(t, hasScamKeywords("they never paid my stipend, total fraud"), "scam keywords")
	testutil.AssertFalse(t, hasScamKeywords("great mentorship and culture"), "clean comment")
	testutil.AssertTrue(t, isInternshipRelated("my internship stipend was delayed"), "internship keywords")
	testutil.AssertFalse(t, isInternshipRelated("their product keeps crashing"), "unrelated comment")
}

func TestExtractComments(t *testing.T) {
	page := `<html><body>
<div class="comment top"><p>first comment</p><p>second paragraph</p></div>
<div class="comment"><p>another comment</p></div>
<div class="sidebar"><p>not a comment</p></div>
</body></html>`

	comments := extractComments([]byte(page), "https://reddit.com/r/x/1")
	testutil.AssertEqual(t, len(comments), 2, "comment count")
	testutil.AssertContains(t, comments[0].Text, "first comment", "first comment text")
	testutil.AssertContains(t, comments[0].Text, "second paragraph", "paragraphs joined")
}
