// internal/sources/reddit/reddit.go
package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/httpclient"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
)

const (
	searchEndpoint  = "https://api.tavily.com/search"
	scraperEndpoint = "http://api.scraperapi.com"

	scoreClean   = 20
	scoreLimited = 10

	// scamThreshold is the concerning-comment count at which the
	// verdict flips from LEGIT to SCAM.
	scamThreshold = 7

	maxConcurrentScrapes = 3
)

// Verdict is the sentiment classification for a company.
type Verdict string

const (
	VerdictLegit   Verdict = "LEGIT"
	VerdictScam    Verdict = "SCAM"
	VerdictLimited Verdict = "LIMITED"
)

func init() {
	if err := registry.Global().Register(
		domain.SourceReddit,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         domain.SourceReddit,
			Description:  "Reddit scam-report sentiment scan by company name",
			Requires:     ports.IdentifierNone,
			RequiresAuth: true,
			MaxScore:     scoreClean,
		},
	); err != nil {
		logx.New().Warn("failed to register reddit source", "error", err.Error())
	}
}

// Checker scans Reddit for internship scam reports about the company. It
// searches for discussion threads, scrapes their comments through a scraping
// proxy and counts the ones that read like scam complaints. A clean scan is
// worth 20 points; at scamThreshold concerning comments the verdict flips to
// SCAM and the check contributes zero with a red flag.
type Checker struct {
	client      *httpclient.Client
	searchKey   string
	scraperKey  string
	scraperURL  string
	searchURL   string
	maxComments int
	logger      logx.Logger
}

// New creates the Reddit checker from its configuration.
func New(cfg ports.SourceConfig, logger logx.Logger) *Checker {
	scraperURL := cfg.BaseURL
	if scraperURL == "" {
		scraperURL = scraperEndpoint
	}
	searchURL := cfg.Custom["search_url"]
	if searchURL == "" {
		searchURL = searchEndpoint
	}
	maxComments := 15
	if v := cfg.Custom["max_comments"]; v != "" {
		if n := parsePositive(v); n > 0 {
			maxComments = n
		}
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout
	httpCfg.MaxRetries = cfg.Retries
	httpCfg.RateLimit = cfg.RateLimit

	return &Checker{
		client:      httpclient.New(httpCfg, logger),
		searchKey:   cfg.Custom["search_api_key"],
		scraperKey:  cfg.APIKey,
		scraperURL:  strings.TrimRight(scraperURL, "/"),
		searchURL:   searchURL,
		maxComments: maxComments,
		logger:      logger.With("source", "reddit"),
	}
}

// Name implements ports.Source.
func (c *Checker) Name() domain.SourceName {
	return domain.SourceReddit
}

// Requires implements ports.Source. The scan only needs the company name.
func (c *Checker) Requires() ports.IdentifierKind {
	return ports.IdentifierNone
}

// Run searches for scam discussions, scrapes them and settles a verdict.
func (c *Checker) Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error) {
	if c.searchKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "reddit check needs a search API key")
	}

	urls, err := c.findThreads(ctx, identity.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "reddit search for %q", identity.Name)
	}
	if len(urls) == 0 {
		// No discussions at all. Not a failure: absence of chatter is a
		// weak positive for a small company.
		result := domain.NewSuccessResult(domain.SourceReddit, scoreClean)
		result.AddGreenFlag("No scam reports found on Reddit")
		result.SetDetail("verdict", string(VerdictLegit))
		result.SetDetail("threads_scanned", 0)
		result.SetDetail("scam_comment_count", 0)
		return result, nil
	}

	comments, scanned := c.scrapeThreads(ctx, urls, identity.Name)
	return c.settle(identity.Name, comments, scanned), nil
}

// Close implements ports.Source.
func (c *Checker) Close() error {
	return nil
}

// queryTemplates are the scam-focused searches run per company.
var queryTemplates = []string{
	`site:reddit.com "%s" internship scam`,
	`site:reddit.com "%s" fake internship`,
	`site:reddit.com "%s" internship fraud money`,
	`site:reddit.com "%s" internship not paid`,
	`site:reddit.com "%s" internship warning`,
}

// findThreads searches for Reddit threads discussing the company. Each query
// contributes at most its top matching thread; duplicates are dropped.
func (c *Checker) findThreads(ctx context.Context, company string) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string

	for _, tmpl := range queryTemplates {
		query := fmt.Sprintf(tmpl, company)
		c.logger.Debug("searching", "query", query)

		var resp searchResponse
		payload := searchRequest{
			APIKey:     c.searchKey,
			Query:      query,
			MaxResults: 5,
		}
		if err := c.client.PostJSON(ctx, c.searchURL, payload, &resp, nil); err != nil {
			return nil, err
		}

		for _, hit := range resp.Results {
			if !strings.Contains(hit.URL, "reddit.com/r/") {
				continue
			}
			if !mentionsCompany(hit.URL+" "+hit.Title+" "+hit.Content, company) {
				continue
			}
			if !seen[hit.URL] {
				seen[hit.URL] = true
				urls = append(urls, hit.URL)
			}
			break // top matching hit per query only
		}
	}
	return urls, nil
}

// scrapeThreads fetches the threads concurrently through the scraping proxy
// and collects the concerning comments. Individual thread failures are
// logged and skipped; a partial scan still settles.
func (c *Checker) scrapeThreads(ctx context.Context, urls []string, company string) ([]comment, int) {
	var (
		mu       sync.Mutex
		comments []comment
		scanned  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScrapes)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			body, err := c.fetchThread(gctx, u)
			if err != nil {
				c.logger.Warn("thread scrape failed", "url", u, "error", err.Error())
				return nil // partial scan is fine
			}
			found := extractComments(body, u)

			mu.Lock()
			defer mu.Unlock()
			scanned++
			for _, cm := range found {
				if len(comments) >= c.maxComments {
					break
				}
				if mentionsCompany(cm.Text, company) && isInternshipRelated(cm.Text) && hasScamKeywords(cm.Text) {
					comments = append(comments, cm)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return comments, scanned
}

// fetchThread retrieves a Reddit thread's HTML, via the scraping proxy when
// a key is configured, directly otherwise.
func (c *Checker) fetchThread(ctx context.Context, threadURL string) ([]byte, error) {
	target := threadURL
	if c.scraperKey != "" {
		target = fmt.Sprintf("%s?api_key=%s&url=%s&render=false",
			c.scraperURL, c.scraperKey, url.QueryEscape(threadURL))
	}
	return c.client.FetchBody(ctx, target, nil)
}

// settle converts the collected comments into a settled result.
func (c *Checker) settle(company string, comments []comment, scanned int) *domain.SourceResult {
	verdict := VerdictLegit
	score := scoreClean
	switch {
	case len(comments) >= scamThreshold:
		verdict = VerdictScam
		score = 0
	case scanned == 0:
		// Threads existed but none could be read.
		verdict = VerdictLimited
		score = scoreLimited
	}

	result := domain.NewSuccessResult(domain.SourceReddit, score)
	switch verdict {
	case VerdictLegit:
		result.AddGreenFlag("No scam reports found on Reddit")
	case VerdictScam:
		result.AddRedFlag(fmt.Sprintf("Scam reports found on Reddit (%d reports)", len(comments)))
	case VerdictLimited:
		result.AddGreenFlag("Limited Reddit data available")
	}
	result.SetDetail("verdict", string(verdict))
	result.SetDetail("threads_scanned", scanned)
	result.SetDetail("scam_comment_count", len(comments))
	if len(comments) > 0 {
		samples := make([]string, 0, 5)
		for _, cm := range comments {
			if len(samples) == 5 {
				break
			}
			samples = append(samples, truncate(cm.Text, 200))
		}
		result.SetDetail("sample_comments", samples)
	}

	c.logger.Info("sentiment check settled",
		"company", company,
		"verdict", verdict,
		"comments", len(comments),
		"threads", scanned,
	)
	return result
}

// comment is one scraped Reddit comment.
type comment struct {
	Text      string
	ThreadURL string
}

// scamKeywords mark a comment as a potential scam complaint.
var scamKeywords = []string{
	"scam", "fake", "fraud", "cheat", "money", "payment", "paid", "fee",
}

// internshipKeywords keep the scan focused on internship experiences.
var internshipKeywords = []string{
	"intern", "internship", "trainee", "training program", "stipend",
	"apprentice", "placement", "campus", "fresher", "graduate program",
	"entry level", "work experience",
}

func hasScamKeywords(text string) bool {
	return containsAny(strings.ToLower(text), scamKeywords)
}

func isInternshipRelated(text string) bool {
	return containsAny(strings.ToLower(text), internshipKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// mentionsCompany reports whether text refers to the company, either by
// full name or by any significant word of a multi-word name.
func mentionsCompany(text, company string) bool {
	if text == "" || company == "" {
		return false
	}
	lower := strings.ToLower(text)
	companyLower := strings.ToLower(company)
	if strings.Contains(lower, companyLower) {
		return true
	}
	words := strings.Fields(companyLower)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len(w) > 3 && strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// extractComments pulls the text of each comment block out of a Reddit
// thread page. Both old and new Reddit mark comment containers with a
// "comment" class token.
func extractComments(body []byte, threadURL string) []comment {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	var comments []comment
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClassToken(n, "comment") {
			text := paragraphText(n)
			if text != "" {
				comments = append(comments, comment{Text: text, ThreadURL: threadURL})
			}
			return // don't descend into nested replies twice
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return comments
}

func hasClassToken(n *html.Node, token string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, t := range strings.Fields(attr.Val) {
			if t == token {
				return true
			}
		}
	}
	return false
}

// paragraphText joins the text of all <p> elements under n.
func paragraphText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if t := nodeText(n); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func parsePositive(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// searchRequest is the search API request body.
type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
