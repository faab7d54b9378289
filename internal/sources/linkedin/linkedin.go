// internal/sources/linkedin/linkedin.go
package linkedin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/httpclient"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
)

const searchEndpoint = "https://api.tavily.com/search"

// Strength grades the company's professional-network footprint.
type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
	StrengthWeak     Strength = "WEAK"
	StrengthUnknown  Strength = "UNKNOWN"
)

// strengthScores maps footprint strength to sub-score. UNKNOWN stays
// neutral rather than punishing companies with thin public profiles.
var strengthScores = map[Strength]int{
	StrengthStrong:   10,
	StrengthModerate: 7,
	StrengthWeak:     4,
	StrengthUnknown:  5,
}

func init() {
	if err := registry.Global().Register(
		domain.SourceLinkedIn,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         domain.SourceLinkedIn,
			Description:  "Professional-network presence check by company name",
			Requires:     ports.IdentifierNone,
			RequiresAuth: true,
			MaxScore:     strengthScores[StrengthStrong],
		},
	); err != nil {
		logx.New().Warn("failed to register linkedin source", "error", err.Error())
	}
}

// Checker grades the company's employability footprint from public web
// search snippets: LinkedIn employee counts, hiring signals, recent activity
// and intern feedback sentiment. No login, snippets only.
type Checker struct {
	client   *httpclient.Client
	apiKey   string
	endpoint string
	logger   logx.Logger
}

// New creates the LinkedIn checker from its configuration.
func New(cfg ports.SourceConfig, logger logx.Logger) *Checker {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = searchEndpoint
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout
	httpCfg.MaxRetries = cfg.Retries
	httpCfg.RateLimit = cfg.RateLimit

	return &Checker{
		client:   httpclient.New(httpCfg, logger),
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		logger:   logger.With("source", "linkedin"),
	}
}

// Name implements ports.Source.
func (c *Checker) Name() domain.SourceName {
	return domain.SourceLinkedIn
}

// Requires implements ports.Source. The check only needs the company name.
func (c *Checker) Requires() ports.IdentifierKind {
	return ports.IdentifierNone
}

// Run gathers footprint signals and settles a graded result.
func (c *Checker) Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "linkedin check needs a search API key")
	}

	signals, err := c.gatherSignals(ctx, identity.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "linkedin research for %q", identity.Name)
	}

	strength := signals.strength()
	score := strengthScores[strength]

	result := domain.NewSuccessResult(domain.SourceLinkedIn, score)
	switch strength {
	case StrengthStrong:
		result.AddGreenFlag("Strong employability signals found")
	case StrengthModerate:
		result.AddGreenFlag("Moderate employability signals found")
	case StrengthWeak:
		result.AddGreenFlag("Weak employability signals found")
	}
	result.SetDetail("strength", string(strength))
	if signals.employeeEstimate != "" {
		result.SetDetail("employee_estimate", signals.employeeEstimate)
	}
	result.SetDetail("hiring_signal_count", signals.hiringSignals)
	result.SetDetail("recent_activity", signals.recentActivity)
	result.SetDetail("intern_sentiment", signals.internSentiment)

	c.logger.Info("presence check settled",
		"company", identity.Name,
		"strength", strength,
		"score", score,
	)
	return result, nil
}

// Close implements ports.Source.
func (c *Checker) Close() error {
	return nil
}

// footprintSignals are the independent evidence bits the grade is built on.
type footprintSignals struct {
	employeeEstimate string
	hiringSignals    int
	recentActivity   bool
	internSentiment  string // POSITIVE, NEGATIVE, NEUTRAL, INSUFFICIENT_DATA
}

// strength counts the strong signals: employee data found, more than three
// hiring mentions, recent activity, positive intern sentiment.
func (s footprintSignals) strength() Strength {
	strong := 0
	if s.employeeEstimate != "" {
		strong++
	}
	if s.hiringSignals > 3 {
		strong++
	}
	if s.recentActivity {
		strong++
	}
	if s.internSentiment == "POSITIVE" {
		strong++
	}

	switch {
	case strong >= 3:
		return StrengthStrong
	case strong >= 2:
		return StrengthModerate
	case strong >= 1:
		return StrengthWeak
	default:
		return StrengthUnknown
	}
}

// gatherSignals runs the footprint searches and accumulates the evidence.
func (c *Checker) gatherSignals(ctx context.Context, company string) (footprintSignals, error) {
	var signals footprintSignals

	queries := []string{
		fmt.Sprintf(`site:linkedin.com/company "%s" employees`, company),
		fmt.Sprintf(`"%s" hiring careers jobs`, company),
		fmt.Sprintf(`"%s" internship experience review`, company),
	}

	var positive, negative int
	for i, query := range queries {
		c.logger.Debug("searching", "query", query)

		var resp searchResponse
		payload := searchRequest{APIKey: c.apiKey, Query: query, MaxResults: 10}
		if err := c.client.PostJSON(ctx, c.endpoint, payload, &resp, nil); err != nil {
			return signals, err
		}

		for _, hit := range resp.Results {
			text := hit.Title + " " + hit.Content
			if signals.employeeEstimate == "" {
				signals.employeeEstimate = extractEmployeeCount(text)
			}
			signals.hiringSignals += countHiringSignals(text)
			if !signals.recentActivity && mentionsRecentActivity(text) {
				signals.recentActivity = true
			}
			if i == 2 { // intern feedback query
				switch commentSentiment(text) {
				case "POSITIVE":
					positive++
				case "NEGATIVE":
					negative++
				}
			}
		}
	}

	switch {
	case positive > negative*2:
		signals.internSentiment = "POSITIVE"
	case negative > positive*2:
		signals.internSentiment = "NEGATIVE"
	case positive > 0 || negative > 0:
		signals.internSentiment = "NEUTRAL"
	default:
		signals.internSentiment = "INSUFFICIENT_DATA"
	}
	return signals, nil
}

// employeeCountRegex matches LinkedIn-style employee counts such as
// "10,001+ employees" or "51-200 employees".
var employeeCountRegex = regexp.MustCompile(`(?i)([\d,]+(?:-[\d,]+)?\+?)\s*employees`)

func extractEmployeeCount(text string) string {
	m := employeeCountRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	count := m[1]
	if strings.Trim(count, ",0-+") == "" {
		return ""
	}
	return count + " employees"
}

var hiringKeywords = []string{
	"hiring", "recruiting", "join our team", "we are growing", "careers",
	"job openings", "now hiring", "expanding team", "apply now",
}

func countHiringSignals(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range hiringKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// recentYearRegex matches a recent calendar year mention, a cheap proxy for
// ongoing activity in search snippets.
var recentYearRegex = regexp.MustCompile(`20(2[4-9]|3[0-9])`)

func mentionsRecentActivity(text string) bool {
	return recentYearRegex.MatchString(text)
}

var positiveWords = []string{"great", "good", "excellent", "learned", "helpful", "supportive", "recommend"}
var negativeWords = []string{"bad", "terrible", "scam", "waste", "unpaid", "avoid", "horrible", "fraud"}

// commentSentiment grades one snippet by keyword balance.
func commentSentiment(text string) string {
	lower := strings.ToLower(text)
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return "POSITIVE"
	case neg > pos:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
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
