// internal/sources/mca/mca.go
package mca

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/cache"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/httpclient"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
	"legitscan/internal/platform/validator"
)

const (
	searchEndpoint = "https://api.tavily.com/search"

	scoreRegistered = 20
	scoreActive     = 10

	cacheTTL = 15 * time.Minute
)

func init() {
	if err := registry.Global().Register(
		domain.SourceMCA,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         domain.SourceMCA,
			Description:  "Corporate registry lookup by CIN via web search",
			Requires:     ports.IdentifierCIN,
			RequiresAuth: true,
			MaxScore:     scoreRegistered + scoreActive,
		},
	); err != nil {
		logx.New().Warn("failed to register mca source", "error", err.Error())
	}
}

// Checker verifies a company against the corporate registry. The registry
// has no public API, so the check searches company-data aggregators for the
// CIN and reads the registration record out of the search snippets. A found
// registration is worth 20 points, plus 10 when the company status is Active.
type Checker struct {
	client   *httpclient.Client
	cache    cache.Cache
	apiKey   string
	endpoint string
	logger   logx.Logger
}

// New creates the MCA checker from its configuration.
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
		cache:    cache.NewMemoryCache(256),
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		logger:   logger.With("source", "mca"),
	}
}

// Name implements ports.Source.
func (c *Checker) Name() domain.SourceName {
	return domain.SourceMCA
}

// Requires implements ports.Source. The check is skipped without a CIN.
func (c *Checker) Requires() ports.IdentifierKind {
	return ports.IdentifierCIN
}

// Run searches aggregators for the CIN and settles a result.
func (c *Checker) Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "mca check needs a search API key")
	}

	if cached, ok := c.cache.Get(identity.CIN); ok {
		c.logger.Debug("cache hit", "cin", identity.CIN)
		return cached.(*domain.SourceResult), nil
	}

	c.logger.Debug("searching corporate registry aggregators", "cin", identity.CIN)

	var resp searchResponse
	payload := searchRequest{
		APIKey:      c.apiKey,
		Query:       fmt.Sprintf("\"%s\" company registration status zaubacorp OR mca", identity.CIN),
		MaxResults:  5,
		SearchDepth: "basic",
	}
	if err := c.client.PostJSON(ctx, c.endpoint, payload, &resp, nil); err != nil {
		return nil, errors.Wrapf(err, "mca search for %s", identity.CIN)
	}

	result := c.settle(identity, resp.Results)
	c.cache.Set(identity.CIN, result, cacheTTL)
	return result, nil
}

// Close implements ports.Source.
func (c *Checker) Close() error {
	return nil
}

// settle inspects the search hits for a registration record carrying the CIN.
func (c *Checker) settle(identity domain.CompanyIdentity, hits []searchHit) *domain.SourceResult {
	record, found := extractRecord(identity.CIN, hits)
	if !found {
		result := domain.NewSuccessResult(domain.SourceMCA, 0)
		result.AddRedFlag("CIN not found in corporate registry")
		result.SetDetail("registered", false)
		c.logger.Info("corporate registry check settled", "cin", identity.CIN, "registered", false)
		return result
	}

	score := scoreRegistered
	active := strings.EqualFold(record.Status, "Active")
	if active {
		score += scoreActive
	}

	result := domain.NewSuccessResult(domain.SourceMCA, score)
	result.Attributes = domain.Attributes{
		LegalName:         record.LegalName,
		State:             record.State,
		IncorporationYear: validator.CINIncorporationYear(identity.CIN),
	}
	result.AddGreenFlag("CIN registered in corporate registry")
	if active {
		result.AddGreenFlag("Company status is Active")
	} else if record.Status != "" {
		flag := fmt.Sprintf("Company status is %s", record.Status)
		if strings.Contains(strings.ToLower(record.Status), "struck off") {
			flag = "Company struck off the corporate register"
		}
		result.AddRedFlag(flag)
	}

	result.SetDetail("registered", true)
	result.SetDetail("status", record.Status)
	result.SetDetail("legal_name", record.LegalName)
	if record.SourceURL != "" {
		result.SetDetail("source_url", record.SourceURL)
	}

	c.logger.Info("corporate registry check settled",
		"cin", identity.CIN,
		"status", record.Status,
		"score", score,
	)
	return result
}

// registryRecord is what we recover from the aggregator snippets.
type registryRecord struct {
	LegalName string
	State     string
	Status    string
	SourceURL string
}

// knownStatuses are the registry statuses the snippet scan recognizes,
// checked in order so compound phrases win over their prefixes.
var knownStatuses = []string{
	"strike off",
	"struck off",
	"under liquidation",
	"amalgamated",
	"dissolved",
	"dormant",
	"inactive",
	"active",
}

// extractRecord scans the hits for one that mentions the CIN and pulls the
// company name and status out of its title and snippet text.
func extractRecord(cin string, hits []searchHit) (registryRecord, bool) {
	var record registryRecord
	found := false

	for _, hit := range hits {
		text := hit.Title + " " + hit.Content
		if !strings.Contains(strings.ToUpper(text), cin) {
			continue
		}
		found = true
		if record.SourceURL == "" {
			record.SourceURL = hit.URL
		}
		if record.LegalName == "" {
			record.LegalName = nameFromTitle(hit.Title)
		}
		if record.Status == "" {
			record.Status = statusFromText(text)
		}
		if record.LegalName != "" && record.Status != "" {
			break
		}
	}
	return record, found
}

// nameFromTitle recovers the company name from an aggregator page title,
// typically "ACME SOLUTIONS PRIVATE LIMITED - Company Details | Zauba Corp".
func nameFromTitle(title string) string {
	for _, sep := range []string{" - ", " | ", " – "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	name := strings.TrimSpace(title)
	if len(name) < 3 {
		return ""
	}
	return name
}

// statusFromText finds a recognized registry status mention in the text.
func statusFromText(text string) string {
	lower := strings.ToLower(text)
	for _, status := range knownStatuses {
		if strings.Contains(lower, status) {
			return titleCase(status)
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// searchRequest is the Tavily search API request body.
type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// searchResponse is the subset of the search API response we read.
type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
