// internal/sources/gst/gst.go
package gst

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/cache"
	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/httpclient"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
)

const (
	defaultBaseURL = "https://www.knowyourgst.com/gst-number-search/"

	scoreRegistered = 20
	scoreActive     = 10

	cacheTTL = 15 * time.Minute
)

// Auto-register the source on import.
func init() {
	if err := registry.Global().Register(
		domain.SourceGST,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         domain.SourceGST,
			Description:  "GST tax registry lookup by GSTIN",
			Requires:     ports.IdentifierGSTIN,
			RequiresAuth: false,
			MaxScore:     scoreRegistered + scoreActive,
		},
	); err != nil {
		logx.New().Warn("failed to register gst source", "error", err.Error())
	}
}

// Checker verifies a company against the GST tax registry. A registration
// found under the GSTIN is worth 20 points, plus 10 when the registration
// status is Active. The extracted legal name and state feed the consistency
// cross-check against the corporate registry.
type Checker struct {
	client  *httpclient.Client
	cache   cache.Cache
	baseURL string
	logger  logx.Logger
}

// New creates the GST checker from its configuration.
func New(cfg ports.SourceConfig, logger logx.Logger) *Checker {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout
	httpCfg.MaxRetries = cfg.Retries
	httpCfg.RateLimit = cfg.RateLimit

	return &Checker{
		client:  httpclient.New(httpCfg, logger),
		cache:   cache.NewMemoryCache(256),
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		logger:  logger.With("source", "gst"),
	}
}

// Name implements ports.Source.
func (c *Checker) Name() domain.SourceName {
	return domain.SourceGST
}

// Requires implements ports.Source. The check is skipped without a GSTIN.
func (c *Checker) Requires() ports.IdentifierKind {
	return ports.IdentifierGSTIN
}

// Run looks the GSTIN up in the public registry and settles a result.
func (c *Checker) Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error) {
	if cached, ok := c.cache.Get(identity.GSTIN); ok {
		c.logger.Debug("cache hit", "gstin", identity.GSTIN)
		return cached.(*domain.SourceResult), nil
	}

	c.logger.Debug("querying tax registry", "gstin", identity.GSTIN)

	body, err := c.client.FetchBody(ctx, c.baseURL+identity.GSTIN, nil)
	if err != nil {
		if errors.IsNotFound(err) {
			// The registry answered: no such registration. That is a
			// settled Success with zero points, not an outage.
			result := domain.NewSuccessResult(domain.SourceGST, 0)
			result.AddRedFlag("GSTIN not found in tax registry")
			result.SetDetail("registered", false)
			c.cache.Set(identity.GSTIN, result, cacheTTL)
			return result, nil
		}
		return nil, errors.Wrapf(err, "gst lookup for %s", identity.GSTIN)
	}

	record, err := parseRegistryPage(body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "gst page for %s: %v", identity.GSTIN, err)
	}

	result := c.settle(identity, record)
	c.cache.Set(identity.GSTIN, result, cacheTTL)
	return result, nil
}

// Close implements ports.Source.
func (c *Checker) Close() error {
	return nil
}

// settle converts a parsed registry record into a settled result.
func (c *Checker) settle(identity domain.CompanyIdentity, record registryRecord) *domain.SourceResult {
	if record.LegalName == "" && record.Status == "" {
		// Page rendered but held no recognizable record.
		result := domain.NewSuccessResult(domain.SourceGST, 0)
		result.AddRedFlag("GSTIN not found in tax registry")
		result.SetDetail("registered", false)
		return result
	}

	score := scoreRegistered
	status := strings.TrimSpace(record.Status)
	active := strings.EqualFold(status, "Active")
	if active {
		score += scoreActive
	}

	result := domain.NewSuccessResult(domain.SourceGST, score)
	result.Attributes = domain.Attributes{
		LegalName: record.LegalName,
		State:     record.State,
	}
	result.AddGreenFlag("GSTIN registered in tax registry")
	if active {
		result.AddGreenFlag("GST registration status is Active")
	} else if status != "" {
		result.AddRedFlag(fmt.Sprintf("GST registration status is %s", status))
	}

	result.SetDetail("registered", true)
	result.SetDetail("status", status)
	result.SetDetail("legal_name", record.LegalName)
	if record.State != "" {
		result.SetDetail("state", record.State)
	}
	if record.RegistrationDate != "" {
		result.SetDetail("registration_date", record.RegistrationDate)
	}

	c.logger.Info("tax registry check settled",
		"gstin", identity.GSTIN,
		"status", status,
		"score", score,
	)
	return result
}

// registryRecord is the subset of the registry page we extract.
type registryRecord struct {
	LegalName        string
	State            string
	Status           string
	RegistrationDate string
}

// fieldLabels maps the registry page's row labels to record fields. The page
// renders the record as a two-column table of label/value rows.
var fieldLabels = map[string]func(*registryRecord, string){
	"legal name":             func(r *registryRecord, v string) { r.LegalName = v },
	"legal name of business": func(r *registryRecord, v string) { r.LegalName = v },
	"trade name":             func(r *registryRecord, v string) { setIfEmpty(&r.LegalName, v) },
	"state":                  func(r *registryRecord, v string) { r.State = v },
	"status":                 func(r *registryRecord, v string) { r.Status = v },
	"gst status":             func(r *registryRecord, v string) { r.Status = v },
	"registration date":      func(r *registryRecord, v string) { r.RegistrationDate = v },
	"date of registration":   func(r *registryRecord, v string) { r.RegistrationDate = v },
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// parseRegistryPage walks the HTML document and extracts the registration
// record from its label/value table rows.
func parseRegistryPage(body []byte) (registryRecord, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return registryRecord{}, err
	}

	var record registryRecord
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCells(n)
			if len(cells) >= 2 {
				label := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(cells[0], ":")))
				if set, ok := fieldLabels[label]; ok {
					set(&record, strings.TrimSpace(cells[1]))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return record, nil
}

// rowCells collects the text of every td/th cell directly under a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			cells = append(cells, nodeText(n))
		}
	}
	return cells
}

// nodeText concatenates all text nodes under n.
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
	return strings.Join(strings.Fields(sb.String()), " ")
}
