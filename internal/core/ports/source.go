// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"legitscan/internal/core/domain"
)

// IdentifierKind names the identity field a check needs before it can run.
type IdentifierKind string

const (
	// IdentifierNone means the check runs on the company name alone.
	IdentifierNone IdentifierKind = "none"

	// IdentifierGSTIN means the check needs the tax identifier.
	IdentifierGSTIN IdentifierKind = "gstin"

	// IdentifierCIN means the check needs the corporate identifier.
	IdentifierCIN IdentifierKind = "cin"
)

// Source is the port every signal-gathering collaborator implements. A
// source owns its own normalization: Run returns a settled SourceResult in
// the sub-score/flags/attributes shape, or an error that the orchestrator
// absorbs into a Failed result. A source never aborts the overall run.
type Source interface {
	// Name returns the unique source name ("gst", "mca", "reddit", "linkedin").
	Name() domain.SourceName

	// Requires returns the identifier the source needs, if any. The
	// orchestrator skips the source without invoking it when the
	// identifier is absent.
	Requires() IdentifierKind

	// Run executes the check against the identity and returns a settled
	// result. Implementations must honor ctx cancellation.
	Run(ctx context.Context, identity domain.CompanyIdentity) (*domain.SourceResult, error)

	// Close releases resources held by the source.
	Close() error
}

// SourceConfig holds the per-source configuration.
type SourceConfig struct {
	// Enabled indicates whether the source participates in validation runs.
	Enabled bool

	// Timeout is the per-check execution budget.
	Timeout time.Duration

	// Retries is the retry count applied by the resilience wrapper.
	Retries int

	// RateLimit is the max upstream requests per second (0 = unlimited).
	RateLimit float64

	// APIKey authenticates against the upstream API, when one is needed.
	APIKey string

	// BaseURL overrides the upstream endpoint (useful in tests).
	BaseURL string

	// Custom holds source-specific settings (subreddit list, search depth).
	Custom map[string]string
}

// DefaultSourceConfig returns a usable per-source default.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:   true,
		Timeout:   45 * time.Second,
		Retries:   2,
		RateLimit: 0,
		Custom:    make(map[string]string),
	}
}

// SourceMetadata describes a registered source.
type SourceMetadata struct {
	Name         domain.SourceName
	Description  string
	Requires     IdentifierKind
	RequiresAuth bool
	MaxScore     int
}
