// internal/core/domain/errors.go
package domain

import "errors"

// Domain sentinel errors. Only identity and configuration errors escape
// Validate; everything a collaborator does wrong is absorbed into a Failed
// SourceResult.
var (
	// Identity errors (fatal, surfaced to the caller)
	ErrInvalidIdentity     = errors.New("invalid company identity")
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// Configuration errors (fatal at startup)
	ErrInvalidWeights = errors.New("score weights must sum to 100")
	ErrInvalidConfig  = errors.New("invalid configuration")

	// Source errors (absorbed into Failed results, never escape Validate)
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSourceTimeout     = errors.New("source execution timeout")
	ErrInvalidResponse   = errors.New("source returned invalid response")

	// Orchestrator errors
	ErrNoSourcesAvailable = errors.New("no sources available")
)
