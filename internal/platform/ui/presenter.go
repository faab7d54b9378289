// internal/platform/ui/presenter.go
package ui

import (
	"legitscan/internal/core/domain"
)

// Presenter renders a validation run in the terminal.
type Presenter interface {
	// Start shows the run header with the identity being validated.
	Start(identity domain.CompanyIdentity)

	// ShowReport renders the settled report: breakdown, flags, verdict.
	ShowReport(report *domain.LegitimacyReport)

	// Info shows an informational message.
	Info(msg string)

	// Warning shows a warning.
	Warning(msg string)

	// Error shows an error.
	Error(msg string)

	// Close releases presenter resources.
	Close() error
}

// NoopPresenter discards all output. Used with --json so the report on
// stdout stays machine-readable.
type NoopPresenter struct{}

// NewNoopPresenter creates a presenter that renders nothing.
func NewNoopPresenter() *NoopPresenter { return &NoopPresenter{} }

func (n *NoopPresenter) Start(domain.CompanyIdentity)        {}
func (n *NoopPresenter) ShowReport(*domain.LegitimacyReport) {}
func (n *NoopPresenter) Info(string)                         {}
func (n *NoopPresenter) Warning(string)                      {}
func (n *NoopPresenter) Error(string)                        {}
func (n *NoopPresenter) Close() error                        { return nil }
