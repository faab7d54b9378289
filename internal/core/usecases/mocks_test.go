// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"time"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
)

// mockSource is a configurable ports.Source for pipeline tests.
type mockSource struct {
	name     domain.SourceName
	requires ports.IdentifierKind

	result *domain.SourceResult
	err    error
	delay  time.Duration

	runCalled bool
}

func (m *mockSource) Name() domain.SourceName        { return m.name }
func (m *mockSource) Requires() ports.IdentifierKind { return m.requires }
func (m *mockSource) Close() error                   { return nil }

func (m *mockSource) Run(ctx context.Context, _ domain.CompanyIdentity) (*domain.SourceResult, error) {
	m.runCalled = true
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.result, m.err
}

// successSource builds a mock that settles Success with the given score.
func successSource(name domain.SourceName, requires ports.IdentifierKind, score int) *mockSource {
	return &mockSource{
		name:     name,
		requires: requires,
		result:   domain.NewSuccessResult(name, score),
	}
}

// fullHouse returns four healthy mocks scoring the component maxima:
// GST 30, MCA 30, Reddit 20, LinkedIn 10. The registry mocks carry matching
// attributes so the consistency cross-check also scores full.
func fullHouse() []ports.Source {
	gst := successSource(domain.SourceGST, ports.IdentifierGSTIN, 30)
	gst.result.Attributes = domain.Attributes{LegalName: "Acme Solutions Private Limited", State: "Karnataka", IncorporationYear: 2018}
	gst.result.AddGreenFlag("GSTIN registered in tax registry")

	mca := successSource(domain.SourceMCA, ports.IdentifierCIN, 30)
	mca.result.Attributes = domain.Attributes{LegalName: "Acme Solutions Pvt Ltd", State: "Karnataka", IncorporationYear: 2018}
	mca.result.AddGreenFlag("CIN registered in corporate registry")

	reddit := successSource(domain.SourceReddit, ports.IdentifierNone, 20)
	reddit.result.AddGreenFlag("No scam reports found on Reddit")

	linkedin := successSource(domain.SourceLinkedIn, ports.IdentifierNone, 10)
	linkedin.result.AddGreenFlag("Strong employability signals found")

	return []ports.Source{gst, mca, reddit, linkedin}
}
