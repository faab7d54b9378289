// internal/platform/registry/registry_test.go
package registry

import (
	"context"
	"testing"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

type stubSource struct {
	name domain.SourceName
}

func (s *stubSource) Name() domain.SourceName        { return s.name }
func (s *stubSource) Requires() ports.IdentifierKind { return ports.IdentifierNone }
func (s *stubSource) Close() error                   { return nil }

func (s *stubSource) Run(context.Context, domain.CompanyIdentity) (*domain.SourceResult, error) {
	return domain.NewSuccessResult(s.name, 0), nil
}

func stubFactory(name domain.SourceName) SourceFactory {
	return func(ports.SourceConfig, logx.Logger) (ports.Source, error) {
		return &stubSource{name: name}, nil
	}
}

func register(t *testing.T, r *SourceRegistry, name domain.SourceName) {
	t.Helper()
	err := r.Register(name, stubFactory(name), ports.SourceMetadata{Name: name})
	testutil.AssertNoError(t, err, "register "+name.String())
}

func TestRegister_Validation(t *testing.T) {
	r := NewSourceRegistry(logx.NewSilent())

	err := r.Register("nonsense", stubFactory("nonsense"), ports.SourceMetadata{})
	testutil.AssertError(t, err, "unknown source name rejected")

	err = r.Register(domain.SourceGST, nil, ports.SourceMetadata{})
	testutil.AssertError(t, err, "nil factory rejected")

	register(t, r, domain.SourceGST)
	err = r.Register(domain.SourceGST, stubFactory(domain.SourceGST), ports.SourceMetadata{})
	testutil.AssertError(t, err, "duplicate registration rejected")
}

func TestBuild_SkipsUnregisteredAndDisabled(t *testing.T) {
	r := NewSourceRegistry(logx.NewSilent())
	register(t, r, domain.SourceGST)
	register(t, r, domain.SourceReddit)

	disabled := ports.DefaultSourceConfig()
	disabled.Enabled = false

	sources, err := r.Build(map[string]ports.SourceConfig{
		domain.SourceReddit.String(): disabled,
	}, logx.NewSilent())
	testutil.AssertNoError(t, err, "build")

	testutil.AssertEqual(t, len(sources), 1, "only the enabled registered source")
	testutil.AssertEqual(t, sources[0].Name(), domain.SourceGST, "gst survives")
}

func TestBuild_RequiresLogger(t *testing.T) {
	r := NewSourceRegistry(logx.NewSilent())
	_, err := r.Build(nil, nil)
	testutil.AssertError(t, err, "nil logger rejected")
}

func TestNames_CanonicalOrder(t *testing.T) {
	r := NewSourceRegistry(logx.NewSilent())
	register(t, r, domain.SourceLinkedIn)
	register(t, r, domain.SourceGST)

	names := r.Names()
	testutil.AssertEqual(t, len(names), 2, "two registered")
	testutil.AssertEqual(t, names[0], domain.SourceGST, "canonical order, not registration order")
	testutil.AssertEqual(t, names[1], domain.SourceLinkedIn, "linkedin last")
}

func TestMetadata_Lookup(t *testing.T) {
	r := NewSourceRegistry(logx.NewSilent())
	register(t, r, domain.SourceMCA)

	meta, ok := r.Metadata(domain.SourceMCA)
	testutil.AssertTrue(t, ok, "registered metadata found")
	testutil.AssertEqual(t, meta.Name, domain.SourceMCA, "metadata name")

	_, ok = r.Metadata(domain.SourceReddit)
	testutil.AssertFalse(t, ok, "unregistered metadata absent")
}
