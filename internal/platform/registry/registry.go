// Package registry manages registration and construction of the signal
// sources. Source packages register a factory from init(); the entry points
// build the enabled set from configuration without knowing concrete types.
package registry

import (
	"fmt"
	"sync"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/platform/logx"
)

// SourceFactory builds a source instance from its configuration.
type SourceFactory func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error)

// SourceRegistry maps source names to factories and metadata.
type SourceRegistry struct {
	mu        sync.RWMutex
	factories map[domain.SourceName]SourceFactory
	metadata  map[domain.SourceName]ports.SourceMetadata
	logger    logx.Logger
}

var (
	globalRegistry *SourceRegistry
	once           sync.Once
)

// Global returns the process-wide registry instance.
func Global() *SourceRegistry {
	once.Do(func() {
		globalRegistry = NewSourceRegistry(logx.New())
	})
	return globalRegistry
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[domain.SourceName]SourceFactory),
		metadata:  make(map[domain.SourceName]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register adds a source factory with its metadata. Typically called from a
// source package's init().
func (r *SourceRegistry) Register(name domain.SourceName, factory SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !name.IsValid() {
		return fmt.Errorf("invalid source name %q", name)
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name, "requires", meta.Requires)
	return nil
}

// Build constructs every registered, enabled source from configuration.
// Unregistered names in the config are skipped with a warning, not an
// error; a validation run degrades to Skipped results for missing checks.
func (r *SourceRegistry) Build(configs map[string]ports.SourceConfig, logger logx.Logger) ([]ports.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	sources := make([]ports.Source, 0, len(r.factories))
	for _, name := range domain.AllSources {
		factory, registered := r.factories[name]
		if !registered {
			r.logger.Warn("source not registered, skipping", "source", name)
			continue
		}
		cfg, ok := configs[name.String()]
		if !ok {
			cfg = ports.DefaultSourceConfig()
		}
		if !cfg.Enabled {
			r.logger.Info("source disabled by config", "source", name)
			continue
		}

		source, err := factory(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("build source %s: %w", name, err)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// Metadata returns the metadata for a registered source.
func (r *SourceRegistry) Metadata(name domain.SourceName) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.metadata[name]
	return meta, ok
}

// Names returns the registered source names in canonical order.
func (r *SourceRegistry) Names() []domain.SourceName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]domain.SourceName, 0, len(r.factories))
	for _, name := range domain.AllSources {
		if _, ok := r.factories[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
