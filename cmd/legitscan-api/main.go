// cmd/legitscan-api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legitscan/internal/adapters/httpapi"
	"legitscan/internal/adapters/output"
	"legitscan/internal/core/ports"
	"legitscan/internal/core/usecases"
	"legitscan/internal/platform/config"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
	"legitscan/internal/platform/resilience"

	// Import sources for auto-registration via init()
	_ "legitscan/internal/sources/gst"
	_ "legitscan/internal/sources/linkedin"
	_ "legitscan/internal/sources/mca"
	_ "legitscan/internal/sources/reddit"
)

var version = "dev"

const (
	shutdownGrace = 15 * time.Second

	pruneInterval  = 1 * time.Hour
	artifactMaxAge = 7 * 24 * time.Hour
)

func main() {
	// 1. Config from environment only; a server takes no flags
	cfg, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	logger := logx.New()
	logger.Info("legitscan-api starting", "version", version, "addr", cfg.ListenAddr)

	// 2. Sources and pipeline
	sources, err := buildSources(logger, cfg)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}
	defer func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				logger.Warn("failed to close source", "source", src.Name(), "error", err.Error())
			}
		}
	}()

	orch, err := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Sources: sources,
		Config:  cfg,
		Logger:  logger,
	})
	if err != nil {
		logger.Err(err, "phase", "orchestrator-build")
		os.Exit(2)
	}

	// 3. Artifact writer, unless disabled; old artifacts are pruned for the
	// lifetime of the process
	var writer httpapi.ArtifactWriter
	if !cfg.NoArtifact {
		w := output.NewWriter(cfg.OutputDir, logger)
		writer = w
		go pruneArtifacts(w, logger)
	}

	// 4. Serve until SIGINT/SIGTERM, then drain
	httpapi.Version = version
	server := httpapi.NewServer(cfg.ListenAddr, orch, writer, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Err(err, "phase", "serve")
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Err(err, "phase", "shutdown")
			os.Exit(1)
		}
	}

	logger.Info("legitscan-api stopped")
}

// pruneArtifacts removes artifact directories past the retention age, once
// at startup and then periodically.
func pruneArtifacts(w *output.Writer, logger logx.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		if err := w.Prune(artifactMaxAge); err != nil {
			logger.Warn("artifact prune failed", "error", err.Error())
		}
		<-ticker.C
	}
}

// buildSources constructs the registered checks, wrapped with retry and a
// per-source circuit breaker when enabled. Long-lived server processes want
// breakers even more than the CLI does.
func buildSources(logger logx.Logger, cfg config.Config) ([]ports.Source, error) {
	sources, err := registry.Global().Build(cfg.Sources, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.Resilience.CircuitBreakerEnabled {
		return sources, nil
	}

	resilient := make([]ports.Source, 0, len(sources))
	for _, src := range sources {
		cb := resilience.NewCircuitBreaker(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerTimeout,
			0,
		)
		resilient = append(resilient, resilience.NewRetryableSource(
			src,
			cfg.Resilience.MaxRetries,
			cfg.Resilience.BackoffBase,
			cfg.Resilience.BackoffMultiplier,
			cb,
			logger,
		))
	}
	return resilient, nil
}
