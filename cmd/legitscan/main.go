// cmd/legitscan/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legitscan/internal/adapters/output"
	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
	"legitscan/internal/core/usecases"
	"legitscan/internal/platform/config"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
	"legitscan/internal/platform/resilience"
	"legitscan/internal/platform/ui"

	// Import sources for auto-registration via init()
	_ "legitscan/internal/sources/gst"
	_ "legitscan/internal/sources/linkedin"
	_ "legitscan/internal/sources/mca"
	_ "legitscan/internal/sources/reddit"
)

var (
	// Set with -ldflags at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (defaults -> env -> file -> flags)
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}
	if cfg.PrintVersion {
		fmt.Printf("legitscan %s (%s, %s)\n", version, commit, date)
		return
	}
	if cfg.Company == "" {
		fmt.Fprintln(os.Stderr, "Error: company name is required")
		fmt.Fprintln(os.Stderr, "Usage: legitscan -n <company> [--gstin <gstin>] [--cin <cin>]")
		fmt.Fprintln(os.Stderr, "Try: legitscan -h for help")
		os.Exit(2)
	}

	// 2. Shared logger; quiet when the report goes to stdout as JSON
	logger := logx.New()
	if cfg.JSONStdout {
		logger = logx.NewSilent()
	}

	logger.Info("legitscan starting",
		"version", version,
		"company", cfg.Company,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals(cfg.OverallTimeout)
	defer cancel()

	// 4. Build the identity and fail fast on malformed identifiers
	identity := domain.NewCompanyIdentity(cfg.Company, cfg.GSTIN, cfg.CIN)
	if err := identity.Validate(); err != nil {
		logger.Err(err, "phase", "validation")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// 5. Build sources from registry with resilience wrappers
	sources, err := buildSourcesWithResilience(logger, cfg)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}
	defer closeSources(sources, logger)

	logger.Info("sources built", "count", len(sources))

	// 6. Wire the pipeline
	orch, err := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Sources: sources,
		Config:  cfg,
		Logger:  logger,
	})
	if err != nil {
		logger.Err(err, "phase", "orchestrator-build")
		os.Exit(2)
	}

	// 7. Presenter
	var presenter ui.Presenter = ui.NewPTermPresenter()
	if cfg.JSONStdout {
		presenter = ui.NewNoopPresenter()
	}
	defer presenter.Close()
	presenter.Start(identity)

	// 8. Run the validation
	start := time.Now()
	report, err := orch.Validate(ctx, identity)
	if err != nil {
		logger.Err(err, "phase", "validate", "elapsed_ms", time.Since(start).Milliseconds())
		presenter.Error(fmt.Sprintf("validation failed: %v", err))
		os.Exit(1)
	}

	// 9. Render and persist
	presenter.ShowReport(report)

	if cfg.JSONStdout {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			logger.Err(err, "phase", "output")
			os.Exit(1)
		}
	}

	if !cfg.NoArtifact {
		writer := output.NewWriter(cfg.OutputDir, logger)
		dir, err := writer.Write(report)
		if err != nil {
			logger.Err(err, "phase", "output")
			os.Exit(1)
		}
		presenter.Info("Artifacts written to " + dir)
	}

	logger.Info("legitscan finished",
		"score", report.TotalScore,
		"classification", report.Classification,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// buildSourcesWithResilience builds the registered sources and wraps each in
// the retry/circuit-breaker layer when enabled.
func buildSourcesWithResilience(logger logx.Logger, cfg config.Config) ([]ports.Source, error) {
	sources, err := registry.Global().Build(cfg.Sources, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build sources: %w", err)
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

func closeSources(sources []ports.Source, logger logx.Logger) {
	for _, src := range sources {
		if err := src.Close(); err != nil {
			logger.Warn("failed to close source",
				"source", src.Name(),
				"error", err.Error(),
			)
		}
	}
}

// rootContextWithSignals derives the run context: overall timeout plus
// SIGINT/SIGTERM cancellation.
func rootContextWithSignals(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
