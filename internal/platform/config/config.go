// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/ports"
)

// Config is the immutable process configuration. It is built once at
// startup (defaults -> .env/environment -> optional YAML file -> flags) and
// passed by value into the orchestrator; scoring logic never does ambient
// lookups.
type Config struct {
	// Request (CLI only)
	Company string
	GSTIN   string
	CIN     string

	// Scoring
	Weights            Weights
	QualifyingRedFlags []string

	// Timeouts
	CheckTimeout   time.Duration // per-check budget
	OverallTimeout time.Duration // wall-clock budget for a whole run

	// IO
	OutputDir  string
	NoArtifact bool
	JSONStdout bool

	// Server
	ListenAddr string

	// Sources, keyed by source name
	Sources map[string]ports.SourceConfig

	// Resilience
	Resilience Resilience

	// ConfigFile is the YAML file the config was loaded from, if any.
	ConfigFile string

	PrintVersion bool
}

// Weights are the per-component score maxima. They must sum to exactly 100;
// Validate enforces this at startup so a misconfigured table can never
// produce an out-of-range total.
type Weights struct {
	GST         int `yaml:"gst"`
	MCA         int `yaml:"mca"`
	Consistency int `yaml:"consistency"`
	Reddit      int `yaml:"reddit"`
	LinkedIn    int `yaml:"linkedin"`
}

// Sum returns the total of all component maxima.
func (w Weights) Sum() int {
	return w.GST + w.MCA + w.Consistency + w.Reddit + w.LinkedIn
}

// Validate fails when the maxima do not sum to 100 or any is negative.
func (w Weights) Validate() error {
	for name, v := range map[string]int{
		"gst": w.GST, "mca": w.MCA, "consistency": w.Consistency,
		"reddit": w.Reddit, "linkedin": w.LinkedIn,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight is negative", domain.ErrInvalidConfig, name)
		}
	}
	if w.Sum() != 100 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidWeights, w.Sum())
	}
	return nil
}

// MaxFor returns the maximum sub-score for a source.
func (w Weights) MaxFor(name domain.SourceName) int {
	switch name {
	case domain.SourceGST:
		return w.GST
	case domain.SourceMCA:
		return w.MCA
	case domain.SourceReddit:
		return w.Reddit
	case domain.SourceLinkedIn:
		return w.LinkedIn
	default:
		return 0
	}
}

// ConsistencySplit derives the name/state/year sub-weights from the
// consistency maximum: 60% name, 20% state, 20% year, remainder folded into
// the name weight so the three always sum to the maximum.
func (w Weights) ConsistencySplit() (name, state, year int) {
	state = w.Consistency * 2 / 10
	year = w.Consistency * 2 / 10
	name = w.Consistency - state - year
	return name, state, year
}

// Resilience configures the retry/circuit-breaker wrapper around sources.
type Resilience struct {
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64

	CircuitBreakerEnabled   bool
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
}

// DefaultConfig returns the shipped configuration: the 30/30/10/20/10
// weighting scheme and the default qualifying red-flag patterns for the
// classification override.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			GST:         30,
			MCA:         30,
			Consistency: 10,
			Reddit:      20,
			LinkedIn:    10,
		},
		QualifyingRedFlags: []string{
			"status is cancelled",
			"status is suspended",
			"struck off",
			"name inconsistency",
			"scam reports found",
		},
		CheckTimeout:   45 * time.Second,
		OverallTimeout: 120 * time.Second,
		OutputDir:      "legitscan_out",
		ListenAddr:     ":8080",
		Sources: map[string]ports.SourceConfig{
			domain.SourceGST.String():      defaultSource(),
			domain.SourceMCA.String():      defaultSource(),
			domain.SourceReddit.String():   defaultSource(),
			domain.SourceLinkedIn.String(): defaultSource(),
		},
		Resilience: Resilience{
			MaxRetries:              2,
			BackoffBase:             1 * time.Second,
			BackoffMultiplier:       2.0,
			CircuitBreakerEnabled:   true,
			CircuitBreakerThreshold: 5,
			CircuitBreakerTimeout:   60 * time.Second,
		},
	}
}

func defaultSource() ports.SourceConfig {
	cfg := ports.DefaultSourceConfig()
	// Zeroed so normalize() fills it from the global per-check budget;
	// an explicit per-source timeout in the file wins.
	cfg.Timeout = 0
	return cfg
}

// Load builds the CLI configuration: defaults, then environment, then the
// optional YAML file, then flags (highest priority).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()
	loadDotenv()
	loadFromEnv(&cfg)

	fs := pflag.NewFlagSet("legitscan", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Company, "name", "n", cfg.Company, "company name (required)")
	fs.StringVar(&cfg.GSTIN, "gstin", cfg.GSTIN, "GST identification number (15 chars, optional)")
	fs.StringVar(&cfg.CIN, "cin", cfg.CIN, "corporate identification number (21 chars, optional)")
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "directory for JSON artifacts")
	fs.BoolVar(&cfg.NoArtifact, "no-artifact", cfg.NoArtifact, "skip writing JSON artifacts")
	fs.BoolVar(&cfg.JSONStdout, "json", cfg.JSONStdout, "print the report as JSON to stdout")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "path to YAML config file")
	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "print version and exit")
	checkTimeout := fs.Int("check-timeout", int(cfg.CheckTimeout.Seconds()), "per-check timeout in seconds")
	overallTimeout := fs.Int("timeout", int(cfg.OverallTimeout.Seconds()), "overall timeout in seconds")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.ConfigFile != "" {
		if err := loadFromFile(&cfg, cfg.ConfigFile); err != nil {
			return cfg, err
		}
		// Re-apply flags so they keep priority over the file.
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
	}

	// Timeout flags only win when actually passed, so file values survive.
	if fs.Changed("check-timeout") {
		cfg.CheckTimeout = time.Duration(*checkTimeout) * time.Second
	}
	if fs.Changed("timeout") {
		cfg.OverallTimeout = time.Duration(*overallTimeout) * time.Second
	}

	normalize(&cfg)
	return cfg, cfg.Validate()
}

// LoadEnv builds the server configuration from defaults, environment and
// the optional YAML file named by LEGITSCAN_CONFIG. No flags.
func LoadEnv() (Config, error) {
	cfg := DefaultConfig()
	loadDotenv()
	loadFromEnv(&cfg)
	if cfg.ConfigFile != "" {
		if err := loadFromFile(&cfg, cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

// Validate fails fast on configuration the scoring engine cannot run with.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("%w: check timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.OverallTimeout < c.CheckTimeout {
		return fmt.Errorf("%w: overall timeout shorter than per-check timeout", domain.ErrInvalidConfig)
	}
	return nil
}

// SourceConfig returns the configuration for a source, falling back to the
// default when the source has no explicit entry.
func (c Config) SourceConfig(name domain.SourceName) ports.SourceConfig {
	if sc, ok := c.Sources[name.String()]; ok {
		return sc
	}
	return ports.DefaultSourceConfig()
}

func loadDotenv() {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()
}

func loadFromEnv(cfg *Config) {
	if v := getenv("LEGITSCAN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("LEGITSCAN_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("LEGITSCAN_CONFIG"); v != "" {
		cfg.ConfigFile = v
	}
	if v := getenv("LEGITSCAN_CHECK_TIMEOUT_S"); v != "" {
		cfg.CheckTimeout = time.Duration(parseInt(v, int(cfg.CheckTimeout.Seconds()))) * time.Second
	}
	if v := getenv("LEGITSCAN_OVERALL_TIMEOUT_S"); v != "" {
		cfg.OverallTimeout = time.Duration(parseInt(v, int(cfg.OverallTimeout.Seconds()))) * time.Second
	}

	// API keys land in the per-source configs. The Reddit check both
	// searches (Tavily key) and scrapes (scraper key), so the search key
	// goes in its Custom map.
	setSourceKey(cfg, domain.SourceMCA, getenv("TAVILY_API_KEY"))
	setSourceKey(cfg, domain.SourceReddit, getenv("SCRAPER_API_KEY"))
	setSourceKey(cfg, domain.SourceLinkedIn, getenv("SEARCH_API_KEY"))
	if getenv("SEARCH_API_KEY") == "" {
		setSourceKey(cfg, domain.SourceLinkedIn, getenv("TAVILY_API_KEY"))
	}
	setSourceCustom(cfg, domain.SourceReddit, "search_api_key", getenv("TAVILY_API_KEY"))
	if v := getenv("SCRAPER_API_URL"); v != "" {
		sc := cfg.Sources[domain.SourceReddit.String()]
		sc.BaseURL = v
		cfg.Sources[domain.SourceReddit.String()] = sc
	}
}

func setSourceKey(cfg *Config, name domain.SourceName, key string) {
	if key == "" {
		return
	}
	sc := cfg.Sources[name.String()]
	sc.APIKey = key
	cfg.Sources[name.String()] = sc
}

func setSourceCustom(cfg *Config, name domain.SourceName, key, value string) {
	if value == "" {
		return
	}
	sc := cfg.Sources[name.String()]
	if sc.Custom == nil {
		sc.Custom = make(map[string]string)
	}
	sc.Custom[key] = value
	cfg.Sources[name.String()] = sc
}

// fileConfig is the YAML shape of the config file.
type fileConfig struct {
	Weights            *Weights            `yaml:"weights"`
	QualifyingRedFlags []string            `yaml:"qualifying_red_flags"`
	CheckTimeoutS      *int                `yaml:"check_timeout_s"`
	OverallTimeoutS    *int                `yaml:"overall_timeout_s"`
	OutputDir          string              `yaml:"output_dir"`
	ListenAddr         string              `yaml:"listen_addr"`
	Sources            map[string]struct {
		Enabled   *bool             `yaml:"enabled"`
		TimeoutS  *int              `yaml:"timeout_s"`
		Retries   *int              `yaml:"retries"`
		RateLimit *float64          `yaml:"rate_limit"`
		APIKey    string            `yaml:"api_key"`
		BaseURL   string            `yaml:"base_url"`
		Custom    map[string]string `yaml:"custom"`
	} `yaml:"sources"`
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Weights != nil {
		cfg.Weights = *fc.Weights
	}
	if len(fc.QualifyingRedFlags) > 0 {
		cfg.QualifyingRedFlags = fc.QualifyingRedFlags
	}
	if fc.CheckTimeoutS != nil {
		cfg.CheckTimeout = time.Duration(*fc.CheckTimeoutS) * time.Second
	}
	if fc.OverallTimeoutS != nil {
		cfg.OverallTimeout = time.Duration(*fc.OverallTimeoutS) * time.Second
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}

	for name, fs := range fc.Sources {
		sc, ok := cfg.Sources[name]
		if !ok {
			sc = ports.DefaultSourceConfig()
		}
		if fs.Enabled != nil {
			sc.Enabled = *fs.Enabled
		}
		if fs.TimeoutS != nil {
			sc.Timeout = time.Duration(*fs.TimeoutS) * time.Second
		}
		if fs.Retries != nil {
			sc.Retries = *fs.Retries
		}
		if fs.RateLimit != nil {
			sc.RateLimit = *fs.RateLimit
		}
		if fs.APIKey != "" {
			sc.APIKey = fs.APIKey
		}
		if fs.BaseURL != "" {
			sc.BaseURL = fs.BaseURL
		}
		for k, v := range fs.Custom {
			if sc.Custom == nil {
				sc.Custom = make(map[string]string)
			}
			sc.Custom[k] = v
		}
		cfg.Sources[name] = sc
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Company = strings.TrimSpace(cfg.Company)
	cfg.GSTIN = strings.ToUpper(strings.TrimSpace(cfg.GSTIN))
	cfg.CIN = strings.ToUpper(strings.TrimSpace(cfg.CIN))
	if cfg.OutputDir == "" {
		cfg.OutputDir = "legitscan_out"
	}
	// Per-check timeouts default to the global per-check budget.
	for name, sc := range cfg.Sources {
		if sc.Timeout <= 0 {
			sc.Timeout = cfg.CheckTimeout
			cfg.Sources[name] = sc
		}
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
