package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect run
	// behavior, keep the CLI flags in internal/cli/assess.go in sync.
	Backends Backends
	Pipeline Pipeline
	Output   Output
	Runtime  Runtime
}

type Backends struct {
	// GenerationURL is the base URL of the text-generation backend
	// (OpenAI-style chat completions; see --llm-url).
	GenerationURL string

	// GenerationModel is the model name sent with every generation call
	// (see --llm-model).
	GenerationModel string

	// GenerationKeyEnv names the environment variable holding the generation
	// API key (see --llm-key-env). The key itself never appears on a command
	// line or in config.
	GenerationKeyEnv string

	// GenerationTimeout bounds one generation call (see --llm-timeout).
	GenerationTimeout time.Duration

	// SearchURL is the base URL of the search/research backend (see --search-url).
	SearchURL string

	// SearchModel is the model name for research queries (see --search-model).
	SearchModel string

	// SearchKeyEnv names the environment variable holding the search API key
	// (see --search-key-env). An empty value in the environment disables live
	// research; runs use the built-in fallback payload.
	SearchKeyEnv string

	// SearchTimeout bounds one research call (see --search-timeout).
	SearchTimeout time.Duration

	// MaxRetries is the number of additional attempts when a structured
	// generation reply cannot be coerced into a valid object (see --max-retries).
	MaxRetries int
}

type Pipeline struct {
	// PIIStorePath persists PII mappings to a SQLite file (see --pii-store).
	// Empty means mappings live only in process memory.
	PIIStorePath string

	// KeywordOverrides points at a YAML file replacing per-industry
	// value-driver keyword tables (see --keywords).
	KeywordOverrides string

	// CRMLogPath appends one CSV row per submission contact (see --crm-log).
	CRMLogPath string

	// ResponseLogPath appends anonymized questionnaire answers as CSV
	// (see --response-log).
	ResponseLogPath string

	// SkipResearch forces the fallback research payload without attempting
	// the search backend (see --skip-research). Useful offline and in tests.
	SkipResearch bool
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ReportDir writes each run's Markdown report to this directory
	// (see --report-dir).
	ReportDir string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, inferred from the extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency controls how many submissions a batch run processes in
	// parallel (see --concurrency). Must be >= 1.
	Concurrency int

	// Timeout is the global deadline for the whole invocation (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables backend HTTP diagnostics on stderr (see --verbose).
	Verbose bool
}

func New() *Config {
	return &Config{
		Backends: Backends{
			GenerationURL:     "https://api.openai.com/v1",
			GenerationModel:   "gpt-4o-mini",
			GenerationKeyEnv:  "OPENAI_API_KEY",
			GenerationTimeout: 45 * time.Second,
			SearchURL:         "https://api.perplexity.ai",
			SearchModel:       "sonar",
			SearchKeyEnv:      "PERPLEXITY_API_KEY",
			SearchTimeout:     30 * time.Second,
			MaxRetries:        2,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 4,
			Timeout:     10 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	if err := validateBaseURL("--llm-url", c.Backends.GenerationURL); err != nil {
		return err
	}
	if err := validateBaseURL("--search-url", c.Backends.SearchURL); err != nil {
		return err
	}
	if c.Backends.GenerationModel == "" {
		return errors.New("--llm-model must not be empty")
	}
	if c.Backends.GenerationKeyEnv == "" {
		return errors.New("--llm-key-env must not be empty")
	}
	if !validEnvName(c.Backends.GenerationKeyEnv) {
		return fmt.Errorf("invalid --llm-key-env: %s", c.Backends.GenerationKeyEnv)
	}
	if c.Backends.SearchKeyEnv != "" && !validEnvName(c.Backends.SearchKeyEnv) {
		return fmt.Errorf("invalid --search-key-env: %s", c.Backends.SearchKeyEnv)
	}
	if c.Backends.GenerationTimeout <= 0 {
		return errors.New("--llm-timeout must be greater than zero")
	}
	if c.Backends.SearchTimeout <= 0 {
		return errors.New("--search-timeout must be greater than zero")
	}
	if c.Backends.MaxRetries < 0 {
		return errors.New("--max-retries must not be negative")
	}

	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	switch c.Output.ConsoleFormat {
	case "text", "json", "ndjson":
	default:
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}
	if c.Output.OutFormat != "" {
		v := normalizeEnumValue(c.Output.OutFormat)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --out-format: %s (must be one of: json, ndjson)", c.Output.OutFormat)
		}
		c.Output.OutFormat = v
	}
	if c.Output.OutFormat != "" && c.Output.Out == "" {
		return errors.New("--out-format requires --out")
	}
	if c.Output.NoConsole && c.Output.Out == "" && c.Output.ReportDir == "" {
		return errors.New("--no-console requires --out or --report-dir")
	}

	if c.Runtime.Concurrency < 1 {
		return errors.New("--concurrency must be at least 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}

// GenerationKey reads the generation API key from the configured
// environment variable.
func (c *Config) GenerationKey() string {
	return os.Getenv(c.Backends.GenerationKeyEnv)
}

// SearchKey reads the search API key from the configured environment
// variable; empty when unset or when no variable is configured.
func (c *Config) SearchKey() string {
	if c.Backends.SearchKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Backends.SearchKeyEnv)
}

func validateBaseURL(flag, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s must not be empty", flag)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", flag, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", flag)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", flag)
	}
	return nil
}

func validEnvName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return name != ""
}

func normalizeEnumValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
