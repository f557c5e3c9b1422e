package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty llm url", func(c *Config) { c.Backends.GenerationURL = "" }, "--llm-url"},
		{"bad scheme", func(c *Config) { c.Backends.GenerationURL = "ftp://api.example.com" }, "scheme"},
		{"no host", func(c *Config) { c.Backends.GenerationURL = "https://" }, "host"},
		{"empty model", func(c *Config) { c.Backends.GenerationModel = "" }, "--llm-model"},
		{"empty key env", func(c *Config) { c.Backends.GenerationKeyEnv = "" }, "--llm-key-env"},
		{"bad key env", func(c *Config) { c.Backends.GenerationKeyEnv = "my-key" }, "--llm-key-env"},
		{"digit-leading key env", func(c *Config) { c.Backends.GenerationKeyEnv = "1KEY" }, "--llm-key-env"},
		{"bad search key env", func(c *Config) { c.Backends.SearchKeyEnv = "lower" }, "--search-key-env"},
		{"zero llm timeout", func(c *Config) { c.Backends.GenerationTimeout = 0 }, "--llm-timeout"},
		{"zero search timeout", func(c *Config) { c.Backends.SearchTimeout = 0 }, "--search-timeout"},
		{"negative retries", func(c *Config) { c.Backends.MaxRetries = -1 }, "--max-retries"},
		{"bad console format", func(c *Config) { c.Output.ConsoleFormat = "yaml" }, "--console-format"},
		{"bad out format", func(c *Config) { c.Output.Out = "r.json"; c.Output.OutFormat = "csv" }, "--out-format"},
		{"out format without out", func(c *Config) { c.Output.OutFormat = "json" }, "requires --out"},
		{"no console without destination", func(c *Config) { c.Output.NoConsole = true }, "--no-console"},
		{"zero concurrency", func(c *Config) { c.Runtime.Concurrency = 0 }, "--concurrency"},
		{"zero timeout", func(c *Config) { c.Runtime.Timeout = 0 }, "--timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted broken config")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateNormalizesFormats(t *testing.T) {
	cfg := New()
	cfg.Output.ConsoleFormat = " NDJSON "
	cfg.Output.Out = "results.out"
	cfg.Output.OutFormat = "JSON"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Output.ConsoleFormat != "ndjson" {
		t.Errorf("console format = %q", cfg.Output.ConsoleFormat)
	}
	if cfg.Output.OutFormat != "json" {
		t.Errorf("out format = %q", cfg.Output.OutFormat)
	}
}

func TestNoConsoleSatisfiedByReportDir(t *testing.T) {
	cfg := New()
	cfg.Output.NoConsole = true
	cfg.Output.ReportDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestKeysReadFromEnvironment(t *testing.T) {
	cfg := New()
	cfg.Backends.GenerationKeyEnv = "EXITREADY_TEST_GEN_KEY"
	cfg.Backends.SearchKeyEnv = "EXITREADY_TEST_SEARCH_KEY"
	t.Setenv("EXITREADY_TEST_GEN_KEY", "gen-secret")
	t.Setenv("EXITREADY_TEST_SEARCH_KEY", "search-secret")

	if got := cfg.GenerationKey(); got != "gen-secret" {
		t.Errorf("GenerationKey = %q", got)
	}
	if got := cfg.SearchKey(); got != "search-secret" {
		t.Errorf("SearchKey = %q", got)
	}

	cfg.Backends.SearchKeyEnv = ""
	if got := cfg.SearchKey(); got != "" {
		t.Errorf("SearchKey with no env configured = %q", got)
	}
}

func TestDefaultTimeouts(t *testing.T) {
	cfg := New()
	if cfg.Backends.GenerationTimeout != 45*time.Second {
		t.Errorf("generation timeout = %v", cfg.Backends.GenerationTimeout)
	}
	if cfg.Backends.SearchTimeout != 30*time.Second {
		t.Errorf("search timeout = %v", cfg.Backends.SearchTimeout)
	}
	if cfg.Runtime.Timeout != 10*time.Minute {
		t.Errorf("runtime timeout = %v", cfg.Runtime.Timeout)
	}
}
