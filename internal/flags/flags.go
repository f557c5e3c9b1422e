package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Input
	FlagSubmission = "submission"
	FlagBatchDir   = "batch-dir"

	// Backends
	FlagLLMURL        = "llm-url"
	FlagLLMModel      = "llm-model"
	FlagLLMKeyEnv     = "llm-key-env"
	FlagLLMTimeout    = "llm-timeout"
	FlagSearchURL     = "search-url"
	FlagSearchModel   = "search-model"
	FlagSearchKeyEnv  = "search-key-env"
	FlagSearchTimeout = "search-timeout"
	FlagMaxRetries    = "max-retries"

	// Pipeline
	FlagPIIStore     = "pii-store"
	FlagKeywords     = "keywords"
	FlagCRMLog       = "crm-log"
	FlagResponseLog  = "response-log"
	FlagSkipResearch = "skip-research"

	// Output
	FlagConsoleFormat = "console-format"
	FlagReportDir     = "report-dir"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagVerbose     = "verbose"
)
