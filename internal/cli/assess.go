package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"exitready/internal/coerce"
	"exitready/internal/config"
	"exitready/internal/crmlog"
	"exitready/internal/engine"
	"exitready/internal/flags"
	"exitready/internal/forms"
	"exitready/internal/llm"
	"exitready/internal/output"
	"exitready/internal/pii"
	"exitready/internal/research"
	"exitready/internal/scoring"
)

var cfg = config.New()

var (
	submissionPath string
	batchDir       string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the assessment pipeline for one or more submissions",
	Long: `Run the six-stage assessment pipeline for submitted questionnaires.

A submission is a JSON file with the owner's details and answers q1..q10.
Provide one file with --submission, or a directory of *.json files with
--batch-dir; batch runs execute concurrently up to --concurrency.

Authentication:
  The text-generation backend requires an API key, read from the environment
  variable named by --llm-key-env (default: OPENAI_API_KEY). The research
  backend key (--search-key-env, default: PERPLEXITY_API_KEY) is optional;
  without it, runs use built-in fallback benchmarks.

Output:
  Console output is controlled by --console-format (default: text).
  Structured outputs can be written via:
  - --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
  - --report-dir: write each run's Markdown report as <run-id>.md
  - --no-console: suppress the console sink (use with --out/--report-dir)

  NDJSON mode emits one JSON object per line: lifecycle events with a "type"
  field (run.started, stage.started, stage.finished, run.result, run.finished).

Exit codes:
  0 = all runs completed
  1 = all runs failed
  2 = partial failure (some runs failed)
  3 = fatal error (nothing ran)

Examples:
  export OPENAI_API_KEY="<your_key>"
  exitready assess --submission ./submission.json --report-dir ./reports

  # Offline: skip live research, use fallback benchmarks
  exitready assess --submission ./submission.json --skip-research

  # Batch with machine-readable output
  exitready assess --batch-dir ./submissions --no-console --out runs.ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}
		os.Exit(runAssess(cmd))
	},
}

func runAssess(cmd *cobra.Command) int {
	fatal := func(err error) int {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	if err := cfg.Validate(); err != nil {
		return fatal(err)
	}
	if submissionPath == "" && batchDir == "" {
		return fatal(fmt.Errorf("one of --%s or --%s is required", flags.FlagSubmission, flags.FlagBatchDir))
	}
	if submissionPath != "" && batchDir != "" {
		return fatal(fmt.Errorf("--%s and --%s are mutually exclusive", flags.FlagSubmission, flags.FlagBatchDir))
	}
	if err := scoring.ValidateWeights(); err != nil {
		return fatal(err)
	}
	if cfg.Pipeline.KeywordOverrides != "" {
		if err := scoring.LoadKeywordOverrides(cfg.Pipeline.KeywordOverrides); err != nil {
			return fatal(err)
		}
	}

	subs, err := loadSubmissions()
	if err != nil {
		return fatal(err)
	}

	logger, err := newLogger(cfg.Runtime.Verbose)
	if err != nil {
		return fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		return fatal(err)
	}
	defer func() { _ = outMgr.Close() }()

	eng, cleanup, err := setupEngine(cfg, outMgr, logger)
	if err != nil {
		return fatal(err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		failures int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Runtime.Concurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			rc := eng.Run(gctx, sub)
			if rc.Failed() {
				mu.Lock()
				failures++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	switch {
	case failures == 0:
		return 0
	case failures == len(subs):
		return 1
	default:
		return 2
	}
}

// loadSubmissions reads the configured submission file or batch directory.
// Submissions without a run ID get a generated one.
func loadSubmissions() ([]*forms.Submission, error) {
	var paths []string
	if submissionPath != "" {
		paths = []string{submissionPath}
	} else {
		matches, err := filepath.Glob(filepath.Join(batchDir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", batchDir, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no *.json submissions in %s", batchDir)
		}
		sort.Strings(matches)
		paths = matches
	}

	subs := make([]*forms.Submission, 0, len(paths))
	for _, path := range paths {
		sub, err := forms.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if sub.RunID == "" {
			sub.RunID = uuid.NewString()
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat)); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}
	if cfg.Output.ReportDir != "" {
		rs, err := output.NewReportSink(cfg.Output.ReportDir)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}
	return outMgr, nil
}

func setupEngine(cfg *config.Config, outMgr *output.Manager, logger *zap.Logger) (*engine.Engine, func(), error) {
	cleanup := func() {}

	key := cfg.GenerationKey()
	if key == "" {
		return nil, cleanup, fmt.Errorf("generation API key is required (set %s)", cfg.Backends.GenerationKeyEnv)
	}
	llmClient, err := llm.NewHTTPClient(
		cfg.Backends.GenerationURL, cfg.Backends.GenerationModel, key,
		llm.WithTimeout(cfg.Backends.GenerationTimeout),
		llm.WithVerbose(cfg.Runtime.Verbose, nil),
	)
	if err != nil {
		return nil, cleanup, err
	}

	var search research.Client
	if !cfg.Pipeline.SkipResearch {
		search = research.NewCachedClient(research.NewHTTPClient(
			cfg.Backends.SearchURL, cfg.Backends.SearchModel, cfg.SearchKey(), cfg.Backends.SearchTimeout))
	}

	var store pii.Store = pii.NewMemoryStore()
	if cfg.Pipeline.PIIStorePath != "" {
		sqlStore, err := pii.OpenSQLiteStore(cfg.Pipeline.PIIStorePath)
		if err != nil {
			return nil, cleanup, err
		}
		store = sqlStore
		cleanup = func() { _ = sqlStore.Close() }
	}

	var crm crmlog.Logger = crmlog.Noop{}
	if cfg.Pipeline.CRMLogPath != "" || cfg.Pipeline.ResponseLogPath != "" {
		crm = crmlog.NewCSVLogger(cfg.Pipeline.CRMLogPath, cfg.Pipeline.ResponseLogPath)
	}

	eng, err := engine.New(engine.Deps{
		Coercer:      coerce.New(llmClient, cfg.Backends.MaxRetries),
		Search:       search,
		PIIStore:     store,
		CRM:          crm,
		Out:          outMgr,
		Log:          logger,
		SkipResearch: cfg.Pipeline.SkipResearch,
	})
	if err != nil {
		return nil, cleanup, err
	}
	return eng, cleanup, nil
}

func init() {
	rootCmd.AddCommand(assessCmd)

	// Input
	assessCmd.Flags().StringVar(&submissionPath, flags.FlagSubmission, "", "Path to one submission JSON file")
	assessCmd.Flags().StringVar(&batchDir, flags.FlagBatchDir, "", "Directory of submission *.json files to assess")

	// Backends
	assessCmd.Flags().StringVar(&cfg.Backends.GenerationURL, flags.FlagLLMURL, cfg.Backends.GenerationURL, "Text-generation backend base URL")
	assessCmd.Flags().StringVar(&cfg.Backends.GenerationModel, flags.FlagLLMModel, cfg.Backends.GenerationModel, "Text-generation model name")
	assessCmd.Flags().StringVar(&cfg.Backends.GenerationKeyEnv, flags.FlagLLMKeyEnv, cfg.Backends.GenerationKeyEnv, "Environment variable holding the generation API key")
	assessCmd.Flags().DurationVar(&cfg.Backends.GenerationTimeout, flags.FlagLLMTimeout, cfg.Backends.GenerationTimeout, "Per-call generation timeout")
	assessCmd.Flags().StringVar(&cfg.Backends.SearchURL, flags.FlagSearchURL, cfg.Backends.SearchURL, "Search backend base URL")
	assessCmd.Flags().StringVar(&cfg.Backends.SearchModel, flags.FlagSearchModel, cfg.Backends.SearchModel, "Search model name")
	assessCmd.Flags().StringVar(&cfg.Backends.SearchKeyEnv, flags.FlagSearchKeyEnv, cfg.Backends.SearchKeyEnv, "Environment variable holding the search API key (empty env value = fallback benchmarks)")
	assessCmd.Flags().DurationVar(&cfg.Backends.SearchTimeout, flags.FlagSearchTimeout, cfg.Backends.SearchTimeout, "Per-call search timeout")
	assessCmd.Flags().IntVar(&cfg.Backends.MaxRetries, flags.FlagMaxRetries, cfg.Backends.MaxRetries, "Additional attempts when structured output cannot be parsed")

	// Pipeline
	assessCmd.Flags().StringVar(&cfg.Pipeline.PIIStorePath, flags.FlagPIIStore, "", "Persist PII mappings to this SQLite file (default: in-memory)")
	assessCmd.Flags().StringVar(&cfg.Pipeline.KeywordOverrides, flags.FlagKeywords, "", "YAML file overriding per-industry value-driver keywords")
	assessCmd.Flags().StringVar(&cfg.Pipeline.CRMLogPath, flags.FlagCRMLog, "", "Append submission contacts to this CSV file")
	assessCmd.Flags().StringVar(&cfg.Pipeline.ResponseLogPath, flags.FlagResponseLog, "", "Append anonymized responses to this CSV file")
	assessCmd.Flags().BoolVar(&cfg.Pipeline.SkipResearch, flags.FlagSkipResearch, false, "Skip the search backend and use fallback benchmarks")

	// Output
	assessCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	assessCmd.Flags().StringVar(&cfg.Output.ReportDir, flags.FlagReportDir, "", "Write each run's Markdown report into this directory")
	assessCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	assessCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	assessCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out/--report-dir)")

	// Runtime
	assessCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent submissions in batch mode")
	assessCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for the whole invocation")
}
