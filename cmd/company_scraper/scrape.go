package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/company-scraper/internal/config"
	"github.com/jonathan/company-scraper/internal/db"
	"github.com/jonathan/company-scraper/internal/fetch"
	"github.com/jonathan/company-scraper/internal/logging"
	"github.com/jonathan/company-scraper/internal/observability"
	"github.com/jonathan/company-scraper/internal/pipeline"
	"github.com/jonathan/company-scraper/internal/schemas"
	"github.com/jonathan/company-scraper/internal/scraper"
	"github.com/jonathan/company-scraper/internal/sink"
	"github.com/jonathan/company-scraper/internal/source"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every company in the input CSV",
	Long: `Reads the input CSV ("Company Name" and "YC URL" columns), fetches each profile page,
extracts attributes from its description meta tag, and writes one JSON record per company
in input order. A company whose page cannot be scraped keeps its name with no attributes.

Settings are resolved from defaults, then --config, then the environment, then flags.`,
	RunE: runScrape,
}

var (
	scrapeConfigPath  string
	scrapeInPath      string
	scrapeOutPath     string
	scrapeConcurrency int
	scrapeTimeout     int
	scrapeUserAgent   string
	scrapeUseBrowser  bool
	scrapeDatabaseURL string
	scrapeVerbose     bool
	scrapeLogLevel    string
	scrapeValidate    bool
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeConfigPath, "config", "c", "", "Path to JSON config file")
	scrapeCmd.Flags().StringVarP(&scrapeInPath, "in", "i", config.DefaultInputPath, "Input CSV file")
	scrapeCmd.Flags().StringVarP(&scrapeOutPath, "out", "o", config.DefaultOutputPath, "Output JSON file")
	scrapeCmd.Flags().IntVar(&scrapeConcurrency, "concurrency", config.DefaultConcurrency, "Maximum simultaneous page fetches")
	scrapeCmd.Flags().IntVar(&scrapeTimeout, "timeout", config.DefaultTimeoutSeconds, "Per-page timeout in seconds")
	scrapeCmd.Flags().StringVar(&scrapeUserAgent, "user-agent", "", "User-Agent header sent with every request")
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "use-browser", false, "Render pages with headless Chrome")
	scrapeCmd.Flags().StringVar(&scrapeDatabaseURL, "database-url", "", "PostgreSQL URL for storing run results (overrides DATABASE_URL)")
	scrapeCmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print a run summary and use console logging")
	scrapeCmd.Flags().StringVar(&scrapeLogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	scrapeCmd.Flags().BoolVar(&scrapeValidate, "validate", false, "Validate the written file against the output schema")

	rootCmd.AddCommand(scrapeCmd)
}

// resolveScrapeConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func resolveScrapeConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if scrapeConfigPath != "" {
		fileCfg, err := config.LoadConfig(scrapeConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.InputPath = scrapeInPath
	}
	if flags.Changed("out") {
		cfg.OutputPath = scrapeOutPath
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = scrapeConcurrency
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = scrapeTimeout
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = scrapeUserAgent
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = scrapeUseBrowser
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = scrapeDatabaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = scrapeVerbose
	}
	if flags.Changed("validate") {
		cfg.ValidateOutput = scrapeValidate
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = scrapeLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveScrapeConfig(cmd, os.LookupEnv)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.Verbose})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	deps := pipeline.Dependencies{
		Source: &source.CSVFile{
			Path:    cfg.InputPath,
			Columns: source.Columns{Name: cfg.NameColumn, URL: cfg.URLColumn},
		},
		Scraper: scraper.New(newFetcher(cfg), logger),
		Sink:    sink.NewWriter(sink.OSFileSystem{}, logger),
		Logger:  logger,
		Printer: observability.NewPrinter(out),
	}

	if cfg.DatabaseURL != "" {
		store, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Results store unavailable, continuing without it", zap.Error(err))
		} else {
			defer store.Close()
			deps.Store = store
		}
	}

	p := pipeline.New(pipeline.Options{
		InputPath:   cfg.InputPath,
		OutputPath:  cfg.OutputPath,
		Concurrency: cfg.Concurrency,
		Verbose:     cfg.Verbose,
		OnProgress: func(e pipeline.ProgressEvent) {
			if e.OK {
				fmt.Fprintf(out, "[%d/%d] Scraped: %s\n", e.Index+1, e.Total, e.Name)
				return
			}
			fmt.Fprintf(out, "[%d/%d] Failed to scrape: %s\n", e.Index+1, e.Total, e.Name)
		},
	}, deps)

	result, err := p.Execute(ctx)
	if err != nil {
		return err
	}

	if cfg.ValidateOutput {
		if err := schemas.ValidateOutputFile(cfg.OutputPath); err != nil {
			return fmt.Errorf("output validation failed: %w", err)
		}
	}

	fmt.Fprintf(out, "Scraped data for %d companies saved to %s\n", len(result.Records), cfg.OutputPath)
	return nil
}

func newFetcher(cfg config.Config) fetch.Fetcher {
	if cfg.UseBrowser {
		return fetch.NewBrowserFetcher(cfg.Timeout())
	}
	return fetch.NewHTTPFetcher(&fetch.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
	})
}

func openStore(ctx context.Context, databaseURL string) (*db.DB, error) {
	store, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
