package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ixanadu/saa/internal/config"
	"github.com/ixanadu/saa/internal/crawler"
	"github.com/ixanadu/saa/internal/database"
	"github.com/ixanadu/saa/internal/fetcher"
	"github.com/ixanadu/saa/internal/llm"
	"github.com/ixanadu/saa/internal/log"
	"github.com/ixanadu/saa/internal/pipeline"
	"github.com/ixanadu/saa/internal/plan"
	"github.com/ixanadu/saa/internal/report"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [flags] URL [URL...]",
		Short: "Audit one or more websites",
		Long: `Audit crawls each target with a headless browser, runs the check
set for the selected mode over the rendered pages, and writes a report.

In "own" mode the crawl is deep and the full check set runs. In
"competitor" mode the crawl stays shallow and only the reduced check
set runs, keeping the footprint on a third-party site small.

Interrupting a run (Ctrl-C) does not discard it: the report is built
from the pages fetched so far and marked as interrupted. The only
failing outcome is a crawl that fetches no page at all.`,
		Example: `  saa audit https://example.com
  saa audit --mode competitor https://rival.example
  saa audit --no-llm --output report.md https://example.com
  saa audit --batch 4 https://a.example https://b.example https://c.example`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAuditCmd,
	}

	cmd.Flags().StringP("mode", "m", "own", "Audit mode: own or competitor")
	cmd.Flags().IntP("depth", "d", 0, "Maximum crawl depth (0 = mode default)")
	cmd.Flags().Int("max-pages", 0, "Maximum page fetch attempts (0 = mode default)")
	cmd.Flags().String("pacing", "", "Delay level between fetches: off, low, medium, high")
	cmd.Flags().StringP("llm", "l", "", "Model for the narrative, as provider:model")
	cmd.Flags().Bool("no-llm", false, "Skip the narrative and emit the structured report only")
	cmd.Flags().StringP("plan", "p", "", "Audit plan file constraining the narrative")
	cmd.Flags().Bool("no-plan", false, "Run the narrative without an audit plan")
	cmd.Flags().StringP("output", "o", "", "Report file path (\"-\" for stdout)")
	cmd.Flags().StringP("output-dir", "O", "", "Directory for auto-named report files")
	cmd.Flags().BoolP("json", "j", false, "Write the report as JSON instead of markdown")
	cmd.Flags().StringP("config", "c", "", "Configuration file path")
	cmd.Flags().IntP("batch", "b", 2, "Concurrent audits when multiple targets are given")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, jsonOut, err := buildAuditConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// An interrupt cancels the crawl but still yields a partial report.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Output != "" && cfg.Output != "-" && len(cfg.Targets) > 1 {
		return fmt.Errorf("--output names a single file; use --output-dir for %d targets", len(cfg.Targets))
	}

	pacing, err := crawler.ParsePacing(cfg.Pacing)
	if err != nil {
		return err
	}

	planText := ""
	if !cfg.NoPlan {
		planText, err = plan.NewManager(config.ConfigDir()).Load(cfg.PlanPath)
		if err != nil {
			return err
		}
	}

	var client llm.Client
	if !cfg.NoLLM {
		client, err = llm.New(cfg.LLM, llm.Options{
			APIKey:  apiKeyFor(cfg),
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return err
		}
	}

	var db *database.AuditDB
	if cfg.DBDir != "" {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("audit history disabled", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	// Browsers and report files are created per target inside the
	// pipeline factory; collect them so everything is released after
	// the whole batch finishes.
	var mu sync.Mutex
	var cleanups []func()
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range cleanups {
			f()
		}
	}()

	factory := func(target string) (*pipeline.Pipeline, error) {
		f, err := fetcher.NewChrome(fetcher.Options{
			Timeout:  cfg.FetchTimeout,
			ExecPath: cfg.ChromiumPath,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}

		writers, closers, err := buildWriters(cfg, target, jsonOut)
		if err != nil {
			f.Close()
			return nil, err
		}

		mu.Lock()
		cleanups = append(cleanups, func() {
			f.Close()
			for _, c := range closers {
				c.Close()
			}
		})
		mu.Unlock()

		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			&pipeline.CrawlStep{
				Crawler:  crawler.New(f, crawler.WithPacing(pacing), crawler.WithLogger(logger)),
				MaxDepth: cfg.MaxDepth,
				MaxPages: cfg.MaxPages,
			},
			&pipeline.CheckStep{Logger: logger},
			&pipeline.ReportStep{
				Client:   client,
				PlanText: planText,
				Writers:  writers,
				Logger:   logger,
			},
			&pipeline.SaveStep{DB: db, Logger: logger},
		)
		return p, nil
	}

	if len(cfg.Targets) == 1 {
		p, err := factory(cfg.Targets[0])
		if err != nil {
			return err
		}
		return p.Execute(ctx, pipeline.NewResult(cfg.Targets[0], cfg.Mode))
	}

	concurrency, _ := cmd.Flags().GetInt("batch")
	bp := pipeline.NewBatchProcessor(cfg.Mode, factory,
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(logger),
	)
	_, err = bp.ProcessBatch(ctx, cfg.Targets)
	return err
}

// buildAuditConfig assembles the configuration from defaults, the
// config file, and flags, in that precedence order.
func buildAuditConfig(cmd *cobra.Command, args []string) (*config.Config, bool, error) {
	cfg := config.New()
	cfg.Targets = args

	configPath, _ := cmd.Flags().GetString("config")
	if found := config.FindConfigFile(configPath); found != "" {
		f, err := config.LoadFile(found)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load config %s: %w", found, err)
		}
		f.Apply(cfg)
	} else if configPath != "" {
		return nil, false, fmt.Errorf("config file not found: %s", configPath)
	}

	cfg.Mode, _ = cmd.Flags().GetString("mode")
	if v, _ := cmd.Flags().GetInt("depth"); v > 0 {
		cfg.MaxDepth = v
	}
	if v, _ := cmd.Flags().GetInt("max-pages"); v > 0 {
		cfg.MaxPages = v
	}
	if cmd.Flags().Changed("pacing") {
		cfg.Pacing, _ = cmd.Flags().GetString("pacing")
	}
	if cmd.Flags().Changed("llm") {
		cfg.LLM, _ = cmd.Flags().GetString("llm")
	}
	if cmd.Flags().Changed("plan") {
		cfg.PlanPath, _ = cmd.Flags().GetString("plan")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	cfg.NoLLM, _ = cmd.Flags().GetBool("no-llm")
	cfg.NoPlan, _ = cmd.Flags().GetBool("no-plan")
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	jsonOut, _ := cmd.Flags().GetBool("json")

	config.LoadKeys(cfg)
	cfg.ApplyModeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, jsonOut, nil
}

// buildWriters resolves where a target's report goes. The full report
// is written to stdout by default; when it goes to a file instead, a
// console summary is printed alongside it.
func buildWriters(cfg *config.Config, target string, jsonOut bool) ([]report.Writer, []io.Closer, error) {
	toStdout := cfg.Output == "-" || (cfg.Output == "" && cfg.OutputDir == "")
	if toStdout {
		return []report.Writer{newReportWriter(os.Stdout, jsonOut)}, nil, nil
	}

	path := cfg.Output
	if path == "" {
		path = autoReportName(cfg.OutputDir, target, jsonOut)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	file, err := os.Create(path) //nolint:gosec // user-chosen report path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}

	writers := []report.Writer{
		report.NewConsoleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)),
		newReportWriter(file, jsonOut),
	}
	return writers, []io.Closer{file}, nil
}

// newReportWriter picks the report format for one destination.
func newReportWriter(w io.Writer, jsonOut bool) report.Writer {
	if jsonOut {
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	}
	return report.NewMarkdownWriter(w)
}

// autoReportName builds a per-target file name under dir, e.g.
// reports/example.com_20260826-143000.md.
func autoReportName(dir, target string, jsonOut bool) string {
	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ReplaceAll(host, ":", "-")

	ext := ".md"
	if jsonOut {
		ext = ".json"
	}
	name := fmt.Sprintf("%s_%s%s", host, time.Now().Format("20060102-150405"), ext)
	return filepath.Join(dir, name)
}

// apiKeyFor returns the credential matching the configured provider.
func apiKeyFor(cfg *config.Config) string {
	provider, _, _ := strings.Cut(cfg.LLM, ":")
	if provider == "anthropic" {
		return cfg.AnthropicAPIKey
	}
	return cfg.XAIAPIKey
}
