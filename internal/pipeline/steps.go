package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ixanadu/saa/internal/checks"
	"github.com/ixanadu/saa/internal/crawler"
	"github.com/ixanadu/saa/internal/database"
	"github.com/ixanadu/saa/internal/llm"
	"github.com/ixanadu/saa/internal/model"
	"github.com/ixanadu/saa/internal/report"
)

// CrawlStep fetches the site into the result.
type CrawlStep struct {
	// Crawler performs the walk. Required.
	Crawler *crawler.Crawler

	// MaxDepth and MaxPages bound the crawl.
	MaxDepth int
	MaxPages int
}

// Name returns the step name.
func (s *CrawlStep) Name() string { return "crawl" }

// Do runs the crawl. Cancellation mid-crawl is not an error: the pages
// fetched so far are kept and the result is marked incomplete. A crawl
// that yields zero successful pages stops the pipeline.
func (s *CrawlStep) Do(ctx context.Context, result *model.AuditResult) error {
	pages, err := s.Crawler.Crawl(ctx, result.StartURL, s.MaxDepth, s.MaxPages)
	result.Pages = pages

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Incomplete = true
		} else {
			return fmt.Errorf("crawl failed: %w", err)
		}
	}

	if result.PagesCrawled() == 0 {
		return fmt.Errorf("%w: attempted %d page(s) from %s",
			ErrNoSuccessfulPages, len(result.Pages), result.StartURL)
	}
	return nil
}

// CheckStep runs the mode's check set over the crawled pages.
type CheckStep struct {
	Logger *slog.Logger
}

// Name returns the step name.
func (s *CheckStep) Name() string { return "checks" }

// Do populates the result's findings. Checks are pure functions over
// already-fetched data, so a cancelled context does not stop them.
func (s *CheckStep) Do(_ context.Context, result *model.AuditResult) error {
	result.Findings = checks.Run(result.Pages, result.Mode, s.Logger)
	return nil
}

// ReportStep composes the report, stores the markdown on the result,
// and writes it to the configured writers.
type ReportStep struct {
	// Client writes the narrative. Nil omits the narrative section.
	Client llm.Client

	// PlanText constrains the narrative.
	PlanText string

	// Writers receive the finished report.
	Writers []report.Writer

	Logger *slog.Logger
}

// Name returns the step name.
func (s *ReportStep) Name() string { return "report" }

// Do renders the report. If the surrounding context is already dead
// the narrative call degrades into its unavailable note; the
// structured report is produced regardless.
func (s *ReportStep) Do(ctx context.Context, result *model.AuditResult) error {
	rep := report.Compose(ctx, result, s.Client, s.PlanText, s.Logger)

	var buf bytes.Buffer
	if _, err := report.NewMarkdownWriter(&buf).Write(rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	result.ReportText = buf.String()

	if _, err := report.NewMultiWriter(s.Writers...).Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// SaveStep appends the finished audit to the history database.
type SaveStep struct {
	// DB is the history store. Nil skips persistence.
	DB *database.AuditDB

	Logger *slog.Logger
}

// Name returns the step name.
func (s *SaveStep) Name() string { return "save" }

// Do persists the result. The write is detached from the run context
// so an interrupt that already cancelled the crawl cannot also lose
// the partial audit.
func (s *SaveStep) Do(ctx context.Context, result *model.AuditResult) error {
	if s.DB == nil {
		return nil
	}

	id, err := s.DB.SaveAudit(context.WithoutCancel(ctx), result)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("audit saved", "id", id, "target", result.StartURL)
	}
	return nil
}
