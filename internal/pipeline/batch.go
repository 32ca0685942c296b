package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ixanadu/saa/internal/model"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor audits multiple targets concurrently, one pipeline
// per target.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because it keeps the Pipeline
// focused on single-audit execution and gives batch policy (limits,
// per-target failure isolation) its own home.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per target, so pipeline
	// state (fetcher session, writers) never leaks between audits.
	pipelineFactory func(target string) (*Pipeline, error)

	// mode is applied to every target in the batch.
	mode string

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	logger *slog.Logger

	results []*model.AuditResult
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
// The default is 2: each audit already runs its own browser session
// and pacing policy, so wide batches buy little and cost much.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called
// once per target.
func NewBatchProcessor(mode string, factory func(target string) (*Pipeline, error), opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: factory,
		mode:            mode,
		concurrency:     2,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch audits every target, respecting the concurrency limit.
// Results are returned in target order; a failed target yields its
// partial result and the first failure is returned after all targets
// finish. One target's failure never cancels the others.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.AuditResult, error) {
	bp.logger.Info("starting batch audit",
		"targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	bp.results = make([]*model.AuditResult, len(targets))

	// No errgroup.WithContext here: a failing target must not cancel
	// its siblings. The caller's ctx still cancels everything.
	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	var firstErr error
	var errOnce sync.Once

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}

			bp.logger.Info("auditing target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			result := NewResult(target, bp.mode)
			p, err := bp.pipelineFactory(target)
			if err == nil {
				err = p.Execute(ctx, result)
			}

			bp.mu.Lock()
			bp.results[i] = result
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("audit failed", "target", target, "error", err)
				errOnce.Do(func() { firstErr = err })
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines always return nil; failures land in firstErr

	bp.logger.Info("batch audit complete",
		"targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	return bp.results, firstErr
}
