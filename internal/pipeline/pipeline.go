package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ixanadu/saa/internal/model"
)

// ErrNoSuccessfulPages is returned when a crawl finishes without a
// single successfully fetched page. There is nothing to audit; this is
// the one condition that fails the whole run.
var ErrNoSuccessfulPages = errors.New("no pages could be fetched")

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each mutating the shared result.
//
// Design decision: We use an interface rather than function types
// because it allows steps to carry configuration state and provides a
// Name() method for logging.
type Step interface {
	// Do executes the pipeline step. Errors returned here stop the
	// pipeline; recoverable conditions are recorded on the result
	// instead.
	Do(ctx context.Context, result *model.AuditResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline. Steps are added with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all steps in sequence against the result.
//
// Design decision: Execute does not abort between steps on a cancelled
// context. An interrupt during the crawl must still produce a report
// from the partial results, so cancellation handling belongs to the
// steps themselves: the crawl step marks the result incomplete, and
// later steps either tolerate a dead context or detach from it.
func (p *Pipeline) Execute(ctx context.Context, result *model.AuditResult) error {
	for _, step := range p.steps {
		p.logger.Info("executing step",
			"step", step.Name(),
			"target", result.StartURL,
		)
		start := time.Now()

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", result.StartURL,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", result.StartURL,
			"elapsed", time.Since(start),
		)
	}
	return nil
}

// NewResult creates the AuditResult a pipeline run fills in.
func NewResult(startURL, mode string) *model.AuditResult {
	return &model.AuditResult{
		StartURL:  startURL,
		Mode:      mode,
		StartedAt: time.Now(),
	}
}
