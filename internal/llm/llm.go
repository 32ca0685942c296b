package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ixanadu/saa/internal/model"
)

// DefaultModel is used when the operator does not pick one.
const DefaultModel = "xai:grok-4"

var (
	// ErrUnavailable marks any condition under which narrative
	// synthesis cannot run: missing key, transport failure, provider
	// error, timeout. Callers degrade to a structured-only report.
	ErrUnavailable = errors.New("llm unavailable")

	// ErrUnknownProvider is returned for a provider prefix that is not
	// supported.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Request carries everything the model is allowed to see: the audit
// plan that constrains the narrative, and the structured results it
// must stay grounded in.
type Request struct {
	Plan     string
	Result   *model.AuditResult
	Findings []model.Finding
}

// Client produces an audit narrative from structured findings.
type Client interface {
	// Synthesize returns narrative markdown, or an error wrapping
	// ErrUnavailable when the provider cannot be reached or refuses.
	Synthesize(ctx context.Context, req Request) (string, error)

	// Model identifies the provider and model for report headers.
	Model() string
}

// Options configures client construction.
type Options struct {
	// APIKey authenticates against the provider.
	APIKey string

	// Timeout bounds one synthesis call end to end.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint. Tests use this; empty
	// selects the provider default.
	BaseURL string
}

// New resolves a provider:model spec ("xai:grok-4",
// "anthropic:claude-sonnet-4-5") to a client. A missing API key is not
// an error here: the client is built and fails with ErrUnavailable at
// call time, so a keyless run still produces its structured report.
func New(spec string, opts Options) (Client, error) {
	if spec == "" {
		spec = DefaultModel
	}
	provider, modelName, ok := strings.Cut(spec, ":")
	if !ok || modelName == "" {
		return nil, fmt.Errorf("malformed model spec %q, want provider:model", spec)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}

	switch provider {
	case "xai":
		return newXAIClient(modelName, opts), nil
	case "anthropic":
		return newAnthropicClient(modelName, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
