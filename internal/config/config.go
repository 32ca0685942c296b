package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ixanadu/saa/internal/model"
)

// Default configuration values.
// The crawl bounds mirror the audit modes: "own" audits assume the
// operator controls the site and can tolerate a thorough crawl, while
// "competitor" audits stay deliberately small to minimize footprint.
const (
	// DefaultOwnDepth allows a thorough crawl of a typical site the
	// operator controls. Deeper structures exist but rarely carry
	// audit-relevant pages.
	DefaultOwnDepth = 10

	// DefaultOwnMaxPages caps an own-site audit. This bounds both run
	// time and memory; larger sites can raise it via --max-pages.
	DefaultOwnMaxPages = 200

	// DefaultCompetitorDepth of 1 fetches the start page plus its
	// direct links only. Competitor scans are intentionally shallow.
	DefaultCompetitorDepth = 1

	// DefaultCompetitorMaxPages keeps competitor scans short enough to
	// stay under rate-limiting and detection thresholds.
	DefaultCompetitorMaxPages = 20

	// DefaultFetchTimeout is the per-page render budget. Headless
	// rendering is slower than a plain GET, so this is generous.
	DefaultFetchTimeout = 45 * time.Second

	// DefaultLLMTimeout bounds the single narrative synthesis call.
	DefaultLLMTimeout = 120 * time.Second

	// DefaultLLM is the provider:model used for narrative synthesis
	// when the user does not choose one.
	DefaultLLM = "xai:grok-4"

	// DefaultPacing is the pacing level applied between fetches.
	DefaultPacing = "medium"

	// DefaultMaxBodySize limits the rendered document size we keep.
	// 5MB is ample for HTML while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is used for XDG directory paths and config file naming.
	AppName = "saa"
)

// Config holds all options for one invocation. It is populated from
// defaults, the config file, and CLI flags, then passed through the
// application by dependency injection rather than global state.
type Config struct {
	// Mode is model.ModeOwn or model.ModeCompetitor.
	Mode string

	// MaxDepth and MaxPages bound the crawl. Zero means "use the
	// default for the selected mode" (see ApplyModeDefaults).
	MaxDepth int
	MaxPages int

	// Pacing is the delay level between fetches: off, low, medium, high.
	Pacing string

	// FetchTimeout is the per-page render budget.
	FetchTimeout time.Duration

	// ChromiumPath optionally points at a browser binary. Empty means
	// let the browser driver locate one.
	ChromiumPath string

	// LLM is the provider:model identifier for narrative synthesis,
	// e.g. "anthropic:claude-sonnet-4-5" or "xai:grok-4".
	LLM string

	// NoLLM disables the narrative pass entirely.
	NoLLM bool

	// LLMTimeout bounds the synthesis request.
	LLMTimeout time.Duration

	// XAIAPIKey and AnthropicAPIKey are the provider credentials,
	// loaded from the keys file or environment. Never from .saa.yaml.
	XAIAPIKey       string
	AnthropicAPIKey string

	// PlanPath points at the audit plan document. Empty means no plan.
	PlanPath string

	// NoPlan skips the audit plan even if one is configured.
	NoPlan bool

	// Output is the report file path. Empty with OutputDir set means
	// auto-generate a name under OutputDir; empty with no OutputDir
	// means print to stdout.
	Output    string
	OutputDir string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// DBDir is the directory for the audit history database. Empty
	// disables persistence.
	DBDir string

	// Targets is the list of start URLs to audit.
	Targets []string
}

// New returns a Config carrying the built-in defaults.
func New() *Config {
	return &Config{
		Mode:         model.ModeOwn,
		Pacing:       DefaultPacing,
		FetchTimeout: DefaultFetchTimeout,
		LLM:          DefaultLLM,
		LLMTimeout:   DefaultLLMTimeout,
		DBDir:        DataDir(),
	}
}

// ApplyModeDefaults fills MaxDepth and MaxPages from the selected mode
// when the caller did not set them explicitly.
func (c *Config) ApplyModeDefaults() {
	if c.MaxDepth <= 0 {
		if c.Mode == model.ModeCompetitor {
			c.MaxDepth = DefaultCompetitorDepth
		} else {
			c.MaxDepth = DefaultOwnDepth
		}
	}
	if c.MaxPages <= 0 {
		if c.Mode == model.ModeCompetitor {
			c.MaxPages = DefaultCompetitorMaxPages
		} else {
			c.MaxPages = DefaultOwnMaxPages
		}
	}
}

// Validate checks the configuration for internal consistency.
// It returns one of the sentinel errors from errors.go.
func (c *Config) Validate() error {
	if c.Mode != model.ModeOwn && c.Mode != model.ModeCompetitor {
		return ErrInvalidMode
	}
	switch c.Pacing {
	case "off", "low", "medium", "high":
	default:
		return ErrInvalidPacing
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	return nil
}

// DataDir returns the XDG data directory for saa
// (~/.local/share/saa on Linux). Used for the history database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for saa
// (~/.config/saa on Linux). Used for the keys file and audit plan.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
