package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ixanadu/saa/internal/config"
)

// parseAuditFlags builds the audit command and parses flags the way
// cobra would before RunE fires.
func parseAuditFlags(t *testing.T, flags ...string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep a real ~/.saa.yaml out of the test

	cmd := NewAuditCmd()
	cmd.Flags().BoolP("verbose", "v", false, "") // persistent flag lives on root
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("ParseFlags(%v): %v", flags, err)
	}

	cfg, _, err := buildAuditConfig(cmd, []string{"https://example.com"})
	if err != nil {
		t.Fatalf("buildAuditConfig: %v", err)
	}
	return cfg
}

func TestBuildAuditConfigDefaults(t *testing.T) {
	cfg := parseAuditFlags(t)

	if cfg.Mode != "own" {
		t.Errorf("Mode = %q, want own", cfg.Mode)
	}
	if cfg.MaxDepth != config.DefaultOwnDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, config.DefaultOwnDepth)
	}
	if cfg.MaxPages != config.DefaultOwnMaxPages {
		t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, config.DefaultOwnMaxPages)
	}
	if cfg.Pacing != config.DefaultPacing {
		t.Errorf("Pacing = %q, want %q", cfg.Pacing, config.DefaultPacing)
	}
	if cfg.LLM != config.DefaultLLM {
		t.Errorf("LLM = %q, want %q", cfg.LLM, config.DefaultLLM)
	}
}

func TestBuildAuditConfigCompetitorDefaults(t *testing.T) {
	cfg := parseAuditFlags(t, "--mode", "competitor")

	if cfg.MaxDepth != config.DefaultCompetitorDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, config.DefaultCompetitorDepth)
	}
	if cfg.MaxPages != config.DefaultCompetitorMaxPages {
		t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, config.DefaultCompetitorMaxPages)
	}
}

func TestBuildAuditConfigFlagsOverrideModeDefaults(t *testing.T) {
	cfg := parseAuditFlags(t, "--mode", "competitor", "--depth", "3", "--max-pages", "50")

	if cfg.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
	}
	if cfg.MaxPages != 50 {
		t.Errorf("MaxPages = %d, want 50", cfg.MaxPages)
	}
}

func TestBuildAuditConfigRejectsInvalidMode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := NewAuditCmd()
	if err := cmd.ParseFlags([]string{"--mode", "stealth"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := buildAuditConfig(cmd, []string{"https://example.com"}); err == nil {
		t.Error("an unknown mode should be rejected")
	}
}

func TestBuildAuditConfigAppliesConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "saa.yaml")
	content := "pacing: high\nmax_pages: 42\noutput_dir: reports\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := NewAuditCmd()
	if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := buildAuditConfig(cmd, []string{"https://example.com"})
	if err != nil {
		t.Fatalf("buildAuditConfig: %v", err)
	}

	if cfg.Pacing != "high" {
		t.Errorf("Pacing = %q, want high", cfg.Pacing)
	}
	if cfg.MaxPages != 42 {
		t.Errorf("MaxPages = %d, want 42", cfg.MaxPages)
	}
	if cfg.OutputDir != "reports" {
		t.Errorf("OutputDir = %q, want reports", cfg.OutputDir)
	}
}

func TestBuildAuditConfigMissingExplicitConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := NewAuditCmd()
	if err := cmd.ParseFlags([]string{"--config", "/does/not/exist.yaml"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := buildAuditConfig(cmd, []string{"https://example.com"}); err == nil {
		t.Error("an explicitly named missing config file should be an error")
	}
}

func TestAutoReportName(t *testing.T) {
	t.Parallel()

	got := autoReportName("reports", "https://example.com:8080/path", false)
	if !strings.HasPrefix(got, filepath.Join("reports", "example.com-8080_")) {
		t.Errorf("autoReportName = %q", got)
	}
	if !strings.HasSuffix(got, ".md") {
		t.Errorf("markdown report should end in .md, got %q", got)
	}

	got = autoReportName("reports", "https://example.com", true)
	if !strings.HasSuffix(got, ".json") {
		t.Errorf("json report should end in .json, got %q", got)
	}
}

func TestAPIKeyForProvider(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		LLM:             "anthropic:claude-sonnet-4-5",
		XAIAPIKey:       "xai-key",
		AnthropicAPIKey: "ant-key",
	}
	if got := apiKeyFor(cfg); got != "ant-key" {
		t.Errorf("apiKeyFor = %q, want ant-key", got)
	}

	cfg.LLM = "xai:grok-4"
	if got := apiKeyFor(cfg); got != "xai-key" {
		t.Errorf("apiKeyFor = %q, want xai-key", got)
	}
}
