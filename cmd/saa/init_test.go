package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/ixanadu/saa/internal/config"
)

// runInit executes the init command with the config dir redirected
// into a temp directory.
func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCreatesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".saa.yaml")

	out, err := runInit(t, "--output", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("output = %q, want creation notice", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "default_llm") {
		t.Error("template should document default_llm")
	}
	if strings.Contains(string(data), "api_key") && !strings.Contains(string(data), "do NOT belong") {
		t.Error("config template must not invite API keys")
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".saa.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := runInit(t, "--output", path); err == nil {
		t.Fatal("init should refuse to overwrite without --force")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "existing" {
		t.Error("existing file was modified")
	}
}

func TestInitForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".saa.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := runInit(t, "--output", path, "--force"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) == "existing" {
		t.Error("--force should replace the file")
	}
}

func TestInitWritesKeysSkeletonAndPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".saa.yaml")
	if _, err := runInit(t, "--output", path); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	keysPath := filepath.Join(config.ConfigDir(), config.KeysFileName)
	info, err := os.Stat(keysPath)
	if err != nil {
		t.Fatalf("keys skeleton not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("keys file mode = %v, want 0600", info.Mode().Perm())
	}

	planPath := filepath.Join(config.ConfigDir(), "plan.md")
	if _, err := os.Stat(planPath); err != nil {
		t.Errorf("default plan not installed: %v", err)
	}
}

func TestInitUpdatePlanArchivesCurrent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	planPath := filepath.Join(config.ConfigDir(), "plan.md")
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(planPath, []byte("# Custom plan\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--update-plan"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Custom plan") {
		t.Error("active plan should have been replaced by the bundled one")
	}

	archives, err := os.ReadDir(filepath.Join(config.ConfigDir(), "plans"))
	if err != nil || len(archives) != 1 {
		t.Errorf("previous plan should be archived, got %v entries (err %v)", len(archives), err)
	}
}
