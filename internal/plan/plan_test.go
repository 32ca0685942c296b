package plan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPlanIsBundled(t *testing.T) {
	t.Parallel()

	if !strings.Contains(Default(), "# Audit plan") {
		t.Error("bundled plan is missing its heading")
	}
	if !strings.Contains(Default(), "findings") {
		t.Error("bundled plan should constrain the narrative to findings")
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	got, err := m.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Default() {
		t.Error("empty dir should serve the bundled default plan")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.md")
	if err := os.WriteFile(path, []byte("custom plan"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(t.TempDir())
	got, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "custom plan" {
		t.Errorf("Load = %q", got)
	}

	if _, err := m.Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("missing explicit plan should be an error, not a silent fallback")
	}
}

func TestInstallAndLoad(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.Install("version one"); err != nil {
		t.Fatalf("Install: %v", err)
	}

	got, err := m.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "version one" {
		t.Errorf("Load = %q", got)
	}

	if err := m.Install("   \n"); err == nil {
		t.Error("empty plan should be rejected")
	}
}

func TestInstallArchivesPrevious(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.Install("version one"); err != nil {
		t.Fatal(err)
	}
	if err := m.Install("version two"); err != nil {
		t.Fatal(err)
	}

	archives, err := m.ListArchives()
	if err != nil {
		t.Fatalf("ListArchives: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("got %d archives, want 1", len(archives))
	}

	data, err := os.ReadFile(archives[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version one" {
		t.Errorf("archived content = %q", data)
	}
}

func TestRollback(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.Install("version one"); err != nil {
		t.Fatal(err)
	}
	if err := m.Install("version two"); err != nil {
		t.Fatal(err)
	}

	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	got, err := m.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "version one" {
		t.Errorf("after rollback Load = %q, want version one", got)
	}

	// The consumed archive is gone; a second rollback has nothing left.
	if err := m.Rollback(); !errors.Is(err, ErrNoArchive) {
		t.Errorf("second Rollback = %v, want ErrNoArchive", err)
	}
}

func TestRollbackWithoutHistory(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())
	if err := m.Rollback(); !errors.Is(err, ErrNoArchive) {
		t.Errorf("Rollback on empty manager = %v, want ErrNoArchive", err)
	}
}
