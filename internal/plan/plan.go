package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed default-audit-plan.md
var defaultPlan string

const (
	// ActiveFileName is the plan file consulted by audits.
	ActiveFileName = "plan.md"

	// archiveDirName holds previous plan versions next to the active one.
	archiveDirName = "plans"

	// archiveTimeLayout names archives sortably by creation time.
	archiveTimeLayout = "20060102-150405"
)

// ErrNoArchive is returned by Rollback when no previous version exists.
var ErrNoArchive = errors.New("no archived plan to roll back to")

// Default returns the bundled audit plan.
func Default() string {
	return defaultPlan
}

// Manager stores the active plan and its archive under one directory,
// typically the application's XDG data dir.
type Manager struct {
	dir string
}

// NewManager creates a Manager rooted at dir. The directory is created
// on first write, not here.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// ActivePath returns the path of the active plan file.
func (m *Manager) ActivePath() string {
	return filepath.Join(m.dir, ActiveFileName)
}

// Load returns the plan text an audit should use: the explicit path if
// given, otherwise the active plan, otherwise the bundled default.
func (m *Manager) Load(explicitPath string) (string, error) {
	if explicitPath != "" {
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return "", fmt.Errorf("failed to read plan %s: %w", explicitPath, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(m.ActivePath())
	if errors.Is(err, os.ErrNotExist) {
		return defaultPlan, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active plan: %w", err)
	}
	return string(data), nil
}

// Install makes the given plan text the active plan, archiving the
// current active plan first so the change can be rolled back.
func (m *Manager) Install(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("refusing to install an empty plan")
	}
	if err := m.archiveActive(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plan dir: %w", err)
	}
	if err := os.WriteFile(m.ActivePath(), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// InstallDefault writes the bundled plan as the active plan. Used by
// init and as an explicit reset.
func (m *Manager) InstallDefault() error {
	return m.Install(defaultPlan)
}

// Rollback replaces the active plan with the most recent archive and
// removes that archive entry.
func (m *Manager) Rollback() error {
	archives, err := m.ListArchives()
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return ErrNoArchive
	}

	latest := archives[len(archives)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", latest, err)
	}
	if err := os.WriteFile(m.ActivePath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to restore plan: %w", err)
	}
	if err := os.Remove(latest); err != nil {
		return fmt.Errorf("failed to drop restored archive: %w", err)
	}
	return nil
}

// ListArchives returns archived plan paths, oldest first.
func (m *Manager) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.dir, archiveDirName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list plan archive: %w", err)
	}

	var archives []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		archives = append(archives, filepath.Join(m.dir, archiveDirName, e.Name()))
	}
	sort.Strings(archives) // timestamp names sort chronologically
	return archives, nil
}

// archiveActive moves the current active plan, if any, into the
// archive directory under a timestamped name.
func (m *Manager) archiveActive() error {
	data, err := os.ReadFile(m.ActivePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read active plan: %w", err)
	}

	archiveDir := filepath.Join(m.dir, archiveDirName)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}
	name := fmt.Sprintf("plan-%s.md", time.Now().Format(archiveTimeLayout))
	if err := os.WriteFile(filepath.Join(archiveDir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to archive plan: %w", err)
	}
	return nil
}
