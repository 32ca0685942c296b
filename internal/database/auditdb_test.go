package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ixanadu/saa/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *AuditDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult(url string, startedAt time.Time) *model.AuditResult {
	return &model.AuditResult{
		StartURL:  url,
		Mode:      model.ModeOwn,
		StartedAt: startedAt,
		Pages: []model.PageRecord{
			model.NewSuccessPage(url, 0, 200, "<html></html>"),
			model.NewFailedPage(url+"/dead", 1, 404, "status 404 Not Found"),
		},
		Findings: []model.Finding{
			{
				CheckID:  "page_unreachable",
				URL:      url + "/dead",
				Severity: model.SeverityCritical,
				Message:  "page could not be fetched: status 404 Not Found",
			},
			{
				CheckID:  "missing_title",
				URL:      url,
				Severity: model.SeverityWarning,
				Message:  "page has no title",
			},
		},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
	db, err := Open(dbDir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenRequiresExistingWhenCreateDisabled(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false, EnableWAL: true}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error opening a missing database with CreateIfNotExists=false")
	}
}

func TestSaveAndGetAudit(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	result := sampleResult("https://example.com", time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC))
	id, err := db.SaveAudit(ctx, result)
	if err != nil {
		t.Fatalf("SaveAudit: %v", err)
	}
	if id == 0 {
		t.Fatal("SaveAudit returned zero id")
	}

	stored, err := db.GetAudit(ctx, id)
	if err != nil {
		t.Fatalf("GetAudit: %v", err)
	}
	if stored == nil {
		t.Fatal("GetAudit returned nil for saved audit")
	}
	if stored.StartURL != result.StartURL {
		t.Errorf("StartURL = %q, want %q", stored.StartURL, result.StartURL)
	}
	if len(stored.Findings) != 2 {
		t.Errorf("stored findings = %d, want 2", len(stored.Findings))
	}
	if stored.PagesCrawled() != 1 || stored.PagesFailed() != 1 {
		t.Errorf("page counts = (%d, %d), want (1, 1)",
			stored.PagesCrawled(), stored.PagesFailed())
	}
}

func TestGetAuditMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	stored, err := db.GetAudit(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetAudit: %v", err)
	}
	if stored != nil {
		t.Error("GetAudit for unknown id should return nil")
	}
}

func TestListAudits(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, url := range []string{"https://a.example", "https://b.example", "https://a.example"} {
		if _, err := db.SaveAudit(ctx, sampleResult(url, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveAudit %d: %v", i, err)
		}
	}

	all, err := db.ListAudits(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListAudits: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d audits, want 3", len(all))
	}
	if !all[0].StartedAt.After(all[2].StartedAt) {
		t.Error("audits should be listed newest first")
	}
	if all[0].CriticalCount != 1 || all[0].WarningCount != 1 {
		t.Errorf("summary counts = (%d, %d), want (1, 1)",
			all[0].CriticalCount, all[0].WarningCount)
	}

	siteA, err := db.ListAudits(ctx, "https://a.example", 0)
	if err != nil {
		t.Fatalf("ListAudits filtered: %v", err)
	}
	if len(siteA) != 2 {
		t.Errorf("got %d audits for site a, want 2", len(siteA))
	}

	limited, err := db.ListAudits(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListAudits limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d audits with limit 1", len(limited))
	}
}
