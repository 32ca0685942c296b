package model

import "testing"

// TestPageRecordExclusivity verifies that the constructors enforce the
// html/error mutual exclusion.
func TestPageRecordExclusivity(t *testing.T) {
	t.Parallel()

	t.Run("success page has html and no error", func(t *testing.T) {
		t.Parallel()

		p := NewSuccessPage("https://example.com", 0, 200, "<html></html>")
		if p.Failed() {
			t.Error("success page must not report Failed()")
		}
		if p.HTML == "" {
			t.Error("success page must carry html")
		}
		if p.Err != "" {
			t.Errorf("success page must not carry an error, got %q", p.Err)
		}
	})

	t.Run("failed page has error and no html", func(t *testing.T) {
		t.Parallel()

		p := NewFailedPage("https://example.com/missing", 1, 404, "status 404")
		if !p.Failed() {
			t.Error("failed page must report Failed()")
		}
		if p.HTML != "" {
			t.Error("failed page must not carry html")
		}
		if p.Err != "status 404" {
			t.Errorf("expected cause %q, got %q", "status 404", p.Err)
		}
	})

	t.Run("empty cause gets a default", func(t *testing.T) {
		t.Parallel()

		p := NewFailedPage("https://example.com", 0, 0, "")
		if p.Err == "" {
			t.Error("failed page must always carry a non-empty cause")
		}
	})
}

// TestSuccessfulPages tests partitioning of mixed crawl output.
func TestSuccessfulPages(t *testing.T) {
	t.Parallel()

	pages := []PageRecord{
		NewSuccessPage("https://a.test", 0, 200, "<html></html>"),
		NewFailedPage("https://a.test/broken", 1, 500, "status 500"),
		NewSuccessPage("https://a.test/about", 1, 200, "<html></html>"),
	}

	ok := SuccessfulPages(pages)
	if len(ok) != 2 {
		t.Fatalf("expected 2 successful pages, got %d", len(ok))
	}
	for _, p := range ok {
		if p.Failed() {
			t.Errorf("successful partition contains failed page %s", p.URL)
		}
	}
}

// TestAuditResultCounts tests the aggregate counters.
func TestAuditResultCounts(t *testing.T) {
	t.Parallel()

	result := &AuditResult{
		Pages: []PageRecord{
			NewSuccessPage("https://a.test", 0, 200, "<html></html>"),
			NewFailedPage("https://a.test/x", 1, 404, "status 404"),
		},
		Findings: []Finding{
			{CheckID: "missing_title", Severity: SeverityWarning},
			{CheckID: "page_unreachable", Severity: SeverityCritical},
			{CheckID: "missing_canonical", Severity: SeverityInfo},
			{CheckID: "missing_h1", Severity: SeverityWarning},
		},
	}

	if got := result.PagesCrawled(); got != 1 {
		t.Errorf("PagesCrawled() = %d, expected 1", got)
	}
	if got := result.PagesFailed(); got != 1 {
		t.Errorf("PagesFailed() = %d, expected 1", got)
	}
	if got := result.CountBySeverity(SeverityWarning); got != 2 {
		t.Errorf("CountBySeverity(warning) = %d, expected 2", got)
	}
	if got := result.CountBySeverity(SeverityCritical); got != 1 {
		t.Errorf("CountBySeverity(critical) = %d, expected 1", got)
	}
}
