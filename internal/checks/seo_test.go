package checks

import (
	"strings"
	"testing"

	"github.com/ixanadu/saa/internal/model"
)

// testPage builds a parsed page from head fields and body HTML.
func testPage(t *testing.T, url, title string, meta map[string]string, body string) *Page {
	t.Helper()

	rec := model.NewSuccessPage(url, 0, 200, "<html><body>"+body+"</body></html>")
	rec.Title = title
	rec.Meta = meta

	page, err := NewPage(rec)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return page
}

func findingIDs(findings []model.Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.CheckID)
	}
	return ids
}

func TestMissingTitle(t *testing.T) {
	t.Parallel()

	withTitle := testPage(t, "https://example.com", "A perfectly reasonable page title", nil, "")
	if got := (MissingTitle{}).Run(withTitle); len(got) != 0 {
		t.Errorf("expected no findings for titled page, got %v", findingIDs(got))
	}

	without := testPage(t, "https://example.com", "", nil, "")
	got := (MissingTitle{}).Run(without)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if got[0].CheckID != "missing_title" {
		t.Errorf("CheckID = %q", got[0].CheckID)
	}
	if got[0].Severity != model.SeverityWarning {
		t.Errorf("Severity = %v, want warning", got[0].Severity)
	}
}

func TestTitleLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  int
	}{
		{name: "in band", title: strings.Repeat("a", 45), want: 0},
		{name: "too short", title: "Home", want: 1},
		{name: "too long", title: strings.Repeat("a", 80), want: 1},
		{name: "empty left to missing_title", title: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := testPage(t, "https://example.com", tt.title, nil, "")
			if got := (TitleLength{}).Run(page); len(got) != tt.want {
				t.Errorf("got %d findings, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMetaDescriptionChecks(t *testing.T) {
	t.Parallel()

	missing := testPage(t, "https://example.com", "t", nil, "")
	if got := (MissingMetaDescription{}).Run(missing); len(got) != 1 {
		t.Errorf("missing description: got %d findings, want 1", len(got))
	}

	short := testPage(t, "https://example.com", "t",
		map[string]string{"description": "Too short."}, "")
	if got := (MetaDescriptionLength{}).Run(short); len(got) != 1 {
		t.Errorf("short description: got %d findings, want 1", len(got))
	}

	good := testPage(t, "https://example.com", "t",
		map[string]string{"description": strings.Repeat("word ", 20)}, "")
	if got := (MissingMetaDescription{}).Run(good); len(got) != 0 {
		t.Error("good description flagged as missing")
	}
	if got := (MetaDescriptionLength{}).Run(good); len(got) != 0 {
		t.Error("good description flagged for length")
	}
}

func TestH1Checks(t *testing.T) {
	t.Parallel()

	none := testPage(t, "https://example.com", "t", nil, "<p>no headings</p>")
	if got := (MissingH1{}).Run(none); len(got) != 1 {
		t.Errorf("no h1: got %d findings, want 1", len(got))
	}
	if got := (MultipleH1{}).Run(none); len(got) != 0 {
		t.Error("no h1 should not trigger multiple_h1")
	}

	one := testPage(t, "https://example.com", "t", nil, "<h1>Only</h1>")
	if got := (MissingH1{}).Run(one); len(got) != 0 {
		t.Error("single h1 flagged as missing")
	}

	two := testPage(t, "https://example.com", "t", nil, "<h1>First</h1><h1>Second</h1>")
	got := (MultipleH1{}).Run(two)
	if len(got) != 1 {
		t.Fatalf("two h1s: got %d findings, want 1", len(got))
	}
	if !strings.Contains(got[0].Evidence, "First") {
		t.Errorf("evidence %q should list headings", got[0].Evidence)
	}
}

func TestImgMissingAlt(t *testing.T) {
	t.Parallel()

	body := `<img src="/a.png">` + // missing
		`<img src="/b.png" alt="described">` + // fine
		`<img src="/c.png" alt="">` // decorative, fine

	page := testPage(t, "https://example.com", "t", nil, body)
	got := (ImgMissingAlt{}).Run(page)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if !strings.Contains(got[0].Message, "1 images") {
		t.Errorf("message %q should count one offender", got[0].Message)
	}
	if !strings.Contains(got[0].Evidence, "/a.png") {
		t.Errorf("evidence %q should name the offender", got[0].Evidence)
	}
}

func TestNoindexDirective(t *testing.T) {
	t.Parallel()

	flagged := testPage(t, "https://example.com", "t",
		map[string]string{"robots": "NOINDEX, nofollow"}, "")
	got := (NoindexDirective{}).Run(flagged)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Severity != model.SeverityCritical {
		t.Errorf("Severity = %v, want critical", got[0].Severity)
	}

	fine := testPage(t, "https://example.com", "t",
		map[string]string{"robots": "index, follow"}, "")
	if got := (NoindexDirective{}).Run(fine); len(got) != 0 {
		t.Error("index,follow should not be flagged")
	}
}

func TestMissingCanonical(t *testing.T) {
	t.Parallel()

	without := testPage(t, "https://example.com", "t", nil, "")
	if got := (MissingCanonical{}).Run(without); len(got) != 1 {
		t.Errorf("got %d findings, want 1", len(got))
	}

	with := testPage(t, "https://example.com", "t",
		map[string]string{"canonical": "https://example.com"}, "")
	if got := (MissingCanonical{}).Run(with); len(got) != 0 {
		t.Error("canonical page flagged")
	}
}

func TestMixedContent(t *testing.T) {
	t.Parallel()

	body := `<img src="http://cdn.example.com/logo.png">` +
		`<script src="https://cdn.example.com/app.js"></script>`

	secure := testPage(t, "https://example.com", "t", nil, body)
	got := (MixedContent{}).Run(secure)
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if !strings.Contains(got[0].Evidence, "http://cdn.example.com/logo.png") {
		t.Errorf("evidence %q should name the insecure resource", got[0].Evidence)
	}

	// An http page cannot have mixed content by definition.
	plain := testPage(t, "http://example.com", "t", nil, body)
	if got := (MixedContent{}).Run(plain); len(got) != 0 {
		t.Error("http page should not be checked for mixed content")
	}
}
