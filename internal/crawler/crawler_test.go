package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ixanadu/saa/internal/fetcher"
)

// stubFetcher serves canned results keyed by normalized URL. Unknown
// URLs fail like a dead link would.
type stubFetcher struct {
	pages   map[string]fetcher.Result
	fetched []string

	// cancelAfter, when positive, cancels the crawl context after that
	// many fetches to simulate an operator interrupt.
	cancelAfter int
	cancel      context.CancelFunc
}

func (s *stubFetcher) Fetch(_ context.Context, url string) fetcher.Result {
	s.fetched = append(s.fetched, url)
	if s.cancelAfter > 0 && len(s.fetched) == s.cancelAfter {
		s.cancel()
	}
	res, ok := s.pages[url]
	if !ok {
		return fetcher.Result{StatusCode: 404, Err: fmt.Errorf("status 404 Not Found")}
	}
	return res
}

func (s *stubFetcher) Close() error { return nil }

func pageWithLinks(title string, links ...string) fetcher.Result {
	html := fmt.Sprintf("<html><head><title>%s</title></head><body>", title)
	for _, l := range links {
		html += fmt.Sprintf(`<a href=%q>link</a>`, l)
	}
	html += "</body></html>"
	return fetcher.Result{StatusCode: 200, HTML: html, Links: links}
}

func TestCrawlVisitsLinkedPagesOnce(t *testing.T) {
	t.Parallel()

	// Three pages linking to each other in a cycle; each must be
	// fetched exactly once.
	stub := &stubFetcher{pages: map[string]fetcher.Result{
		"https://example.com":   pageWithLinks("Home", "https://example.com/b", "https://example.com/c"),
		"https://example.com/b": pageWithLinks("B", "https://example.com", "https://example.com/c"),
		"https://example.com/c": pageWithLinks("C", "https://example.com/b"),
	}}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(context.Background(), "https://example.com", 3, 10)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("crawled %d pages, want 3", len(pages))
	}

	seen := make(map[string]int)
	for _, p := range pages {
		seen[p.URL]++
		if p.Failed() {
			t.Errorf("page %s unexpectedly failed: %s", p.URL, p.Err)
		}
	}
	for url, n := range seen {
		if n != 1 {
			t.Errorf("page %s fetched %d times, want 1", url, n)
		}
	}

	// Breadth-first: start page first, then its links in document order.
	if pages[0].URL != "https://example.com" {
		t.Errorf("first page = %s, want start URL", pages[0].URL)
	}
	if pages[0].Title != "Home" {
		t.Errorf("start page title = %q, want parsed title", pages[0].Title)
	}
}

func TestCrawlRespectsPageCap(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{pages: map[string]fetcher.Result{
		"https://example.com": pageWithLinks("Home", "https://example.com/b", "https://example.com/c"),
	}}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(context.Background(), "https://example.com", 3, 1)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(pages) != 1 {
		t.Fatalf("crawled %d pages, want 1 with max_pages=1", len(pages))
	}
	if len(stub.fetched) != 1 {
		t.Errorf("fetcher called %d times, want 1", len(stub.fetched))
	}
}

func TestCrawlRespectsDepthLimit(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{pages: map[string]fetcher.Result{
		"https://example.com":     pageWithLinks("Home", "https://example.com/a"),
		"https://example.com/a":   pageWithLinks("A", "https://example.com/a/b"),
		"https://example.com/a/b": pageWithLinks("B"),
	}}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(context.Background(), "https://example.com", 1, 10)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("crawled %d pages, want 2 with max_depth=1", len(pages))
	}
	for _, p := range pages {
		if p.Depth > 1 {
			t.Errorf("page %s has depth %d beyond limit", p.URL, p.Depth)
		}
	}
}

func TestCrawlIsolatesFetchFailures(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{pages: map[string]fetcher.Result{
		"https://example.com": pageWithLinks("Home",
			"https://example.com/dead", "https://example.com/alive"),
		"https://example.com/alive": pageWithLinks("Alive"),
	}}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(context.Background(), "https://example.com", 2, 10)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(pages) != 3 {
		t.Fatalf("crawled %d records, want 3 (one failed)", len(pages))
	}

	var failed, succeeded int
	for _, p := range pages {
		if p.Failed() {
			failed++
			if p.StatusCode != 404 {
				t.Errorf("failed page status = %d, want 404", p.StatusCode)
			}
			if p.HTML != "" {
				t.Error("failed record must not carry HTML")
			}
		} else {
			succeeded++
			if p.Err != "" {
				t.Error("successful record must not carry an error")
			}
		}
	}
	if failed != 1 || succeeded != 2 {
		t.Errorf("failed=%d succeeded=%d, want 1 and 2", failed, succeeded)
	}
}

func TestCrawlFailedStartURLYieldsOneRecord(t *testing.T) {
	t.Parallel()

	stub := &stubFetcher{pages: map[string]fetcher.Result{}}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(context.Background(), "https://unreachable.example", 2, 10)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if len(pages) != 1 {
		t.Fatalf("crawled %d records, want exactly 1", len(pages))
	}
	if !pages[0].Failed() {
		t.Error("start URL record should be marked failed")
	}
}

func TestCrawlCancellationReturnsPartialResults(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	stub := &stubFetcher{
		pages: map[string]fetcher.Result{
			"https://example.com": pageWithLinks("Home",
				"https://example.com/a", "https://example.com/b", "https://example.com/c"),
			"https://example.com/a": pageWithLinks("A"),
			"https://example.com/b": pageWithLinks("B"),
			"https://example.com/c": pageWithLinks("C"),
		},
		cancelAfter: 2,
		cancel:      cancel,
	}

	c := New(stub, WithPacing(PacingOff))
	pages, err := c.Crawl(ctx, "https://example.com", 2, 10)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Crawl error = %v, want context.Canceled", err)
	}
	if len(pages) == 0 || len(pages) >= 4 {
		t.Errorf("got %d pages, want a partial result", len(pages))
	}
}

func TestCrawlInvalidStartURL(t *testing.T) {
	t.Parallel()

	c := New(&stubFetcher{}, WithPacing(PacingOff))
	if _, err := c.Crawl(context.Background(), "::not-a-url::", 1, 1); err == nil {
		t.Error("expected error for invalid start URL")
	}
}
