package crawler

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Frontier owns the crawl state for a single session: the queue of
// (URL, depth) pairs still to visit, the set of URLs already queued or
// visited, and the depth/page-count limits. It is not reused across
// sessions.
//
// The same-origin restriction and URL normalization are the two
// policies that keep the frontier bounded on real sites; without them
// any site with external links produces an unbounded crawl.
type Frontier struct {
	// startHost is the normalized host of the start URL. Links to any
	// other host are discovered but never enqueued.
	startHost string

	// maxDepth limits how far from the start URL we follow links.
	maxDepth int

	// maxPages caps total fetch attempts, successes and failures both,
	// so a site that fails permanently cannot stall the crawl forever.
	maxPages int

	queue    []frontierEntry
	seen     map[string]struct{}
	attempts int

	// mutex serializes access so a bounded worker pool can share the
	// frontier; the single-flight crawler pays only uncontended locks.
	mutex sync.Mutex
}

type frontierEntry struct {
	url   string
	depth int
}

// NewFrontier creates a Frontier seeded with the start URL at depth 0.
func NewFrontier(startURL string, maxDepth, maxPages int) (*Frontier, error) {
	normalized, err := NormalizeURL(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	f := &Frontier{
		startHost: u.Host,
		maxDepth:  maxDepth,
		maxPages:  maxPages,
		seen:      map[string]struct{}{normalized: {}},
		queue:     []frontierEntry{{url: normalized, depth: 0}},
	}
	return f, nil
}

// Enqueue adds a discovered URL at the given depth. It is a no-op when
// the URL does not normalize, exceeds the depth limit, points off the
// start host, or has already been queued or visited. Entries are
// appended in discovery order, which with FIFO dequeue yields strict
// breadth-first traversal.
func (f *Frontier) Enqueue(rawURL string, depth int) {
	if depth > f.maxDepth {
		return
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return
	}

	u, err := url.Parse(normalized)
	if err != nil || u.Host != f.startHost {
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.seen[normalized]; ok {
		return
	}
	f.seen[normalized] = struct{}{}
	f.queue = append(f.queue, frontierEntry{url: normalized, depth: depth})
}

// Next pops the earliest-enqueued entry. The second return is false
// when the frontier is empty.
func (f *Frontier) Next() (string, int, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if len(f.queue) == 0 {
		return "", 0, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry.url, entry.depth, true
}

// RecordAttempt counts one fetch attempt, success or failure.
func (f *Frontier) RecordAttempt() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.attempts++
}

// ShouldStop reports whether the crawl is done: the attempt count
// reached maxPages or the queue is empty.
func (f *Frontier) ShouldStop() bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.attempts >= f.maxPages || len(f.queue) == 0
}

// Seen reports whether a URL has already been queued or visited.
func (f *Frontier) Seen(rawURL string) bool {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return false
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_, ok := f.seen[normalized]
	return ok
}

// NormalizeURL canonicalizes a URL for deduplication: scheme and host
// lowercased, fragment and trailing slash stripped, query preserved.
// Non-HTTP(S) URLs are rejected.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", rawURL)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}
