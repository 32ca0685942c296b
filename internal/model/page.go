package model

import "time"

// PageRecord is one fetched (or failed) page from a crawl session.
//
// Exactly one of HTML or Err is set: a record either carries the
// rendered document or the reason the fetch failed, never both. The
// NewSuccessPage and NewFailedPage constructors enforce this; code
// elsewhere should not build PageRecords by hand.
//
// Design decision: We keep a single struct with constructors rather
// than a two-variant interface because every consumer iterates mixed
// slices of records and partitions them with Failed(). An interface
// would push a type switch into every loop for no structural gain.
type PageRecord struct {
	// URL is the canonical absolute URL of the page, normalized at
	// discovery time (lowercase scheme and host, fragment and trailing
	// slash stripped, query preserved).
	URL string `json:"url"`

	// Depth is the distance from the start URL in the crawl tree.
	// The start URL has depth 0. Assigned at discovery, never mutated.
	Depth int `json:"depth"`

	// StatusCode is the HTTP status of the document response.
	// Zero on transport failure.
	StatusCode int `json:"status_code,omitempty"`

	// HTML is the rendered document. Present only on success.
	HTML string `json:"-"`

	// Links contains the absolute, normalized URLs discovered on the
	// page, in document order with duplicates removed. Only populated
	// for successful fetches. Cross-domain links appear here even
	// though the crawler never follows them.
	Links []string `json:"links,omitempty"`

	// Title is the page title from the <title> tag.
	Title string `json:"title,omitempty"`

	// Meta maps semantic head fields (description, robots, canonical,
	// og:* and friends) to their content values.
	Meta map[string]string `json:"meta,omitempty"`

	// Err is the human-readable fetch failure cause.
	// Present iff the fetch failed; mutually exclusive with HTML.
	Err string `json:"error,omitempty"`

	// FetchedAt and Elapsed are observability fields. Checks do not
	// read them; they are carried through to the report.
	FetchedAt time.Time     `json:"fetched_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// NewSuccessPage builds the record for a successfully rendered page.
func NewSuccessPage(url string, depth, status int, html string) PageRecord {
	return PageRecord{
		URL:        url,
		Depth:      depth,
		StatusCode: status,
		HTML:       html,
	}
}

// NewFailedPage builds the record for a page whose fetch failed.
// The cause must be non-empty; it is what the unreachable-page check
// and the report surface to the operator.
func NewFailedPage(url string, depth int, status int, cause string) PageRecord {
	if cause == "" {
		cause = "fetch failed"
	}
	return PageRecord{
		URL:        url,
		Depth:      depth,
		StatusCode: status,
		Err:        cause,
	}
}

// Failed reports whether the fetch of this page failed.
func (p PageRecord) Failed() bool {
	return p.Err != ""
}

// SuccessfulPages filters records down to those that fetched cleanly.
func SuccessfulPages(pages []PageRecord) []PageRecord {
	ok := make([]PageRecord, 0, len(pages))
	for _, p := range pages {
		if !p.Failed() {
			ok = append(ok, p)
		}
	}
	return ok
}
