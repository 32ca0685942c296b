package fetcher

import (
	"context"
	"time"
)

// Result is the outcome of one page load. Exactly one of HTML or Err
// is meaningful: a render either produced a document or a failure
// cause, never both.
type Result struct {
	// StatusCode is the HTTP status of the document response. Zero on
	// transport failure.
	StatusCode int

	// HTML is the rendered document's outer HTML. Empty when Err is set.
	HTML string

	// Links are the absolute href values of anchor elements in the
	// final DOM, in document order. Harvested after rendering so
	// JS-inserted links are included.
	Links []string

	// Elapsed is the wall-clock fetch duration.
	Elapsed time.Duration

	// Err is the failure cause: transport error, timeout, render
	// failure, or a non-2xx document status. Nil on success.
	Err error
}

// Failed reports whether the fetch failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Fetcher loads one page per call. Implementations must not return
// panics or Go errors for ordinary fetch failures; those belong in
// Result.Err. The context bounds the whole fetch, including rendering.
type Fetcher interface {
	Fetch(ctx context.Context, url string) Result

	// Close releases the underlying browser session.
	Close() error
}
