// Package crawler discovers and fetches the pages of one site within
// depth, page-count, and pacing constraints.
//
// # Components
//
//   - Frontier: crawl state, that is the FIFO queue of (URL, depth) pairs,
//     the set of URLs already seen, and the stop conditions
//   - Crawler: the fetch loop that drives a page fetcher against the
//     Frontier under the pacing policy
//   - head parser: title and meta extraction from rendered HTML
//   - Pacing: the randomized politeness delay between fetches
//
// # Politeness
//
// The crawl is single-flight: one fetch in flight at a time, with a
// randomized delay between fetches drawn from the configured pacing
// level. Politeness is a functional requirement here, not an
// optimization: competitor-mode scans must stay under rate-limiting
// and bot-detection thresholds.
//
// # Failure isolation
//
// A failed fetch is recorded as a PageRecord with its error set and
// the loop continues. Only external cancellation stops the crawl
// early, and even then the pages collected so far are returned.
package crawler
