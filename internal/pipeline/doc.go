// Package pipeline orchestrates an audit end to end: crawl, checks,
// report, history.
//
// Each stage is a Step mutating a shared AuditResult. Cancellation is
// handled inside the crawl step rather than between steps: an
// interrupted crawl marks the result incomplete and the remaining
// steps still run, so the operator gets a report for the pages that
// were fetched. The only hard stop is a crawl with zero successful
// pages: there is nothing to audit, and the run fails.
//
// BatchProcessor runs one pipeline per target concurrently for
// multi-site audits.
package pipeline
