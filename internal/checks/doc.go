// Package checks inspects crawled pages and produces findings.
//
// A check is a pure function over page data: it never refetches, never
// mutates the pages, and never aborts the audit. Page-level checks run
// against one document at a time; site-level checks see every
// successfully fetched page and catch cross-page problems such as
// duplicated titles or internal links pointing at pages that failed to
// load. Which checks run is decided by the audit mode: the operator's
// own site gets the full set, a competitor scan only the handful that
// are meaningful without deep inspection.
package checks
