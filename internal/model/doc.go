// Package model defines the core data types shared across the audit
// pipeline: crawled pages, check findings, severity levels, and the
// aggregated audit result.
//
// The types in this package are plain data. They are created by the
// crawler and the check framework and consumed read-only by the report
// synthesizer; no component mutates a PageRecord after the crawl
// returns it.
package model
