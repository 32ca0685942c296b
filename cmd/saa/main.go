// Package main provides the entry point for the saa CLI.
//
// saa audits websites: it crawls a site with a headless browser, runs
// a set of SEO and content checks over the rendered pages, and writes
// a markdown report with an optional model-written narrative summary.
//
// Usage:
//
//	saa audit https://example.com
//	saa audit --mode competitor https://rival.example
//
// See --help for all available options.
package main

// main is the entry point for saa.
func main() {
	Execute()
}
