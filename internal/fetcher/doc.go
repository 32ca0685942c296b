// Package fetcher loads single pages through a headless browser
// session and reports the outcome as data.
//
// The Fetcher interface is the port the crawler depends on; the
// chromedp implementation renders pages in headless Chrome with
// automation fingerprints suppressed, harvests outbound links from the
// final DOM, and captures the document response status via CDP network
// events. Ordinary navigation and network failures never surface as
// Go errors; they populate the result's Err field so the crawl loop
// can record them and continue.
package fetcher
