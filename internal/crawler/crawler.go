package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ixanadu/saa/internal/fetcher"
	"github.com/ixanadu/saa/internal/model"
)

// Crawler walks one site breadth-first through a Fetcher, recording
// every attempt as a PageRecord. Fetch failures are isolated: a page
// that cannot be loaded becomes a failed record and the crawl moves on.
type Crawler struct {
	fetcher fetcher.Fetcher
	pacing  Pacing
	logger  *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithPacing sets the politeness delay level between fetches.
func WithPacing(p Pacing) Option {
	return func(c *Crawler) {
		c.pacing = p
	}
}

// WithLogger sets the crawl logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler over the given fetcher. Defaults: medium
// pacing, slog.Default.
func New(f fetcher.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: f,
		pacing:  PacingMedium,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl visits up to maxPages pages starting from startURL, following
// same-host links breadth-first to maxDepth. Records are returned in
// fetch order, one per attempt, failures included.
//
// On context cancellation the pages fetched so far are returned
// together with the context error, so a partial crawl can still be
// checked and reported.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxDepth, maxPages int) ([]model.PageRecord, error) {
	frontier, err := NewFrontier(startURL, maxDepth, maxPages)
	if err != nil {
		return nil, err
	}

	c.logger.Info("starting crawl",
		"start_url", startURL,
		"max_depth", maxDepth,
		"max_pages", maxPages,
		"pacing", c.pacing.String(),
	)

	pages := make([]model.PageRecord, 0, maxPages)
	for !frontier.ShouldStop() {
		pageURL, depth, ok := frontier.Next()
		if !ok {
			break
		}

		// Pace before every fetch but the first; the start URL should
		// not wait on an empty site.
		if len(pages) > 0 {
			if err := c.pacing.Wait(ctx); err != nil {
				return pages, err
			}
		}
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		fetchedAt := time.Now()
		res := c.fetcher.Fetch(ctx, pageURL)
		frontier.RecordAttempt()

		rec := c.recordResult(pageURL, depth, res)
		rec.FetchedAt = fetchedAt
		pages = append(pages, rec)

		if rec.Failed() {
			c.logger.Warn("page fetch failed", "url", pageURL, "depth", depth, "cause", rec.Err)
			if err := ctx.Err(); err != nil {
				return pages, err
			}
			continue
		}

		c.logger.Info("page fetched",
			"url", pageURL,
			"depth", depth,
			"status", rec.StatusCode,
			"links", len(rec.Links),
		)

		if depth < maxDepth {
			for _, link := range rec.Links {
				frontier.Enqueue(link, depth+1)
			}
		}
	}

	c.logger.Info("crawl finished", "pages", len(pages))
	return pages, nil
}

// recordResult converts a fetch result into a page record, parsing the
// head section and normalizing harvested links on success.
func (c *Crawler) recordResult(pageURL string, depth int, res fetcher.Result) model.PageRecord {
	if res.Failed() {
		rec := model.NewFailedPage(pageURL, depth, res.StatusCode, res.Err.Error())
		rec.Elapsed = res.Elapsed
		return rec
	}

	rec := model.NewSuccessPage(pageURL, depth, res.StatusCode, res.HTML)
	rec.Elapsed = res.Elapsed
	rec.Links = NormalizeLinks(res.Links)

	head := ParseHead(res.HTML)
	rec.Title = head.Title
	rec.Meta = head.Meta
	return rec
}
