package checks

import (
	"fmt"
	"log/slog"

	"github.com/ixanadu/saa/internal/model"
)

// Check examines one page and reports zero or more findings. Checks
// are pure: same page data in, same findings out, no I/O.
type Check interface {
	// ID is the stable identifier findings are reported under.
	ID() string

	// Run inspects the page. A panic or malformed-input situation is
	// handled inside the check; Run never fails the audit.
	Run(page *Page) []model.Finding
}

// SiteCheck examines the whole crawl at once, for problems no single
// page can reveal.
type SiteCheck interface {
	ID() string
	RunSite(site *Site) []model.Finding
}

// Site is the cross-page view handed to site checks: every page that
// parsed, plus the URLs that failed to fetch with their causes.
type Site struct {
	Pages  []*Page
	Failed map[string]string
}

// Set is the collection of checks selected for an audit mode.
type Set struct {
	Page []Check
	Site []SiteCheck
}

// SetForMode returns the checks for the given audit mode. Own-site
// audits get the full set; competitor scans run only the checks that
// are meaningful on a shallow crawl of a site the operator does not
// control.
func SetForMode(mode string) Set {
	switch mode {
	case model.ModeCompetitor:
		return Set{
			Page: []Check{
				MissingTitle{},
				MissingMetaDescription{},
				MissingH1{},
				NoindexDirective{},
			},
		}
	default:
		return Set{
			Page: []Check{
				MissingTitle{},
				TitleLength{},
				MissingMetaDescription{},
				MetaDescriptionLength{},
				MissingH1{},
				MultipleH1{},
				ImgMissingAlt{},
				NoindexDirective{},
				MissingCanonical{},
				MixedContent{},
				NewThinContent(),
				NewLanguageMismatch(),
			},
			Site: []SiteCheck{
				DuplicateTitle{},
				DuplicateMetaDescription{},
				BrokenInternalLink{},
			},
		}
	}
}

// Run executes the mode's check set over a crawl. Failed pages each
// yield one unreachable finding and are excluded from content checks.
// Ordering is deterministic: pages in fetch order, each page's checks
// in registration order, then site checks in registration order.
func Run(pages []model.PageRecord, mode string, logger *slog.Logger) []model.Finding {
	if logger == nil {
		logger = slog.Default()
	}
	set := SetForMode(mode)

	findings := make([]model.Finding, 0, len(pages))
	site := &Site{
		Pages:  make([]*Page, 0, len(pages)),
		Failed: make(map[string]string),
	}

	for _, rec := range pages {
		if rec.Failed() {
			site.Failed[rec.URL] = rec.Err
			findings = append(findings, newFinding("page_unreachable", rec.URL,
				fmt.Sprintf("page could not be fetched: %s", rec.Err),
				statusEvidence(rec.StatusCode)))
			continue
		}

		page, err := NewPage(rec)
		if err != nil {
			// Unparseable HTML is a page problem, not an audit failure.
			logger.Warn("skipping unparseable page", "url", rec.URL, "error", err)
			continue
		}
		site.Pages = append(site.Pages, page)

		for _, check := range set.Page {
			findings = append(findings, runOne(check, page, logger)...)
		}
	}

	for _, check := range set.Site {
		findings = append(findings, check.RunSite(site)...)
	}

	logger.Info("checks complete",
		"mode", mode,
		"pages_checked", len(site.Pages),
		"findings", len(findings),
	)
	return findings
}

// runOne isolates a single check invocation so one misbehaving check
// cannot take down the audit.
func runOne(check Check, page *Page, logger *slog.Logger) (findings []model.Finding) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("check panicked, skipping",
				"check", check.ID(), "url", page.Record.URL, "panic", r)
			findings = nil
		}
	}()
	return check.Run(page)
}

// newFinding builds a finding with the severity registered for the
// check ID.
func newFinding(checkID, url, message, evidence string) model.Finding {
	return model.Finding{
		CheckID:  checkID,
		URL:      url,
		Severity: model.GetSeverity(checkID),
		Message:  message,
		Evidence: evidence,
	}
}

func statusEvidence(status int) string {
	if status == 0 {
		return "no HTTP response"
	}
	return fmt.Sprintf("HTTP status %d", status)
}
