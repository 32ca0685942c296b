package model

import "time"

// Audit mode names. The mode selects both crawl bounds and the check
// set applied to the crawled pages.
const (
	// ModeOwn is a deep audit of a site the operator controls.
	ModeOwn = "own"

	// ModeCompetitor is a light, low-footprint scan of a third party's
	// site: conservative limits and cheap single-page checks only.
	ModeCompetitor = "competitor"
)

// AuditResult aggregates everything one audit session produced. It is
// the unit passed between pipeline steps and into the report
// synthesizer and the history database.
type AuditResult struct {
	// StartURL is the normalized URL the crawl began from.
	StartURL string `json:"start_url"`

	// Mode is ModeOwn or ModeCompetitor.
	Mode string `json:"mode"`

	// StartedAt is when the audit began.
	StartedAt time.Time `json:"started_at"`

	// Pages contains every fetch attempt in fetch order, successes and
	// failures interleaved as encountered.
	Pages []PageRecord `json:"pages"`

	// Findings contains the output of the check framework.
	Findings []Finding `json:"findings"`

	// Incomplete is true when the crawl was cancelled before the
	// frontier was exhausted; the pages and findings are partial but
	// valid.
	Incomplete bool `json:"incomplete"`

	// ReportText is the generated markdown report.
	ReportText string `json:"-"`
}

// PagesCrawled returns the number of successfully fetched pages.
func (a *AuditResult) PagesCrawled() int {
	n := 0
	for _, p := range a.Pages {
		if !p.Failed() {
			n++
		}
	}
	return n
}

// PagesFailed returns the number of failed fetch attempts.
func (a *AuditResult) PagesFailed() int {
	return len(a.Pages) - a.PagesCrawled()
}

// CountBySeverity returns the number of findings at the given level.
func (a *AuditResult) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range a.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}
