package model

// Severity represents the impact level of an audit finding.
//
// Design decision: We use iota-based constants rather than string
// constants for efficiency in comparisons and sorting. The String()
// method provides human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct impact.
	// Examples: missing canonical link, page language detection notes.
	SeverityInfo Severity = iota

	// SeverityWarning indicates issues that degrade search visibility or
	// user experience but do not break the page.
	// Examples: missing meta description, multiple h1 elements, thin content.
	SeverityWarning

	// SeverityCritical indicates issues that actively harm the site.
	// Examples: unreachable pages, broken internal links, noindex on a
	// page the operator wants indexed.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}
