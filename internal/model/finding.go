package model

// Finding is a single structured observation produced by a check
// against one page. Findings are pure derivations of PageRecords; the
// only finding permitted for a failed page is the dedicated
// unreachable-page finding.
type Finding struct {
	// CheckID is the stable identifier of the producing check.
	CheckID string `json:"check_id"`

	// URL is the page the finding concerns.
	URL string `json:"url"`

	// Severity is the impact level.
	Severity Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Evidence is an optional excerpt or detail supporting the message.
	Evidence string `json:"evidence,omitempty"`
}

// CheckInfo carries the static metadata for a check id: its severity
// and the remediation guidance shown in reports.
type CheckInfo struct {
	Severity       Severity
	Recommendation string
}

// checkInfoMapping maps check ids to their metadata.
//
// Design decision: We use a central map rather than embedding severity
// in each check implementation because it gives a single source of
// truth for impact assessment and keeps report guidance consistent
// across check sets.
var checkInfoMapping = map[string]CheckInfo{
	// CRITICAL
	"page_unreachable": {
		Severity:       SeverityCritical,
		Recommendation: "Fix the server error or remove links pointing to this page.",
	},
	"broken_internal_link": {
		Severity:       SeverityCritical,
		Recommendation: "Update or remove links that point to missing pages.",
	},
	"noindex_directive": {
		Severity:       SeverityCritical,
		Recommendation: "Remove the noindex robots directive unless the page is intentionally excluded from search.",
	},

	// WARNING
	"missing_title": {
		Severity:       SeverityWarning,
		Recommendation: "Add a unique, descriptive <title> under 60 characters.",
	},
	"title_length": {
		Severity:       SeverityWarning,
		Recommendation: "Keep titles between 10 and 60 characters so they display fully in search results.",
	},
	"missing_meta_description": {
		Severity:       SeverityWarning,
		Recommendation: "Add a meta description of 50-160 characters summarizing the page.",
	},
	"meta_description_length": {
		Severity:       SeverityWarning,
		Recommendation: "Keep meta descriptions between 50 and 160 characters.",
	},
	"missing_h1": {
		Severity:       SeverityWarning,
		Recommendation: "Add exactly one h1 heading describing the page topic.",
	},
	"multiple_h1": {
		Severity:       SeverityWarning,
		Recommendation: "Use a single h1 per page; demote the others to h2.",
	},
	"img_missing_alt": {
		Severity:       SeverityWarning,
		Recommendation: "Add alt text to images for accessibility and image search.",
	},
	"mixed_content": {
		Severity:       SeverityWarning,
		Recommendation: "Serve all sub-resources over HTTPS to avoid mixed-content blocking.",
	},
	"thin_content": {
		Severity:       SeverityWarning,
		Recommendation: "Expand the page to provide substantive content or consolidate it with another page.",
	},
	"duplicate_title": {
		Severity:       SeverityWarning,
		Recommendation: "Give each page a unique title.",
	},
	"duplicate_meta_description": {
		Severity:       SeverityWarning,
		Recommendation: "Write a distinct meta description for each page.",
	},

	// INFO
	"missing_canonical": {
		Severity:       SeverityInfo,
		Recommendation: "Add a rel=canonical link if this content is reachable under multiple URLs.",
	},
	"language_mismatch": {
		Severity:       SeverityInfo,
		Recommendation: "Align the <html lang> attribute with the language of the page content.",
	},
}

// GetCheckInfo returns the metadata for a check id.
// Unknown ids default to SeverityInfo with no recommendation.
func GetCheckInfo(checkID string) CheckInfo {
	if info, ok := checkInfoMapping[checkID]; ok {
		return info
	}
	return CheckInfo{Severity: SeverityInfo}
}

// GetSeverity returns the severity for a check id.
func GetSeverity(checkID string) Severity {
	return GetCheckInfo(checkID).Severity
}
