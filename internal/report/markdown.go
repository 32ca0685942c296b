package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/ixanadu/saa/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This is the primary report format, designed for saving and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(rep *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, rep)
	w.writeSummary(md, rep.Result)
	w.writeNarrative(md, rep)
	w.writeFindings(md, rep.Result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, rep *Report) {
	md.H1("Site Audit Report")
	md.PlainText("")

	rows := [][]string{
		{"Site", "`" + rep.Result.StartURL + "`"},
		{"Mode", rep.Result.Mode},
		{"Audit Date", rep.Result.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Pages Fetched", strconv.Itoa(rep.Result.PagesCrawled())},
		{"Pages Failed", strconv.Itoa(rep.Result.PagesFailed())},
		{"Status", statusText(rep.Result)},
	}
	if rep.Model != "" {
		rows = append(rows, []string{"Narrative Model", rep.Model})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if rep.Result.Incomplete {
		md.Warningf("The crawl was interrupted before finishing. Pages and findings below are partial.")
		md.PlainText("")
	}
}

// statusText returns the status text based on the audit state.
func statusText(result *model.AuditResult) string {
	if result.Incomplete {
		return "⚠️ Incomplete (interrupted)"
	}
	return "✅ Complete"
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.AuditResult) {
	md.H2("Severity Summary")
	md.PlainText("")

	critical := result.CountBySeverity(model.SeverityCritical)
	warning := result.CountBySeverity(model.SeverityWarning)
	info := result.CountBySeverity(model.SeverityInfo)

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(critical)},
			{"🟡 Warning", strconv.Itoa(warning)},
			{"⚪ Info", strconv.Itoa(info)},
			{"**Total**", "**" + strconv.Itoa(len(result.Findings)) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case critical > 0:
		md.Cautionf(
			"%d critical finding(s) require immediate attention.",
			critical,
		)
	case warning > 0:
		md.Importantf(
			"%d warning(s) should be addressed.",
			warning,
		)
	case info > 0:
		md.Note("Only informational findings detected.")
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

// writeNarrative writes the model-written summary, or the note
// explaining why it is missing. A run with the narrative disabled
// carries neither, and the section is omitted.
func (w *MarkdownWriter) writeNarrative(md *markdown.Markdown, rep *Report) {
	if rep.Narrative == "" && rep.NarrativeNote == "" {
		return
	}

	md.H2("Narrative Summary")
	md.PlainText("")

	if rep.Narrative == "" {
		md.Note(rep.NarrativeNote)
		md.PlainText("")
		return
	}

	md.PlainText(rep.Narrative)
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity, worst first.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, result *model.AuditResult) {
	md.H2("Findings")
	md.PlainText("")

	if len(result.Findings) == 0 {
		md.PlainText("No issues were found.")
		md.PlainText("")
		return
	}

	findings := sortedFindings(result)
	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityWarning, "### 🟡 Warning"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		group := findingsAt(findings, sev.level)
		if len(group) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, group)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		evidence := f.Evidence
		if evidence == "" {
			evidence = "-"
		}
		rows[i] = []string{
			f.CheckID,
			truncateString(f.URL, 60),
			truncateString(f.Message, 80),
			truncateString(evidence, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Page", "Message", "Evidence"},
		Rows:   rows,
	})
	md.PlainText("")

	// One remediation hint per distinct check in this group.
	seen := make(map[string]bool)
	for _, f := range findings {
		if seen[f.CheckID] {
			continue
		}
		seen[f.CheckID] = true
		if rec := model.GetCheckInfo(f.CheckID).Recommendation; rec != "" {
			md.Details(f.CheckID, rec)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by saa*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
