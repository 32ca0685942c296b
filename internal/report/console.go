package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ixanadu/saa/internal/model"
)

// ConsoleWriter outputs a compact, color-coded summary for terminal
// display. It is a companion to the markdown report, not a replacement:
// the operator sees the headline numbers immediately and opens the
// markdown file for detail.
type ConsoleWriter struct {
	baseWriter

	// verbose lists every finding instead of only the counts.
	verbose bool
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithVerbose enables per-finding output.
func WithVerbose(verbose bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbose = verbose
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report summary in terminal format.
func (w *ConsoleWriter) Write(rep *Report) (int, error) {
	var sb strings.Builder

	result := rep.Result
	bold := color.New(color.Bold).SprintFunc()

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s (%s mode)\n", bold("Audit:"), result.StartURL, result.Mode)
	fmt.Fprintf(&sb, "Pages: %d fetched, %d failed\n",
		result.PagesCrawled(), result.PagesFailed())
	if result.Incomplete {
		fmt.Fprintf(&sb, "%s\n", color.YellowString("Interrupted: results are partial"))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "  %s %d\n",
		color.RedString("CRITICAL:"), result.CountBySeverity(model.SeverityCritical))
	fmt.Fprintf(&sb, "  %s  %d\n",
		color.YellowString("WARNING:"), result.CountBySeverity(model.SeverityWarning))
	fmt.Fprintf(&sb, "  %s     %d\n",
		color.WhiteString("INFO:"), result.CountBySeverity(model.SeverityInfo))
	sb.WriteString("\n")

	if w.verbose {
		w.writeFindings(&sb, result)
	}

	if rep.Narrative == "" && rep.NarrativeNote != "" {
		fmt.Fprintf(&sb, "%s\n\n", color.New(color.Faint).Sprint(rep.NarrativeNote))
	}

	return w.output.Write([]byte(sb.String()))
}

// writeFindings lists each finding with a severity marker.
func (w *ConsoleWriter) writeFindings(sb *strings.Builder, result *model.AuditResult) {
	for _, f := range sortedFindings(result) {
		marker := severityMarker(f.Severity)
		fmt.Fprintf(sb, "  %s %s  %s\n      %s\n", marker, f.CheckID, f.URL, f.Message)
	}
	if len(result.Findings) > 0 {
		sb.WriteString("\n")
	}
}

func severityMarker(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return color.RedString("[!!]")
	case model.SeverityWarning:
		return color.YellowString("[! ]")
	default:
		return color.WhiteString("[i ]")
	}
}
