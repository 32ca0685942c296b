package report

import (
	"io"
	"sort"

	"github.com/ixanadu/saa/internal/model"
)

// Report is a finished audit plus the narrative layer rendered on top
// of it. Writers consume this, never raw audit results.
type Report struct {
	// Result is the structured audit output.
	Result *model.AuditResult

	// Narrative is the model-written summary. Empty when synthesis was
	// disabled or failed.
	Narrative string

	// NarrativeNote explains a failed synthesis to the reader. Empty
	// when synthesis succeeded or was never enabled; in the latter case
	// writers omit the narrative section entirely.
	NarrativeNote string

	// Model names the provider:model that wrote the narrative. Empty
	// when no synthesis was attempted.
	Model string
}

// Writer defines the interface for report output.
// Implementations render the same report in different formats.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// both with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(rep *Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, typically the
// terminal and a file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different from
// io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers. Returns the
// total bytes written; stops on the first error encountered.
func (m *MultiWriter) Write(rep *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(rep)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// sortedFindings returns the findings in report order: severity
// descending, then URL ascending, then check id. The sort is a copy;
// the result's own ordering (check execution order) is preserved.
func sortedFindings(result *model.AuditResult) []model.Finding {
	findings := make([]model.Finding, len(result.Findings))
	copy(findings, result.Findings)

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		if findings[i].URL != findings[j].URL {
			return findings[i].URL < findings[j].URL
		}
		return findings[i].CheckID < findings[j].CheckID
	})
	return findings
}

// findingsAt filters sorted findings down to one severity level.
func findingsAt(findings []model.Finding, sev model.Severity) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
