package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because it is sufficient for write-only
// output and keeps the wire format boring.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in JSON format. The envelope carries the
// narrative layer next to the structured result, so consumers get
// everything the markdown report shows.
func (w *JSONWriter) Write(rep *Report) (int, error) {
	envelope := struct {
		Narrative     string `json:"narrative,omitempty"`
		NarrativeNote string `json:"narrative_note,omitempty"`
		Model         string `json:"model,omitempty"`
		Result        any    `json:"result"`
	}{
		Narrative:     rep.Narrative,
		NarrativeNote: rep.NarrativeNote,
		Model:         rep.Model,
		Result:        rep.Result,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(envelope, "", "  ")
	} else {
		data, err = json.Marshal(envelope)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}
