package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/loader"
)

// ============================================================================
// REPORT — what the CLI prints for one run
// ============================================================================

// Report bundles a dashboard with the load it was computed from.
type Report struct {
	RunID     string            `json:"runId"`
	Sources   []loader.Source   `json:"sources"`
	Loaded    []string          `json:"loaded"`
	Warnings  []string          `json:"warnings,omitempty"`
	Dashboard *engine.Dashboard `json:"dashboard"`
}

// NewReport builds a report. The dashboard summary is replaced by its
// rounded copy; d itself is not modified.
func NewReport(res *loader.Result, sources []loader.Source, d *engine.Dashboard) *Report {
	r := &Report{
		RunID:   res.RunID,
		Sources: sources,
		Loaded:  res.Loaded,
	}
	for _, w := range loader.SourceErrors(res.Warnings) {
		r.Warnings = append(r.Warnings, w.Error())
	}
	if d != nil {
		rounded := *d
		if d.Summary != nil {
			rounded.Summary = d.Summary.Rounded()
		}
		r.Dashboard = &rounded
	}
	return r
}

// WriteJSON writes v as one JSON document, indented when pretty.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
