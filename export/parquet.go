package export

import (
	"fmt"
	"math"

	"github.com/parquet-go/parquet-go"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// SummaryRow is one (label, metric) statistic of a run. Statistics are raw,
// unrounded; NaN is stored as null.
type SummaryRow struct {
	RunID  string   `parquet:"run_id"`
	Label  string   `parquet:"label"`
	Metric string   `parquet:"metric"`
	Rows   int64    `parquet:"rows"`
	Count  int64    `parquet:"count"`
	Mean   *float64 `parquet:"mean,optional"`
	Median *float64 `parquet:"median,optional"`
	StdDev *float64 `parquet:"std,optional"`
}

// SummaryRows flattens a summary in group order, then metric order.
func SummaryRows(runID string, s *engine.Summary) []SummaryRow {
	if s.IsEmpty() {
		return nil
	}
	rows := make([]SummaryRow, 0, len(s.Groups)*len(s.Metrics))
	for _, g := range s.Groups {
		for _, m := range s.Metrics {
			st := g.Metrics[m]
			rows = append(rows, SummaryRow{
				RunID:  runID,
				Label:  g.Label,
				Metric: m,
				Rows:   int64(g.Rows),
				Count:  int64(st.Count),
				Mean:   optional(st.Mean),
				Median: optional(st.Median),
				StdDev: optional(st.StdDev),
			})
		}
	}
	return rows
}

// WriteParquet writes the summary of a run as a Parquet file.
func WriteParquet(path string, runID string, s *engine.Summary) error {
	rows := SummaryRows(runID, s)
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
