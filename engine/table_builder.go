package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a Summary
// ============================================================================
// One row per group; three columns (mean, median, std) per metric. Values
// are rounded to the summary's precision; NaN renders as "NaN".
// ============================================================================

// summaryAggregations are the statistics shown for every metric, in order.
var summaryAggregations = []string{"mean", "median", "std"}

// BuildSummaryTable produces a TableData from a Summary.
func BuildSummaryTable(summary *Summary, title string) *TableData {
	if summary.IsEmpty() {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := make([]Column, 0, 1+len(summary.Metrics)*len(summaryAggregations))
	columns = append(columns, Column{
		Key:   summary.GroupBy,
		Label: LabelForDimension(summary.GroupBy),
		Type:  "text",
		Align: "left",
	})
	for _, m := range summary.Metrics {
		for _, agg := range summaryAggregations {
			columns = append(columns, Column{
				Key:   m + "_" + agg,
				Label: fmt.Sprintf("%s %s", m, agg),
				Type:  "number",
				Align: "right",
			})
		}
	}

	rows := make([][]string, 0, len(summary.Groups))
	var total int
	for _, g := range summary.Groups {
		row := make([]string, 0, len(columns))
		row = append(row, g.Label)
		for _, m := range summary.Metrics {
			st := g.Metrics[m]
			row = append(row,
				FormatNumber(st.Mean, summary.Precision),
				FormatNumber(st.Median, summary.Precision),
				FormatNumber(st.StdDev, summary.Precision),
			)
		}
		rows = append(rows, row)
		total += g.Rows
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Footer: &TableFooter{
			Label: fmt.Sprintf("Total (%d groups)", len(summary.Groups)),
			Values: map[string]string{
				"rows": fmt.Sprintf("%d", total),
			},
		},
	}
}
