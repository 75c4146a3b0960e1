package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// ============================================================================
// CSV OUTPUT — Summary table → Sheets-ready CSV
// ============================================================================

// WriteCSV writes the summary table, or the ranking when there is no table.
func WriteCSV(w io.Writer, d *engine.Dashboard) error {
	cw := csv.NewWriter(w)

	switch {
	case d == nil:
		cw.Write([]string{"Result", "No data"})
	case d.SummaryTable != nil && len(d.SummaryTable.Columns) > 0:
		writeTableCSV(cw, d.SummaryTable)
	case d.RankingChart != nil:
		writeChartCSV(cw, d.RankingChart)
	default:
		cw.Write([]string{"Summary"})
		cw.Write([]string{d.Reply})
	}

	cw.Flush()
	return cw.Error()
}

// WriteChartCSV writes a chart as label + one column per series.
func WriteChartCSV(w io.Writer, chart *engine.ChartConfig) error {
	cw := csv.NewWriter(w)
	writeChartCSV(cw, chart)
	cw.Flush()
	return cw.Error()
}

func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) {
	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}

	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	if len(chart.Series) == 0 {
		return
	}
	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
}

func writeTableCSV(cw *csv.Writer, table *engine.TableData) {
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

// WriteText writes the reply followed by the summary table as aligned text.
func WriteText(w io.Writer, d *engine.Dashboard) error {
	if d == nil {
		_, err := fmt.Fprintln(w, "No result.")
		return err
	}
	if _, err := fmt.Fprintln(w, d.Reply); err != nil {
		return err
	}
	t := d.SummaryTable
	if t == nil || len(t.Columns) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n%s\n", t.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if t.Footer != nil {
		fmt.Fprintf(tw, "%s\t%s rows\t\n", t.Footer.Label, t.Footer.Values["rows"])
	}
	return tw.Flush()
}

// ============================================================================
// HELPERS
// ============================================================================

// fmtNum prints the shortest exact decimal; values are rounded upstream.
func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
