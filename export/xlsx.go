package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// ============================================================================
// XLSX OUTPUT — one workbook per run
// ============================================================================
// Sheets:
//   Summary       per-label mean/median/std of every metric (rounded)
//   Ranking       label, average of the rank metric
//   Distribution  boxplot statistics of the selected metric
// ============================================================================

const (
	sheetSummary      = "Summary"
	sheetRanking      = "Ranking"
	sheetDistribution = "Distribution"
)

// WriteXLSX saves the dashboard as a workbook at path.
func WriteXLSX(path string, runID string, d *engine.Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	for _, name := range []string{sheetRanking, sheetDistribution} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeSummarySheet(f, d.SummaryTable, runID); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRankingSheet(f, d); err != nil {
		return fmt.Errorf("ranking sheet: %w", err)
	}
	if err := writeDistributionSheet(f, d); err != nil {
		return fmt.Errorf("distribution sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, t *engine.TableData, runID string) error {
	if t == nil {
		return nil
	}
	headers := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	if err := writeRow(f, sheetSummary, 1, headers, 16); err != nil {
		return err
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cellValue(cell, t.Columns[i].Type == "number")
		}
		if err := writeRow(f, sheetSummary, r+2, values, 0); err != nil {
			return err
		}
	}

	foot := len(t.Rows) + 3
	if t.Footer != nil {
		if err := writeRow(f, sheetSummary, foot, []interface{}{t.Footer.Label, t.Footer.Values["rows"] + " rows"}, 0); err != nil {
			return err
		}
		foot++
	}
	return writeRow(f, sheetSummary, foot, []interface{}{"Run", runID}, 0)
}

func writeRankingSheet(f *excelize.File, d *engine.Dashboard) error {
	if err := writeRow(f, sheetRanking, 1, []interface{}{"Rank", "Country", "Average " + d.RankMetric}, 18); err != nil {
		return err
	}
	precision := engine.DefaultPrecision
	if d.Summary != nil {
		precision = d.Summary.Precision
	}
	for i, e := range d.Ranking {
		row := []interface{}{i + 1, e.Label, number(engine.Round(e.Mean, precision))}
		if err := writeRow(f, sheetRanking, i+2, row, 0); err != nil {
			return err
		}
	}
	return nil
}

func writeDistributionSheet(f *excelize.File, d *engine.Dashboard) error {
	headers := []interface{}{"Country", "Count", "Min", "Q1", "Median", "Q3", "Max", "Outliers"}
	if err := writeRow(f, sheetDistribution, 1, headers, 14); err != nil {
		return err
	}
	for i, b := range d.Distribution {
		row := []interface{}{
			b.Label, b.Count,
			number(b.Min), number(b.Q1), number(b.Median), number(b.Q3), number(b.Max),
			len(b.Outliers),
		}
		if err := writeRow(f, sheetDistribution, i+2, row, 0); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes values starting at column A. A positive width also sets
// the width of every written column.
func writeRow(f *excelize.File, sheet string, row int, values []interface{}, width float64) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return err
	}
	if width > 0 && len(values) > 0 {
		last, err := excelize.ColumnNumberToName(len(values))
		if err != nil {
			return err
		}
		return f.SetColWidth(sheet, "A", last, width)
	}
	return nil
}

// cellValue stores numeric table cells as numbers so they stay sortable.
func cellValue(s string, numeric bool) interface{} {
	if !numeric {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return s
	}
	return v
}

// number keeps NaN out of the workbook, which cannot store it.
func number(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return v
}
