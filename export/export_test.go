package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/loader"
)

// ============================================================================
// FIXTURE — two countries, one with a single row
// ============================================================================

func fixtureTable(t *testing.T) *engine.Table {
	t.Helper()
	rows := [][]string{
		{"10", "1", "5", "A"},
		{"20", "3", "5", "A"},
		{"15", "2", "4", "B"},
	}
	records := make([]engine.Record, len(rows))
	for i, r := range rows {
		records[i] = engine.Record{Cells: r}
	}
	table, err := engine.NewTable([]string{"GHI", "DNI", "DHI", "country"}, "country", records, engine.DefaultMetrics)
	require.NoError(t, err)
	return table
}

func fixtureDashboard(t *testing.T) *engine.Dashboard {
	t.Helper()
	d, err := engine.Execute(fixtureTable(t), engine.Selection{Metric: "GHI", Labels: []string{"A", "B"}})
	require.NoError(t, err)
	return d
}

// ============================================================================
// JSON
// ============================================================================

func TestReportJSON(t *testing.T) {
	d := fixtureDashboard(t)
	res := &loader.Result{RunID: "run-1", Table: fixtureTable(t), Loaded: []string{"A", "B"}}
	res.Warnings = multierror.Append(res.Warnings, &loader.SourceError{
		Label: "C", Location: "c.csv", Kind: loader.MissingSource, Err: os.ErrNotExist,
	})

	report := NewReport(res, []loader.Source{{Label: "A", Location: "a.csv"}}, d)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "c.csv")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report, false))

	var decoded struct {
		RunID     string `json:"runId"`
		Dashboard struct {
			Summary struct {
				Groups []struct {
					Label   string `json:"label"`
					Metrics map[string]struct {
						Mean *float64 `json:"mean"`
						Std  *float64 `json:"std"`
					} `json:"metrics"`
				} `json:"groups"`
			} `json:"summary"`
		} `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)

	groups := decoded.Dashboard.Summary.Groups
	require.Len(t, groups, 2)
	require.NotNil(t, groups[0].Metrics["GHI"].Std)
	assert.Equal(t, 7.07, *groups[0].Metrics["GHI"].Std, "report summaries are rounded")
	assert.Nil(t, groups[1].Metrics["GHI"].Std, "NaN std encodes as null")

	// The dashboard passed in keeps raw values.
	a, _ := d.Summary.Group("A")
	assert.InDelta(t, 7.0710678, a.Metrics["GHI"].StdDev, 1e-6)
}

func TestWriteJSONPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"rows": 3}, true))
	assert.Equal(t, "{\n  \"rows\": 3\n}\n", buf.String())
}

// ============================================================================
// CSV / TEXT
// ============================================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureDashboard(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Country,GHI mean,GHI median,GHI std,DNI mean,DNI median,DNI std,DHI mean,DHI median,DHI std", lines[0])
	assert.Equal(t, "A,15.00,15.00,7.07,2.00,2.00,1.41,5.00,5.00,0.00", lines[1])
	assert.Equal(t, "B,15.00,15.00,NaN,2.00,2.00,NaN,4.00,4.00,NaN", lines[2])
}

func TestWriteChartCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, fixtureDashboard(t).RankingChart))
	assert.Equal(t, "Country,GHI\nA,15\nB,15\n", buf.String())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, fixtureDashboard(t)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "A leads with an average GHI of 15.00 W/m² over 3 rows, followed by B 15.00.\n"))
	assert.Contains(t, out, "Summary Statistics")
	assert.Contains(t, out, "Total (2 groups)")

	buf.Reset()
	require.NoError(t, WriteText(&buf, nil))
	assert.Equal(t, "No result.\n", buf.String())
}

// ============================================================================
// FILES
// ============================================================================

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteXLSX(path, "run-1", fixtureDashboard(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetRanking, sheetDistribution}, f.GetSheetList())

	ranking, err := f.GetRows(sheetRanking)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Country", "Average GHI"},
		{"1", "A", "15"},
		{"2", "B", "15"},
	}, ranking)

	summary, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 3)
	assert.Equal(t, "GHI std", summary[0][3])
	assert.Equal(t, "7.07", summary[1][3])
	assert.Equal(t, "NaN", summary[2][3])
	assert.Equal(t, []string{"Run", "run-1"}, summary[len(summary)-1])
}

func TestWriteParquet(t *testing.T) {
	d := fixtureDashboard(t)
	path := filepath.Join(t.TempDir(), "summary.parquet")
	require.NoError(t, WriteParquet(path, "run-1", d.Summary))

	rows, err := parquet.ReadFile[SummaryRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, "A", rows[0].Label)
	assert.Equal(t, "GHI", rows[0].Metric)
	assert.Equal(t, int64(2), rows[0].Count)
	require.NotNil(t, rows[0].StdDev)
	assert.InDelta(t, 7.0710678, *rows[0].StdDev, 1e-6, "parquet keeps raw values")

	assert.Equal(t, "B", rows[3].Label)
	assert.Nil(t, rows[3].StdDev)
	assert.Equal(t, "run-1", rows[5].RunID)
}

func TestRenderPlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := RenderPlots(dir, fixtureDashboard(t))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "GHI_boxplot.png"),
		filepath.Join(dir, "GHI_ranking.png"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
