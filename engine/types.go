package engine

import (
	"encoding/json"
	"math"
)

// ============================================================================
// ENGINE TYPES — Grouped Irradiance Analytics
// ============================================================================
// Record     — one raw input row, cells aligned with Table.Columns()
// Summary    — grouped mean/median/std per metric (raw, unrounded)
// Ranking    — groups ordered by the mean of one metric
// Dashboard  — everything one selection refresh needs to render
// ============================================================================

// Record is a single data row. Cells are kept exactly as read so that
// columns the engine does not interpret pass through unmodified.
type Record struct {
	Cells []string `json:"cells"`
}

// Selection is what the presentation layer sends on every refresh.
type Selection struct {
	Metric string   `json:"metric"`
	Labels []string `json:"labels"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is a set of rows sharing one groupBy value.
type Group struct {
	Key   string     `json:"key"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for rows in this group (zero-copy)
}

// ============================================================================
// SUMMARY TYPES
// ============================================================================

// Stats holds descriptive statistics of one metric within one group.
// Count is the number of non-NaN values the statistics were computed from.
// StdDev is the sample standard deviation (n−1) and is NaN when Count < 2.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
}

// MarshalJSON encodes NaN statistics as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		StdDev *float64 `json:"std"`
	}{s.Count, nullable(s.Mean), nullable(s.Median), nullable(s.StdDev)})
}

// GroupSummary is the per-metric statistics of one group.
type GroupSummary struct {
	Label   string           `json:"label"`
	Rows    int              `json:"rows"`
	Metrics map[string]Stats `json:"metrics"`
}

// Summary is the result of Summarize. Groups are in first-appearance order.
type Summary struct {
	GroupBy   string         `json:"groupBy"`
	Metrics   []string       `json:"metrics"`
	Groups    []GroupSummary `json:"groups"`
	Precision int            `json:"precision"`
}

// Group returns the summary of one label.
func (s *Summary) Group(label string) (GroupSummary, bool) {
	for _, g := range s.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return GroupSummary{}, false
}

// IsEmpty reports whether the summary has no groups.
func (s *Summary) IsEmpty() bool {
	return s == nil || len(s.Groups) == 0
}

// Rounded returns a copy with every statistic rounded to s.Precision places.
// The receiver keeps the raw values.
func (s *Summary) Rounded() *Summary {
	out := &Summary{
		GroupBy:   s.GroupBy,
		Metrics:   append([]string(nil), s.Metrics...),
		Groups:    make([]GroupSummary, 0, len(s.Groups)),
		Precision: s.Precision,
	}
	for _, g := range s.Groups {
		rg := GroupSummary{Label: g.Label, Rows: g.Rows, Metrics: make(map[string]Stats, len(g.Metrics))}
		for k, st := range g.Metrics {
			rg.Metrics[k] = Stats{
				Count:  st.Count,
				Mean:   Round(st.Mean, s.Precision),
				Median: Round(st.Median, s.Precision),
				StdDev: Round(st.StdDev, s.Precision),
			}
		}
		out.Groups = append(out.Groups, rg)
	}
	return out
}

// ============================================================================
// RANKING TYPES
// ============================================================================

// RankEntry is one (label, mean) pair of a Ranking.
type RankEntry struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
}

// MarshalJSON encodes a NaN mean as null.
func (e RankEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string   `json:"label"`
		Mean  *float64 `json:"mean"`
	}{e.Label, nullable(e.Mean)})
}

// Ranking is ordered by mean, descending; NaN means come last.
type Ranking []RankEntry

// Labels returns the labels in ranking order.
func (r Ranking) Labels() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Label
	}
	return out
}

// ============================================================================
// DISTRIBUTION TYPES — boxplot input
// ============================================================================

// BoxStats summarises the distribution of one metric within one label.
// Whiskers extend to the most extreme values within 1.5·IQR of the box.
type BoxStats struct {
	Label        string    `json:"label"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lowerWhisker"`
	UpperWhisker float64   `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
	Values       []float64 `json:"-"` // non-NaN values, sorted ascending
}

// MarshalJSON encodes the NaN statistics of an empty box as null.
func (b BoxStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label        string    `json:"label"`
		Count        int       `json:"count"`
		Min          *float64  `json:"min"`
		Q1           *float64  `json:"q1"`
		Median       *float64  `json:"median"`
		Q3           *float64  `json:"q3"`
		Max          *float64  `json:"max"`
		LowerWhisker *float64  `json:"lowerWhisker"`
		UpperWhisker *float64  `json:"upperWhisker"`
		Outliers     []float64 `json:"outliers,omitempty"`
	}{
		b.Label, b.Count,
		nullable(b.Min), nullable(b.Q1), nullable(b.Median), nullable(b.Q3), nullable(b.Max),
		nullable(b.LowerWhisker), nullable(b.UpperWhisker),
		b.Outliers,
	})
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MarshalJSON encodes a NaN value as null.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string   `json:"label"`
		Value *float64 `json:"value"`
	}{p.Label, nullable(p.Value)})
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string       `json:"title"`
	Columns []Column     `json:"columns"`
	Rows    [][]string   `json:"rows"`
	Footer  *TableFooter `json:"footer,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// TableFooter carries a closing row, e.g. totals.
type TableFooter struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// DASHBOARD — one refresh
// ============================================================================

// Dashboard is the render-ready output of Execute.
type Dashboard struct {
	Metric       string       `json:"metric"`
	RankMetric   string       `json:"rankMetric"`
	Labels       []string     `json:"labels"`
	Rows         int          `json:"rows"`
	Distribution []BoxStats   `json:"distribution"`
	Summary      *Summary     `json:"summary"`
	SummaryTable *TableData   `json:"summaryTable"`
	Ranking      Ranking      `json:"ranking"`
	RankingChart *ChartConfig `json:"rankingChart,omitempty"`
	Reply        string       `json:"reply"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
