package engine

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// CHART BUILDER — Ranking bar chart + per-label distributions (boxplot)
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725",
	"#31688E", "#35B779", "#90D743", "#472D7B", "#2C728E",
}

// BuildRankingChart produces a bar chart config from a ranking.
func BuildRankingChart(ranking Ranking, metric string, unit string, precision int) *ChartConfig {
	if len(ranking) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(ranking))
	for _, e := range ranking {
		points = append(points, ChartPoint{
			Label: e.Label,
			Value: Round(e.Mean, precision),
		})
	}

	yAxis := "Average " + metric
	if unit != "" {
		yAxis = fmt.Sprintf("%s (%s)", yAxis, unit)
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      fmt.Sprintf("Average %s Ranking", metric),
		XAxis:      "Country",
		YAxis:      yAxis,
		Series:     []ChartSeries{{Name: metric, Data: points, Color: defaultColors[0]}},
		Colors:     assignColors(len(points)),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// BuildDistribution computes boxplot statistics of metric for every label in
// first-appearance order. Labels with no usable values get Count 0 and NaN
// statistics.
func BuildDistribution(view RecordView, metric string) []BoxStats {
	groups := groupBySingle(view, view.LabelColumn())
	out := make([]BoxStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, boxStats(g.Key, columnValues(g.View, metric)))
	}
	return out
}

func boxStats(label string, values []float64) BoxStats {
	xs := dropNaN(values)
	sort.Float64s(xs)
	nan := math.NaN()
	b := BoxStats{
		Label: label, Count: len(xs), Values: xs,
		Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan,
		LowerWhisker: nan, UpperWhisker: nan,
	}
	if len(xs) == 0 {
		return b
	}

	b.Min, b.Max = xs[0], xs[len(xs)-1]
	b.Q1 = percentile(xs, 0.25)
	b.Median = median(xs)
	b.Q3 = percentile(xs, 0.75)

	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Q3, b.Q1
	for _, v := range xs {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b
}

// percentile uses linear interpolation between closest ranks on sorted input.
func percentile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
