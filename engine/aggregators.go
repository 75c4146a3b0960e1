package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Grouping, Statistics, and Ranking via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to the table.
// Grouping produces SubViews (index lists into parent view).
// NaN cells are skipped, the way a dataframe groupby does by default.
// ============================================================================

// Summarize groups rows by groupBy and computes mean, median and sample
// standard deviation of every metric per group.
//
// An empty view (or a view with no columns at all) yields an empty Summary.
// A metric or groupBy column the view does not have is a ConfigError.
func Summarize(view RecordView, metricKeys []string, groupBy string, opts ...Option) (*Summary, error) {
	cfg := applyOptions(opts)
	start := time.Now()
	defer func() { cfg.Recorder.RecordAggregation("summarize", time.Since(start)) }()

	summary := &Summary{
		GroupBy:   groupBy,
		Metrics:   append([]string(nil), metricKeys...),
		Groups:    []GroupSummary{},
		Precision: cfg.Precision,
	}
	if len(view.Columns()) == 0 {
		return summary, nil
	}
	if err := validateColumns(view, metricKeys, groupBy); err != nil {
		return nil, err
	}

	for _, g := range groupBySingle(view, groupBy) {
		gs := GroupSummary{
			Label:   g.Key,
			Rows:    g.Count,
			Metrics: make(map[string]Stats, len(metricKeys)),
		}
		for _, m := range metricKeys {
			gs.Metrics[m] = ComputeStats(columnValues(g.View, m))
		}
		summary.Groups = append(summary.Groups, gs)
	}
	return summary, nil
}

// Rank computes the per-group mean of metric and orders groups by it,
// descending. Equal means keep first-appearance order; NaN means sort last.
func Rank(view RecordView, metric string, groupBy string, opts ...Option) (Ranking, error) {
	cfg := applyOptions(opts)
	start := time.Now()
	defer func() { cfg.Recorder.RecordAggregation("rank", time.Since(start)) }()

	if len(view.Columns()) == 0 {
		return Ranking{}, nil
	}
	if err := validateColumns(view, []string{metric}, groupBy); err != nil {
		return nil, err
	}

	groups := groupBySingle(view, groupBy)
	ranking := make(Ranking, 0, len(groups))
	for _, g := range groups {
		ranking = append(ranking, RankEntry{
			Label: g.Key,
			Mean:  MeanValue(g.View, metric),
		})
	}
	SortRanking(ranking)
	return ranking, nil
}

func validateColumns(view RecordView, metricKeys []string, groupBy string) error {
	if len(metricKeys) == 0 {
		return invalidSelection("metrics", "")
	}
	if !HasColumn(view, groupBy) {
		return unknownColumn("groupBy", groupBy)
	}
	for _, m := range metricKeys {
		if !HasColumn(view, m) {
			return unknownColumn("metric", m)
		}
	}
	return nil
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, column string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Cell(i, column)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// STATISTICS
// ============================================================================

// ComputeStats returns count, mean, median and sample standard deviation of
// the non-NaN values. No values → all NaN; one value → StdDev NaN.
func ComputeStats(values []float64) Stats {
	xs := dropNaN(values)
	n := len(xs)
	st := Stats{Count: n, Mean: math.NaN(), Median: math.NaN(), StdDev: math.NaN()}
	if n == 0 {
		return st
	}
	st.Mean = stat.Mean(xs, nil)
	sort.Float64s(xs)
	st.Median = median(xs)
	if n > 1 {
		st.StdDev = stat.StdDev(xs, nil)
	}
	return st
}

// MeanValue is the mean of the non-NaN values of metric, NaN if there are none.
func MeanValue(view RecordView, metric string) float64 {
	xs := dropNaN(columnValues(view, metric))
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// median expects sorted input with at least one element.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func columnValues(view RecordView, column string) []float64 {
	out := make([]float64, view.Len())
	for i := range out {
		out[i] = view.Value(i, column)
	}
	return out
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// SORTING
// ============================================================================

// SortRanking orders entries by mean descending, NaN last. The sort is
// stable, so ties keep their current order.
func SortRanking(r Ranking) {
	sort.SliceStable(r, func(i, j int) bool {
		a, b := r[i].Mean, r[j].Mean
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// Round rounds v to places decimals. NaN and ±Inf pass through.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// FormatNumber renders v with places decimals, "NaN" for NaN.
func FormatNumber(v float64, places int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", places, Round(v, places))
}

// UniqueValues returns distinct non-empty values of a column in
// first-appearance order.
func UniqueValues(view RecordView, column string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Cell(i, column)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// Labels returns the distinct labels of a view in first-appearance order.
func Labels(view RecordView) []string {
	return UniqueValues(view, view.LabelColumn())
}

// LabelForDimension returns a capitalized label for a column or source name.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}
