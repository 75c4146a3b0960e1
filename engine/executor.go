package engine

import (
	"fmt"
	"slices"

	"github.com/just-scribblig/solar-challenge-week0/logger"
)

// ============================================================================
// EXECUTOR — One dashboard refresh
// ============================================================================
// Entry point: Execute(view, selection, opts...)
//
// Pipeline:
//   1. Validate the selected metric
//   2. Filter rows by the selected labels → SubView
//   3. Distribution of the selected metric (boxplot)
//   4. Summary of every configured metric (table)
//   5. Ranking of the rank metric (bar chart)
//   6. One-line reply
//
// Zero data copy — the engine reads the table through RecordView.
// ============================================================================

// Execute computes everything the presentation layer renders for one
// selection. It returns ErrNoData when there is nothing to show and a
// ConfigError when the selection names an unknown metric.
func Execute(view RecordView, sel Selection, opts ...Option) (*Dashboard, error) {
	cfg := applyOptions(opts)

	if !slices.Contains(cfg.Metrics, sel.Metric) {
		return nil, invalidSelection("metric", sel.Metric)
	}
	if view.Len() == 0 || len(view.Columns()) == 0 {
		return nil, fmt.Errorf("execute: %w", ErrNoData)
	}

	rankMetric := cfg.RankMetric
	if rankMetric == "" {
		rankMetric = sel.Metric
	}

	// 1. Filter → SubView (zero-copy)
	filtered := FilterByLabel(view, sel.Labels)
	if filtered.Len() == 0 {
		return nil, fmt.Errorf("execute: selection %v matched no rows: %w", sel.Labels, ErrNoData)
	}
	logger.Debugf("🔧 Engine: %d rows after filtering (from %d), metric=%s", filtered.Len(), view.Len(), sel.Metric)

	// 2. Summary
	summary, err := Summarize(filtered, cfg.Metrics, view.LabelColumn(), opts...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	// 3. Ranking
	ranking, err := Rank(filtered, rankMetric, view.LabelColumn(), opts...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	// 4. Distribution — Summarize already validated sel.Metric is a column
	distribution := BuildDistribution(filtered, sel.Metric)

	return &Dashboard{
		Metric:       sel.Metric,
		RankMetric:   rankMetric,
		Labels:       Labels(filtered),
		Rows:         filtered.Len(),
		Distribution: distribution,
		Summary:      summary,
		SummaryTable: BuildSummaryTable(summary, "Summary Statistics"),
		Ranking:      ranking,
		RankingChart: BuildRankingChart(ranking, rankMetric, cfg.Unit, cfg.Precision),
		Reply:        BuildReply(ranking, rankMetric, cfg.Unit, filtered.Len(), cfg.Precision),
	}, nil
}
