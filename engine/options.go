package engine

import (
	"github.com/just-scribblig/solar-challenge-week0/metrics"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Summarize/Rank/Execute
// ============================================================================

// DefaultPrecision is the number of decimals used for display values.
const DefaultPrecision = 2

// DefaultMetrics are the irradiance columns of the cleaned country files.
var DefaultMetrics = []string{"GHI", "DNI", "DHI"}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Precision  int
	Metrics    []string // selectable metrics, in display order
	RankMetric string   // metric behind the ranking chart
	Unit       string
	Recorder   metrics.Recorder
}

// WithPrecision sets the decimals used for rounded display values.
func WithPrecision(places int) Option {
	return func(c *config) {
		if places >= 0 {
			c.Precision = places
		}
	}
}

// WithMetrics sets the metric columns a Selection may pick from and that the
// summary table covers.
func WithMetrics(keys ...string) Option {
	return func(c *config) {
		if len(keys) > 0 {
			c.Metrics = append([]string(nil), keys...)
		}
	}
}

// WithRankMetric sets the metric ranked in Execute. Empty means "the
// selected metric".
func WithRankMetric(metric string) Option {
	return func(c *config) {
		c.RankMetric = metric
	}
}

// WithUnit sets the unit shown in titles and replies (e.g. "W/m²").
func WithUnit(unit string) Option {
	return func(c *config) {
		c.Unit = unit
	}
}

// WithRecorder reports aggregation timings to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.Recorder = r
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Precision:  DefaultPrecision,
		Metrics:    DefaultMetrics,
		RankMetric: "GHI", // the dashboard ranks countries by average GHI
		Unit:       "W/m²",
		Recorder:   metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
