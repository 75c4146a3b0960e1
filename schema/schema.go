package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of the country datasets
// ============================================================================
// The loader uses it to validate source headers and to decide which columns
// to parse as numbers. The engine uses the metric keys for selection checks.
// Every other column passes through untouched.
// ============================================================================

// DefaultLabelColumn is the column the loader adds to every row.
const DefaultLabelColumn = "country"

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	LabelColumn string       `json:"labelColumn" yaml:"label_column"`
	Metrics     []MetricMeta `json:"metrics" yaml:"metrics"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"-"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"-"`

	// Columns discovery did not classify as metrics
	PassthroughColumns []SkippedColumn `json:"passthroughColumns,omitempty" yaml:"-"`
}

// MetricMeta describes a numeric column available for aggregation.
type MetricMeta struct {
	Key          string   `json:"key" yaml:"key"` // exact, case-sensitive column name
	DisplayName  string   `json:"displayName" yaml:"display_name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Unit         string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	SampleValues []string `json:"sampleValues,omitempty" yaml:"-"`
}

// SkippedColumn records why a column was not treated as a metric.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Solar returns the schema of the cleaned irradiance files.
func Solar() Config {
	return Config{
		Name:        "Solar irradiance",
		Version:     "1.0",
		Description: "Cleaned solar radiation measurements per country",
		LabelColumn: DefaultLabelColumn,
		Metrics: []MetricMeta{
			{Key: "GHI", DisplayName: "Global Horizontal Irradiance", Unit: "W/m²"},
			{Key: "DNI", DisplayName: "Direct Normal Irradiance", Unit: "W/m²"},
			{Key: "DHI", DisplayName: "Diffuse Horizontal Irradiance", Unit: "W/m²"},
		},
	}
}

// DefaultMetric creates a MetricMeta with sensible defaults.
func DefaultMetric(key string) MetricMeta {
	return MetricMeta{
		Key:         key,
		DisplayName: key,
	}
}

// MetricKeys returns all metric keys in order.
func (c Config) MetricKeys() []string {
	keys := make([]string, len(c.Metrics))
	for i, m := range c.Metrics {
		keys[i] = m.Key
	}
	return keys
}

// Metric looks up a metric by key.
func (c Config) Metric(key string) (MetricMeta, bool) {
	for _, m := range c.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return MetricMeta{}, false
}

// Unit returns the unit shared by all metrics, or "" if they differ.
func (c Config) Unit() string {
	if len(c.Metrics) == 0 {
		return ""
	}
	unit := c.Metrics[0].Unit
	for _, m := range c.Metrics[1:] {
		if m.Unit != unit {
			return ""
		}
	}
	return unit
}

// Check verifies the schema itself is usable.
func (c Config) Check() error {
	if strings.TrimSpace(c.LabelColumn) == "" {
		return fmt.Errorf("schema %q: label column is empty", c.Name)
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("schema %q: no metrics", c.Name)
	}
	seen := make(map[string]bool, len(c.Metrics))
	for _, m := range c.Metrics {
		if m.Key == "" {
			return fmt.Errorf("schema %q: metric with empty key", c.Name)
		}
		if m.Key == c.LabelColumn {
			return fmt.Errorf("schema %q: metric %q collides with the label column", c.Name, m.Key)
		}
		if seen[m.Key] {
			return fmt.Errorf("schema %q: duplicate metric %q", c.Name, m.Key)
		}
		seen[m.Key] = true
	}
	return nil
}

// MissingColumns returns the metric keys absent from header, in schema order.
func (c Config) MissingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, m := range c.Metrics {
		if !present[m.Key] {
			missing = append(missing, m.Key)
		}
	}
	return missing
}

// Validate checks a source header against the schema: every metric column
// must be present and the label column must not already exist.
func (c Config) Validate(header []string) error {
	if missing := c.MissingColumns(header); len(missing) > 0 {
		return fmt.Errorf("missing metric columns %s", strings.Join(missing, ", "))
	}
	for _, h := range header {
		if h == c.LabelColumn {
			return fmt.Errorf("column %q is reserved for the source label", h)
		}
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
	}
	return nil
}
