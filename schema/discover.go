package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic Column Classification
// ============================================================================
// Inspects a CSV sample and proposes a schema: continuous numeric columns
// become metrics, everything else is reported as a passthrough column.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → metric or passthrough
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize  int    // Max rows to inspect (0 = all). Default: 1000
	Name        string // Dataset name override
	LabelColumn string // Default: DefaultLabelColumn
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize:  1000,
		LabelColumn: DefaultLabelColumn,
	}
}

// DiscoverFromCSV generates a Config by inspecting CSV data.
func DiscoverFromCSV(r io.Reader, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.LabelColumn == "" {
		opt.LabelColumn = DefaultLabelColumn
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	// 3. Classify
	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		LabelColumn:    opt.LabelColumn,
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		if col.isMetric {
			m := DefaultMetric(col.header)
			m.SampleValues = col.sampleVals
			config.Metrics = append(config.Metrics, m)
			continue
		}
		config.PassthroughColumns = append(config.PassthroughColumns, SkippedColumn{
			Column: col.header,
			Reason: col.reason,
		})
	}

	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	colType     columnType
	isMetric    bool
	reason      string
	uniqueCount int
	totalCount  int
	nullCount   int
	hasDecimals bool
	sampleVals  []string
}

// analyzeColumn inspects all sampled values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{header: header, totalCount: len(rows)}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if isNull(val) {
			col.nullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.reason = "All values are empty/null"
		return col
	}
	col.sampleVals = collectSamples(uniqueSet, 5)
	col.colType = detectType(values)

	switch col.colType {
	case typeNumeric:
		for _, v := range values {
			if strings.ContainsAny(v, ".eE") {
				col.hasDecimals = true
				break
			}
		}
		if !col.hasDecimals && col.uniqueCount == len(values) && len(values) > 10 {
			col.reason = "Unique per row — likely an ID column"
			return col
		}
		if !col.hasDecimals && col.uniqueCount <= 2 && len(values) > 2 {
			col.reason = "Boolean/flag column"
			return col
		}
		col.isMetric = true
	case typeDate:
		col.reason = "Temporal column"
	case typeBool:
		col.reason = "Boolean/flag column"
	default:
		col.reason = "Text column"
	}
	return col
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	if len(values) == 0 {
		return typeString
	}

	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if boolCount >= threshold && boolCount > 0 {
		return typeBool
	}
	if dateCount >= threshold && dateCount > 0 {
		return typeDate
	}
	if numCount >= threshold && numCount > 0 {
		return typeNumeric
	}
	return typeString
}

func isNull(s string) bool {
	switch s {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"02/01/2006",
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

func collectSamples(set map[string]bool, n int) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
