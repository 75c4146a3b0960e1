package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// newTestTable builds a table with metric columns GHI, DNI, DHI, a passthrough
// Timestamp column and the label column "country". Each row is
// {country, GHI, DNI, DHI}.
func newTestTable(t *testing.T, rows ...[4]string) *Table {
	t.Helper()
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{Cells: []string{"t" + r[0], r[1], r[2], r[3], r[0]}}
	}
	table, err := NewTable([]string{"Timestamp", "GHI", "DNI", "DHI", "country"}, "country", records, DefaultMetrics)
	require.NoError(t, err)
	return table
}

// exampleTable is the two-country table used throughout: A has two rows,
// B a single row.
func exampleTable(t *testing.T) *Table {
	return newTestTable(t,
		[4]string{"A", "10", "1", "5"},
		[4]string{"A", "20", "3", "5"},
		[4]string{"B", "15", "2", "4"},
	)
}

func isNaN(v float64) bool { return math.IsNaN(v) }
