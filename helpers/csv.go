package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a header and []engine.Record
// ============================================================================
// The loader opens the resource (file, gzip, zstd, GCS object) and hands the
// stream here. Cells are kept verbatim; numeric parsing happens once in
// engine.NewTable for the metric columns only.
// ============================================================================

const utf8BOM = "\ufeff"

// ReadCSV reads a header row followed by data rows. Every row must have as
// many fields as the header; a ragged row fails the whole resource.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0 // enforce header width

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("CSV is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// ToRecords reorders each row into columns order and appends label as the
// last cell. order[i] is the row index of columns[i].
func ToRecords(rows [][]string, order []int, label string) []engine.Record {
	records := make([]engine.Record, len(rows))
	for r, row := range rows {
		cells := make([]string, len(order)+1)
		for i, j := range order {
			cells[i] = row[j]
		}
		cells[len(order)] = label
		records[r] = engine.Record{Cells: cells}
	}
	return records
}

// ColumnOrder maps want onto header. It fails unless both hold the same set
// of column names.
func ColumnOrder(want, header []string) ([]int, error) {
	if len(want) != len(header) {
		return nil, fmt.Errorf("has %d columns, want %d", len(header), len(want))
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	order := make([]int, len(want))
	var missing []string
	for i, w := range want {
		j, ok := pos[w]
		if !ok {
			missing = append(missing, w)
			continue
		}
		order[i] = j
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("columns differ from first source: missing %s", strings.Join(missing, ", "))
	}
	return order, nil
}

// Identity returns the order that keeps a header as-is.
func Identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
