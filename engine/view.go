package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The aggregator never mutates the unified table. It reads through this
// interface.
//
// Implementations:
//   Table    — the unified table produced by the loader
//   SubView  — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a labeled dataset.
// The engine calls Value/Cell in tight loops — keep implementations fast.
type RecordView interface {
	Len() int
	Columns() []string
	LabelColumn() string
	Label(index int) string
	Cell(index int, column string) string
	Value(index int, column string) float64 // NaN when missing or non-numeric
}

// HasColumn reports whether the view exposes the named column.
func HasColumn(view RecordView, column string) bool {
	for _, c := range view.Columns() {
		if c == column {
			return true
		}
	}
	return false
}

// ============================================================================
// TABLE — the unified, immutable table
// ============================================================================

// Table stores raw cells row-wise and pre-parsed numeric columns column-wise.
// It is immutable after construction and safe for concurrent readers.
type Table struct {
	columns     []string
	index       map[string]int
	labelColumn string
	records     []Record
	numeric     map[string][]float64
}

// EmptyTable returns a table with no rows and no columns.
func EmptyTable() *Table {
	return &Table{index: map[string]int{}, numeric: map[string][]float64{}}
}

// NewTable builds a table. Every record must have exactly len(columns) cells
// and labelColumn must be one of columns. numericColumns are parsed once up
// front; other columns are parsed on demand by Value.
func NewTable(columns []string, labelColumn string, records []Record, numericColumns []string) (*Table, error) {
	t := &Table{
		columns:     append([]string(nil), columns...),
		index:       make(map[string]int, len(columns)),
		labelColumn: labelColumn,
		records:     records,
		numeric:     make(map[string][]float64, len(numericColumns)),
	}
	for i, c := range t.columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}
	if _, ok := t.index[labelColumn]; !ok {
		return nil, fmt.Errorf("label column %q not in columns", labelColumn)
	}
	for r, rec := range records {
		if len(rec.Cells) != len(t.columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", r, len(rec.Cells), len(t.columns))
		}
	}
	for _, c := range numericColumns {
		col, ok := t.index[c]
		if !ok {
			continue
		}
		vals := make([]float64, len(records))
		for r, rec := range records {
			vals[r] = ParseValue(rec.Cells[col])
		}
		t.numeric[c] = vals
	}
	return t, nil
}

func (t *Table) Len() int            { return len(t.records) }
func (t *Table) Columns() []string   { return t.columns }
func (t *Table) LabelColumn() string { return t.labelColumn }

func (t *Table) Label(i int) string {
	return t.Cell(i, t.labelColumn)
}

func (t *Table) Cell(i int, column string) string {
	if i < 0 || i >= len(t.records) {
		return ""
	}
	col, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.records[i].Cells[col]
}

func (t *Table) Value(i int, column string) float64 {
	if i < 0 || i >= len(t.records) {
		return math.NaN()
	}
	if vals, ok := t.numeric[column]; ok {
		return vals[i]
	}
	return ParseValue(t.Cell(i, column))
}

// Records exposes the underlying rows. Callers must not modify them.
func (t *Table) Records() []Record { return t.records }

// ParseValue parses a numeric cell. Empty, "NaN" and non-numeric cells are NaN.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int            { return len(v.indices) }
func (v *SubView) Columns() []string   { return v.parent.Columns() }
func (v *SubView) LabelColumn() string { return v.parent.LabelColumn() }

func (v *SubView) Label(i int) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Label(v.indices[i])
}

func (v *SubView) Cell(i int, column string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Cell(v.indices[i], column)
}

func (v *SubView) Value(i int, column string) float64 {
	if i < 0 || i >= len(v.indices) {
		return math.NaN()
	}
	return v.parent.Value(v.indices[i], column)
}
