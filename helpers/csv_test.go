package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	headers, rows, err := ReadCSV(strings.NewReader("\ufeffTimestamp,GHI\n2021-08-09 00:01, 1.5\n2021-08-09 00:02,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Timestamp", "GHI"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, " 1.5", rows[0][1], "cells are kept verbatim")
	assert.Equal(t, "", rows[1][1])
}

func TestReadCSVHeaderOnly(t *testing.T) {
	headers, rows, err := ReadCSV(strings.NewReader("GHI,DNI,DHI\n"))
	require.NoError(t, err)
	assert.Len(t, headers, 3)
	assert.Empty(t, rows)
}

func TestReadCSVErrors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	assert.EqualError(t, err, "CSV is empty")

	_, _, err = ReadCSV(strings.NewReader("GHI,DNI\n1,2\n3\n"))
	assert.ErrorContains(t, err, "failed to read CSV row")
}

func TestColumnOrder(t *testing.T) {
	order, err := ColumnOrder([]string{"GHI", "DNI", "DHI"}, []string{"DHI", "GHI", "DNI"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, order)

	_, err = ColumnOrder([]string{"GHI", "DNI"}, []string{"GHI", "DNI", "RH"})
	assert.EqualError(t, err, "has 3 columns, want 2")

	_, err = ColumnOrder([]string{"GHI", "DNI"}, []string{"GHI", "RH"})
	assert.EqualError(t, err, "columns differ from first source: missing DNI")
}

func TestToRecords(t *testing.T) {
	rows := [][]string{{"5", "a"}, {"7", "b"}}
	records := ToRecords(rows, []int{1, 0}, "Benin")
	require.Len(t, records, 2)
	assert.Equal(t, []string{"a", "5", "Benin"}, records[0].Cells)
	assert.Equal(t, []string{"b", "7", "Benin"}, records[1].Cells)

	assert.Equal(t, []int{0, 1, 2}, Identity(3))
}
