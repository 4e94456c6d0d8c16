// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row lays out strings at the given x positions with estimated widths.
func row(cells ...any) pdf.TextHorizontal {
	var out pdf.TextHorizontal
	for i := 0; i+1 < len(cells); i += 2 {
		out = append(out, pdf.Text{X: cells[i].(float64), FontSize: 12, S: cells[i+1].(string)})
	}
	return out
}

func TestSplitCells(t *testing.T) {
	got := splitCells(row(72.0, "Name", 200.0, "City", 330.0, "Age"))
	assert.Equal(t, []string{"Name", "City", "Age"}, got)

	// Runs closer than the cell gap stay in one cell.
	got = splitCells(row(72.0, "New", 96.0, "York", 200.0, "NY"))
	assert.Equal(t, []string{"New York", "NY"}, got)

	assert.Equal(t, []string{"just one line of prose"}, splitCells(row(72.0, "just one line of prose")))
	assert.Empty(t, splitCells(nil))
}

func TestJoinRunsPerGlyph(t *testing.T) {
	runs := pdf.TextHorizontal{
		{X: 72, W: 6, FontSize: 12, S: "H"},
		{X: 78, W: 6, FontSize: 12, S: "i"},
		{X: 84, W: 3, FontSize: 12, S: " "},
		{X: 87, W: 6, FontSize: 12, S: "y"},
		{X: 93, W: 6, FontSize: 12, S: "o"},
	}
	assert.Equal(t, "Hi yo", joinRuns(runs))
}

func TestFindTables(t *testing.T) {
	rows := []pdf.TextHorizontal{
		row(72.0, "Quarterly report"),
		row(72.0, "Region", 200.0, "Revenue"),
		row(72.0, "North", 200.0, "100"),
		row(72.0, "South", 200.0, "250"),
		row(72.0, "Notes follow."),
		row(72.0, "A", 200.0, "B"),
		row(72.0, "lonely row after"),
		row(72.0, "K", 200.0, "V", 330.0, "X"),
		row(72.0, "k1", 200.0, "v1", 330.0, "x1"),
	}

	tables := findTables(3, rows)
	require.Len(t, tables, 2)

	assert.Equal(t, Table{
		Page:    3,
		Index:   1,
		Headers: []string{"Region", "Revenue"},
		Rows:    [][]string{{"North", "100"}, {"South", "250"}},
	}, tables[0])

	assert.Equal(t, 2, tables[1].Index)
	assert.Equal(t, []string{"K", "V", "X"}, tables[1].Headers)
	assert.Equal(t, [][]string{{"k1", "v1", "x1"}}, tables[1].Rows)
}

func TestFindTablesNone(t *testing.T) {
	assert.Empty(t, findTables(1, []pdf.TextHorizontal{row(72.0, "Just prose.")}))
	assert.Empty(t, findTables(1, nil))
}
