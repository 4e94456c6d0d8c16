// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Table is one table recovered from a page. Page and Index are 1-based.
type Table struct {
	Page    int        `json:"page"`
	Index   int        `json:"table_index"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// cellGapFactor is the gap, in multiples of the font size, that separates
// two cells on the same row.
const cellGapFactor = 1.5

// splitCells groups a row's runs into cells at wide horizontal gaps.
func splitCells(row []pdf.Text) []string {
	var (
		cells   []string
		current []pdf.Text
	)
	flush := func() {
		if cell := strings.TrimSpace(joinRuns(current)); cell != "" {
			cells = append(cells, cell)
		}
		current = current[:0]
	}
	for i, t := range row {
		if i > 0 && gap(row[i-1], t) > cellGapFactor*fontSize(t) {
			flush()
		}
		current = append(current, t)
	}
	flush()
	return cells
}

// findTables scans rows top to bottom. A run of at least two consecutive
// rows that each split into two or more cells is a table; its first row is
// the header.
func findTables(page int, rows []pdf.TextHorizontal) []Table {
	var (
		tables []Table
		block  [][]string
	)
	emit := func() {
		if len(block) >= 2 {
			tables = append(tables, Table{
				Page:    page,
				Index:   len(tables) + 1,
				Headers: block[0],
				Rows:    block[1:],
			})
		}
		block = nil
	}
	for _, row := range rows {
		cells := splitCells(row)
		if len(cells) >= 2 {
			block = append(block, cells)
			continue
		}
		emit()
	}
	emit()
	return tables
}
