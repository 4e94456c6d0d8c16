// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

func TestCSVToJSONWithHeader(t *testing.T) {
	r, err := CSVToJSON("name,age\nAlice,30\nBob\n", true)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count)
	assert.Equal(t, []string{"name", "age"}, r.Columns)
	assert.Equal(t, []map[string]string{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": ""},
	}, r.Data)

	want := `[
  {
    "name": "Alice",
    "age": "30"
  },
  {
    "name": "Bob",
    "age": ""
  }
]`
	assert.Equal(t, want, r.JSON)
}

func TestCSVToJSONWithoutHeader(t *testing.T) {
	r, err := CSVToJSON("1,2\n3\n", false)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count)
	assert.Equal(t, []string{"col_0", "col_1"}, r.Columns)
	assert.Equal(t, []map[string]string{
		{"col_0": "1", "col_1": "2"},
		{"col_0": "3"},
	}, r.Data)
}

func TestCSVToJSONHeaderOnly(t *testing.T) {
	r, err := CSVToJSON("a,b\n", true)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count)
	assert.Empty(t, r.Data)
	assert.Equal(t, "[]", r.JSON)
}

func TestCSVToJSONDuplicateHeader(t *testing.T) {
	r, err := CSVToJSON("a,a,b\n1,2,3\n", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Columns)
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, r.Data[0])
}

func TestCSVToJSONEmpty(t *testing.T) {
	_, err := CSVToJSON("", true)
	require.Error(t, err)
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
	assert.Contains(t, err.Error(), "No data provided")
}

func TestJSONToCSV(t *testing.T) {
	r, err := JSONToCSV(`[{"b": 1.50, "a": null, "c": {"x": [1, 2]}}, {"a": true}]`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, r.Columns)
	assert.Equal(t, 2, r.Rows)
	assert.Equal(t, "a,b,c\n,1.50,\"{\"\"x\"\":[1,2]}\"\ntrue,,\n", r.CSV)
}

func TestJSONToCSVErrors(t *testing.T) {
	tests := []struct {
		name, input, message string
	}{
		{"not json", "not json", "Invalid JSON format"},
		{"trailing data", `[{"a": 1}] extra`, "Invalid JSON format"},
		{"object", `{"a": 1}`, notObjectArray},
		{"empty array", `[]`, notObjectArray},
		{"scalar element", `[{"a": 1}, 2]`, notObjectArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSONToCSV(tt.input)
			require.Error(t, err)
			assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCSVJSONRoundTrip(t *testing.T) {
	in := "city,population,country\nOslo,709000,NO\nLyon,522000,FR\nKyoto,1460000,JP\n"

	j, err := CSVToJSON(in, true)
	require.NoError(t, err)
	c, err := JSONToCSV(j.JSON)
	require.NoError(t, err)

	assert.ElementsMatch(t, rowSet(t, in), rowSet(t, c.CSV))
}

// rowSet reads a headed CSV document into one map per row.
func rowSet(t *testing.T, doc string) []map[string]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(doc)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(row))
		for i, h := range rows[0] {
			m[h] = row[i]
		}
		out = append(out, m)
	}
	return out
}
