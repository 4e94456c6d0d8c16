// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// CSVResult is the JSON form of a CSV document. Data holds one object per
// record; JSON is the same array as indented text with keys in column order.
type CSVResult struct {
	Count   int                 `json:"count"`
	Columns []string            `json:"columns"`
	Data    []map[string]string `json:"data"`
	JSON    string              `json:"json"`
}

// record is one converted row with its keys in column order.
type record struct {
	keys   []string
	values map[string]string
}

func (r record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := marshalText(k)
		if err != nil {
			return nil, err
		}
		val, err := marshalText(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func marshalText(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// CSVToJSON parses csvData. With a header, each later row maps header names
// to cells, missing trailing cells becoming ""; without one, keys are col_0,
// col_1, and so on.
func CSVToJSON(csvData string, hasHeader bool) (CSVResult, error) {
	rd := csv.NewReader(strings.NewReader(csvData))
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true

	rows, err := rd.ReadAll()
	if err != nil {
		return CSVResult{}, toolkit.InvalidInput("Failed to convert CSV: %v", err)
	}
	if len(rows) == 0 {
		return CSVResult{}, toolkit.InvalidInput("No data provided")
	}

	var (
		records []record
		columns []string
	)
	if hasHeader {
		columns = distinct(rows[0])
		for _, row := range rows[1:] {
			rec := record{keys: columns, values: make(map[string]string, len(columns))}
			for i, h := range rows[0] {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				rec.values[h] = cell
			}
			records = append(records, rec)
		}
	} else {
		width := 0
		for _, row := range rows {
			rec := record{values: make(map[string]string, len(row))}
			for i, cell := range row {
				key := "col_" + strconv.Itoa(i)
				rec.keys = append(rec.keys, key)
				rec.values[key] = cell
			}
			records = append(records, rec)
			width = max(width, len(row))
		}
		for i := range width {
			columns = append(columns, "col_"+strconv.Itoa(i))
		}
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []record{}
	}
	if err := enc.Encode(records); err != nil {
		return CSVResult{}, toolkit.Wrap(toolkit.KindInternal, "encoding JSON", err)
	}

	out := CSVResult{
		Count:   len(records),
		Columns: columns,
		Data:    make([]map[string]string, len(records)),
		JSON:    strings.TrimRight(b.String(), "\n"),
	}
	for i, r := range records {
		out.Data[i] = r.values
	}
	return out, nil
}

// distinct drops repeated names, keeping the first position of each.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// CSVText is a CSV document produced from JSON.
type CSVText struct {
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
	CSV     string   `json:"csv"`
}

const notObjectArray = "JSON must be a non-empty array of objects"

// JSONToCSV converts a JSON array of objects to CSV. Columns are the sorted
// union of every object's keys; a key missing from an object leaves an
// empty cell. Numbers keep their literal text, null is empty, and nested
// arrays or objects are written as compact JSON.
func JSONToCSV(jsonData string) (CSVText, error) {
	dec := json.NewDecoder(strings.NewReader(jsonData))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return CSVText{}, toolkit.InvalidInput("Invalid JSON format")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return CSVText{}, toolkit.InvalidInput("Invalid JSON format")
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return CSVText{}, toolkit.InvalidInput(notObjectArray)
	}

	objects := make([]map[string]any, 0, len(items))
	keySet := make(map[string]struct{})
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return CSVText{}, toolkit.InvalidInput(notObjectArray)
		}
		for k := range obj {
			keySet[k] = struct{}{}
		}
		objects = append(objects, obj)
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(keys); err != nil {
		return CSVText{}, toolkit.Wrap(toolkit.KindInternal, "writing CSV", err)
	}
	for _, obj := range objects {
		row := make([]string, len(keys))
		for i, k := range keys {
			cell, err := cellText(obj[k])
			if err != nil {
				return CSVText{}, toolkit.Wrap(toolkit.KindInternal, "writing CSV", err)
			}
			row[i] = cell
		}
		if err := w.Write(row); err != nil {
			return CSVText{}, toolkit.Wrap(toolkit.KindInternal, "writing CSV", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return CSVText{}, toolkit.Wrap(toolkit.KindInternal, "writing CSV", err)
	}
	return CSVText{Columns: keys, Rows: len(objects), CSV: b.String()}, nil
}

func cellText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		b, err := marshalText(x)
		if err != nil {
			return "", fmt.Errorf("encoding nested value: %w", err)
		}
		return string(b), nil
	}
}
