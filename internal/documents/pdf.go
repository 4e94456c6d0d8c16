// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// defaultFontSize stands in when the parser reports no font size.
const defaultFontSize = 12.0

// openPDF parses data. The parser panics on some malformed inputs, so
// panics are turned into errors.
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", p)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// pageRows returns the page's text rows top to bottom, each row's runs
// left to right.
func pageRows(p pdf.Page) (rows []pdf.TextHorizontal, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("reading page text: %v", r)
		}
	}()
	if p.V.IsNull() {
		return nil, nil
	}
	raw, err := p.GetTextByRow()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].Position > raw[j].Position })
	for _, row := range raw {
		content := append(pdf.TextHorizontal(nil), row.Content...)
		sort.SliceStable(content, func(i, j int) bool { return content[i].X < content[j].X })
		rows = append(rows, content)
	}
	return rows, nil
}

// pageText rebuilds the page's text one line per row.
func pageText(p pdf.Page) (string, error) {
	rows, err := pageRows(p)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimSpace(joinRuns(row))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// fontSize returns the run's font size or the default.
func fontSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return defaultFontSize
}

// runWidth returns the run's advance width, estimating half an em per rune
// when the parser gives none.
func runWidth(t pdf.Text) float64 {
	if t.W > 0 {
		return t.W
	}
	return float64(utf8.RuneCountInString(t.S)) * fontSize(t) * 0.5
}

// gap is the horizontal space between the end of a and the start of b.
func gap(a, b pdf.Text) float64 {
	return b.X - (a.X + runWidth(a))
}

// joinRuns concatenates runs, inserting a space where the gap between two
// runs is wider than a fraction of the font size.
func joinRuns(runs []pdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 && gap(runs[i-1], t) > 0.15*fontSize(t) && !endsWithSpace(b.String()) && !startsWithSpace(t.S) {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
	}
	return b.String()
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r != utf8.RuneError && unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsSpace(r)
}

// infoField reads one entry of the document information dictionary.
func infoField(r *pdf.Reader, key string) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return strings.TrimSpace(r.Trailer().Key("Info").Key(key).Text())
}
