// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

// Format names a citation style.
type Format string

const (
	FormatBibTeX Format = "bibtex"
	FormatAPA    Format = "apa"
	FormatSimple Format = "simple"
	FormatCSL    Format = "csl"
)

// Formats lists the supported citation styles.
var Formats = []Format{FormatBibTeX, FormatAPA, FormatSimple, FormatCSL}

// ParseFormat maps a user-supplied format name to a Format. Matching is
// case-insensitive; an empty name selects BibTeX.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatBibTeX, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", toolkit.InvalidInput("unsupported citation format %q (want bibtex, apa, simple, or csl)", name)
}

// Cite renders the record for id in format f.
func Cite(id string, r types.PaperRecord, f Format) (string, error) {
	switch f {
	case FormatBibTeX:
		return bibtex(id, r), nil
	case FormatAPA:
		return apa(id, r), nil
	case FormatSimple:
		return simple(id, r), nil
	case FormatCSL:
		return cslYAML(id, r)
	default:
		return "", toolkit.InvalidInput("unsupported citation format %q", f)
	}
}

func bibtex(id string, r types.PaperRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", id)
	fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(r.Authors, " and "))
	fmt.Fprintf(&b, "  title = {%s},\n", r.Title)
	fmt.Fprintf(&b, "  journal = {arXiv preprint arXiv:%s},\n", id)
	fmt.Fprintf(&b, "  year = {%s},\n", r.Year())
	fmt.Fprintf(&b, "  url = {%s}\n", r.PDFURL)
	b.WriteString("}")
	return b.String()
}

// apa names one author verbatim, joins two with "&", and shortens three or
// more to "First et al.".
func apa(id string, r types.PaperRecord) string {
	var authors string
	switch len(r.Authors) {
	case 0:
		authors = "Unknown"
	case 1:
		authors = r.Authors[0]
	case 2:
		authors = r.Authors[0] + " & " + r.Authors[1]
	default:
		authors = r.Authors[0] + " et al."
	}
	return fmt.Sprintf("%s (%s). %s. arXiv preprint arXiv:%s.", authors, r.Year(), r.Title, id)
}

func simple(id string, r types.PaperRecord) string {
	first := "Unknown"
	if len(r.Authors) > 0 {
		first = r.Authors[0]
	}
	return fmt.Sprintf("%s (%s). %s. arXiv:%s", first, r.Year(), r.Title, id)
}

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Abstract  string    `yaml:"abstract,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
	Container string    `yaml:"container-title,omitempty"`
	Number    string    `yaml:"number,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

func toCSLItem(id string, r types.PaperRecord) CSLItem {
	item := CSLItem{
		ID:        id,
		Type:      "article",
		Title:     r.Title,
		Abstract:  r.Summary,
		URL:       r.PDFURL,
		Container: "arXiv",
		Number:    id,
	}
	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if t, err := time.Parse(time.DateOnly, r.Published); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{t.Year(), int(t.Month()), t.Day()}}}
	} else if y, err := strconv.Atoi(r.Year()); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// cslYAML encodes the record as a single-item CSL-YAML list.
func cslYAML(id string, r types.PaperRecord) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode([]CSLItem{toCSLItem(id, r)}); err != nil {
		return "", toolkit.Wrap(toolkit.KindInternal, "encoding CSL", err)
	}
	if err := enc.Close(); err != nil {
		return "", toolkit.Wrap(toolkit.KindInternal, "encoding CSL", err)
	}
	return b.String(), nil
}

// parseAuthorName splits a full name on the last space: everything before is
// given, the last token is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
