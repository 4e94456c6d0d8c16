// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the tool servers.
// Paper records are persisted in the per-topic cache; configuration structs
// are populated by the CLI from flags, environment, and the config file.
package types

import "strings"

// PaperRecord holds the cached metadata for one arXiv paper. The JSON field
// names are the on-disk cache format and must not change.
type PaperRecord struct {
	// Title is the paper title as returned by arXiv.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL is the direct link to the paper PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Published is the publication date formatted as YYYY-MM-DD.
	Published string `json:"published" yaml:"published"`

	// Categories lists the arXiv category tags (e.g. "cs.LG").
	Categories []string `json:"categories" yaml:"categories"`
}

// Year returns the substring of Published before the first "-".
func (p PaperRecord) Year() string {
	year, _, _ := strings.Cut(p.Published, "-")
	return year
}

// Paper pairs a short ID with its record, in the order arXiv ranked it.
type Paper struct {
	ID     string
	Record PaperRecord
}

// NormalizeTopic maps a free-text topic to its cache key: lowercase with
// spaces replaced by underscores.
func NormalizeTopic(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "_")
}
