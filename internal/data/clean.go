// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"regexp"
	"strings"
)

var (
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	digitsRe      = regexp.MustCompile(`\p{Nd}+`)
)

// CleanOptions selects the clean_string steps.
type CleanOptions struct {
	Lowercase         bool
	RemovePunctuation bool
	RemoveNumbers     bool
	Trim              bool
}

// CleanString applies, in order: trim, lowercase, punctuation removal, digit
// removal, whitespace collapse, and a final trim.
func CleanString(text string, opts CleanOptions) string {
	if opts.Trim {
		text = strings.TrimSpace(text)
	}
	if opts.Lowercase {
		text = strings.ToLower(text)
	}
	if opts.RemovePunctuation {
		text = punctuationRe.ReplaceAllString(text, "")
	}
	if opts.RemoveNumbers {
		text = digitsRe.ReplaceAllString(text, "")
	}
	return NormalizeWhitespace(text)
}

// NormalizeWhitespace replaces every whitespace run with one space and trims
// the ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
