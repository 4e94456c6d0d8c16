// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	specialCharsRe = regexp.MustCompile(`[^a-zA-Z0-9\s\p{Z}\x{0b}\x{1c}-\x{1f}\x{85}.,;:!?\-'"]`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
	emailRe        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	urlRe          = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
)

// CleanText collapses whitespace runs to single spaces when removeExtraSpaces
// is set, then drops everything except ASCII letters, digits, Unicode whitespace,
// and basic punctuation when removeSpecialChars is set. The result is trimmed.
func CleanText(text string, removeExtraSpaces, removeSpecialChars bool) string {
	if removeExtraSpaces {
		text = strings.Join(strings.Fields(text), " ")
	}
	if removeSpecialChars {
		text = specialCharsRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// WordCount holds basic text metrics.
type WordCount struct {
	Words              int     `json:"words"`
	Characters         int     `json:"characters"`
	CharactersNoSpaces int     `json:"characters_no_spaces"`
	Sentences          int     `json:"sentences"`
	Paragraphs         int     `json:"paragraphs"`
	AvgWordLength      float64 `json:"avg_word_length"`
}

// CountWords measures text. Sentences are runs of terminal punctuation and
// paragraphs are non-blank blocks separated by a blank line; both are at
// least 1.
func CountWords(text string) WordCount {
	noSpaces := strings.NewReplacer(" ", "", "\n", "").Replace(text)

	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	wc := WordCount{
		Words:              len(strings.Fields(text)),
		Characters:         utf8.RuneCountInString(text),
		CharactersNoSpaces: utf8.RuneCountInString(noSpaces),
		Sentences:          max(len(sentenceEndRe.FindAllStringIndex(text, -1)), 1),
		Paragraphs:         max(paragraphs, 1),
	}
	if wc.Words > 0 {
		wc.AvgWordLength = math.Round(float64(wc.CharactersNoSpaces)/float64(wc.Words)*100) / 100
	}
	return wc
}

// ExtractEmails returns the distinct email addresses in text, sorted.
func ExtractEmails(text string) []string {
	return distinctSorted(emailRe.FindAllString(text, -1))
}

// ExtractURLs returns the distinct http(s) URLs in text, sorted.
func ExtractURLs(text string) []string {
	return distinctSorted(urlRe.FindAllString(text, -1))
}

func distinctSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
