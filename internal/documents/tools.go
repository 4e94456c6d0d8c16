// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"context"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// CapabilityParser names the PDF parser self-check.
const CapabilityParser = "pdf-parser"

const noTablesMessage = "No tables found in PDF"

type PDFInput struct {
	PDFURL string `json:"pdf_url" jsonschema:"direct, publicly accessible URL of the PDF"`
}

type TablesInput struct {
	PDFURL     string `json:"pdf_url" jsonschema:"direct, publicly accessible URL of the PDF"`
	PageNumber int    `json:"page_number,omitempty" jsonschema:"restrict to this 1-indexed page"`
}

type CleanTextInput struct {
	Text               string `json:"text" jsonschema:"text to clean"`
	RemoveExtraSpaces  *bool  `json:"remove_extra_spaces,omitempty" jsonschema:"collapse whitespace runs (default true)"`
	RemoveSpecialChars bool   `json:"remove_special_chars,omitempty" jsonschema:"keep only letters, digits, whitespace, and basic punctuation"`
}

type TextInput struct {
	Text string `json:"text" jsonschema:"text to analyze"`
}

type TextOutput struct {
	PDFURL   string `json:"pdf_url"`
	NumPages int    `json:"num_pages"`
	Text     string `json:"text"`
}

type TablesOutput struct {
	PDFURL  string  `json:"pdf_url"`
	Count   int     `json:"count"`
	Tables  []Table `json:"tables"`
	Message string  `json:"message,omitempty"`
}

type PageCountOutput struct {
	PDFURL   string `json:"pdf_url"`
	NumPages int    `json:"num_pages"`
}

type CleanTextOutput struct {
	Text string `json:"text"`
}

type MatchesOutput struct {
	Count   int      `json:"count"`
	Matches []string `json:"matches"`
}

// Register adds the document tools and the parser probe to ts.
func (s *Service) Register(ts *toolkit.Service) {
	ts.Require(toolkit.Capability{Name: CapabilityParser, Check: CheckParser})

	ts.Add(
		toolkit.Define("extract_text_from_pdf",
			"Extract all text from a PDF, pages separated by a blank line.",
			func(ctx context.Context, in PDFInput) (TextOutput, error) {
				text, n, err := s.ExtractText(ctx, in.PDFURL)
				if err != nil {
					return TextOutput{}, err
				}
				return TextOutput{PDFURL: in.PDFURL, NumPages: n, Text: text}, nil
			}, CapabilityParser),

		toolkit.Define("extract_tables_from_pdf",
			"Extract tables from a PDF as headers and rows, optionally from a single page.",
			func(ctx context.Context, in TablesInput) (TablesOutput, error) {
				tables, err := s.ExtractTables(ctx, in.PDFURL, in.PageNumber)
				if err != nil {
					return TablesOutput{}, err
				}
				out := TablesOutput{PDFURL: in.PDFURL, Count: len(tables), Tables: tables}
				if len(tables) == 0 {
					out.Message = noTablesMessage
				}
				return out, nil
			}, CapabilityParser),

		toolkit.Define("count_pdf_pages",
			"Count the pages in a PDF.",
			func(ctx context.Context, in PDFInput) (PageCountOutput, error) {
				n, err := s.PageCount(ctx, in.PDFURL)
				if err != nil {
					return PageCountOutput{}, err
				}
				return PageCountOutput{PDFURL: in.PDFURL, NumPages: n}, nil
			}, CapabilityParser),

		toolkit.Define("extract_pdf_metadata",
			"Read PDF metadata: title, author, subject, creator, producer, creation date, and page count.",
			func(ctx context.Context, in PDFInput) (Metadata, error) {
				return s.Metadata(ctx, in.PDFURL)
			}, CapabilityParser),

		toolkit.Define("clean_text",
			"Normalize whitespace and optionally strip special characters.",
			func(_ context.Context, in CleanTextInput) (CleanTextOutput, error) {
				extra := in.RemoveExtraSpaces == nil || *in.RemoveExtraSpaces
				return CleanTextOutput{Text: CleanText(in.Text, extra, in.RemoveSpecialChars)}, nil
			}),

		toolkit.Define("count_words",
			"Count words, characters, sentences, and paragraphs in text.",
			func(_ context.Context, in TextInput) (WordCount, error) {
				return CountWords(in.Text), nil
			}),

		toolkit.Define("extract_emails_from_text",
			"Extract the distinct email addresses in text.",
			func(_ context.Context, in TextInput) (MatchesOutput, error) {
				m := ExtractEmails(in.Text)
				return MatchesOutput{Count: len(m), Matches: m}, nil
			}),

		toolkit.Define("extract_urls_from_text",
			"Extract the distinct http(s) URLs in text.",
			func(_ context.Context, in TextInput) (MatchesOutput, error) {
				m := ExtractURLs(in.Text)
				return MatchesOutput{Count: len(m), Matches: m}, nil
			}),
	)
}
