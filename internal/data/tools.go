// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"context"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

type EmailInput struct {
	Email string `json:"email" jsonschema:"address to check"`
}

type URLInput struct {
	URL string `json:"url" jsonschema:"URL to check"`
}

type PhoneInput struct {
	Phone       string `json:"phone" jsonschema:"phone number to check"`
	CountryCode string `json:"country_code,omitempty" jsonschema:"country code (default US)"`
}

type CSVInput struct {
	CSVData   string `json:"csv_data" jsonschema:"CSV document"`
	HasHeader *bool  `json:"has_header,omitempty" jsonschema:"first row holds column names (default true)"`
}

type JSONInput struct {
	JSONData string `json:"json_data" jsonschema:"JSON array of objects"`
}

type CleanStringInput struct {
	Text              string `json:"text" jsonschema:"string to clean"`
	Lowercase         bool   `json:"lowercase,omitempty" jsonschema:"convert to lowercase"`
	RemovePunctuation bool   `json:"remove_punctuation,omitempty" jsonschema:"strip punctuation"`
	RemoveNumbers     bool   `json:"remove_numbers,omitempty" jsonschema:"strip digits"`
	Trim              *bool  `json:"trim,omitempty" jsonschema:"trim surrounding whitespace first (default true)"`
}

type ValueInput struct {
	Value string `json:"value" jsonschema:"value to classify"`
}

type ItemsInput struct {
	Items []string `json:"items" jsonschema:"values to check for repeats"`
}

type TextInput struct {
	Text string `json:"text" jsonschema:"text to normalize"`
}

type NumbersInput struct {
	Numbers []float64 `json:"numbers" jsonschema:"values to summarize"`
}

type TextOutput struct {
	Text string `json:"text"`
}

// Register adds the data tools to ts. None of them need a capability.
func Register(ts *toolkit.Service) {
	ts.Add(
		toolkit.Define("validate_email",
			"Check whether a string is a well-formed email address.",
			func(_ context.Context, in EmailInput) (EmailResult, error) {
				return ValidateEmail(in.Email), nil
			}),

		toolkit.Define("validate_url",
			"Check whether a string is a well-formed http(s) URL and report its protocol and domain.",
			func(_ context.Context, in URLInput) (URLResult, error) {
				return ValidateURL(in.URL), nil
			}),

		toolkit.Define("validate_phone",
			"Check a phone number after stripping separators; US needs ten digits.",
			func(_ context.Context, in PhoneInput) (PhoneResult, error) {
				return ValidatePhone(in.Phone, in.CountryCode), nil
			}),

		toolkit.Define("csv_to_json",
			"Convert CSV to a JSON array of objects.",
			func(_ context.Context, in CSVInput) (CSVResult, error) {
				header := in.HasHeader == nil || *in.HasHeader
				return CSVToJSON(in.CSVData, header)
			}),

		toolkit.Define("json_to_csv",
			"Convert a JSON array of objects to CSV with sorted columns.",
			func(_ context.Context, in JSONInput) (CSVText, error) {
				return JSONToCSV(in.JSONData)
			}),

		toolkit.Define("clean_string",
			"Clean a string: trim, lowercase, and strip punctuation or digits as requested.",
			func(_ context.Context, in CleanStringInput) (TextOutput, error) {
				opts := CleanOptions{
					Lowercase:         in.Lowercase,
					RemovePunctuation: in.RemovePunctuation,
					RemoveNumbers:     in.RemoveNumbers,
					Trim:              in.Trim == nil || *in.Trim,
				}
				return TextOutput{Text: CleanString(in.Text, opts)}, nil
			}),

		toolkit.Define("detect_data_type",
			"Classify a value as empty, boolean, integer, float, email, url, date, or string.",
			func(_ context.Context, in ValueInput) (Detection, error) {
				return DetectType(in.Value), nil
			}),

		toolkit.Define("find_duplicates",
			"Count exact repeats in a list of values.",
			func(_ context.Context, in ItemsInput) (Duplicates, error) {
				return FindDuplicates(in.Items), nil
			}),

		toolkit.Define("normalize_whitespace",
			"Collapse whitespace runs to single spaces and trim the ends.",
			func(_ context.Context, in TextInput) (TextOutput, error) {
				return TextOutput{Text: NormalizeWhitespace(in.Text)}, nil
			}),

		toolkit.Define("calculate_statistics",
			"Summarize numbers: count, sum, mean, median, min, max, and range.",
			func(_ context.Context, in NumbersInput) (Statistics, error) {
				return CalculateStatistics(in.Numbers)
			}),
	)
}
