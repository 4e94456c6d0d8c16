// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Type names returned by DetectType.
const (
	TypeEmpty   = "empty"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeEmail   = "email"
	TypeURL     = "url"
	TypeDate    = "date"
	TypeString  = "string"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

var (
	plainURLRe = regexp.MustCompile(`^https?://\S+$`)

	// Date shapes, matched as prefixes: YYYY-MM-DD, MM/DD/YYYY, DD-MM-YYYY.
	datePrefixRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),
	}

	booleanWords = map[string]bool{"true": true, "false": true, "yes": true, "no": true, "0": true, "1": true}
)

// Detection is the classification of one value. Value carries the parsed
// number for numeric types and the trimmed input otherwise; it is absent for
// empty input.
type Detection struct {
	Type       string `json:"type"`
	Confidence string `json:"confidence"`
	Value      any    `json:"value,omitempty"`
}

// DetectType classifies value after trimming it. The first matching class
// wins: empty, boolean word, number, email, URL, date, then string.
func DetectType(value string) Detection {
	v := strings.TrimSpace(value)
	if v == "" {
		return Detection{Type: TypeEmpty, Confidence: ConfidenceHigh}
	}
	if booleanWords[strings.ToLower(v)] {
		return Detection{Type: TypeBoolean, Confidence: ConfidenceMedium, Value: v}
	}
	if d, ok := detectNumber(v); ok {
		return d
	}
	if emailRe.MatchString(v) {
		return Detection{Type: TypeEmail, Confidence: ConfidenceHigh, Value: v}
	}
	if plainURLRe.MatchString(v) {
		return Detection{Type: TypeURL, Confidence: ConfidenceHigh, Value: v}
	}
	for _, re := range datePrefixRes {
		if re.MatchString(v) {
			return Detection{Type: TypeDate, Confidence: ConfidenceMedium, Value: v}
		}
	}
	return Detection{Type: TypeString, Confidence: ConfidenceHigh, Value: v}
}

// detectNumber reports a float when v parses as a decimal number containing
// a point, and an integer when v is a base-10 integer literal. Exponent-only,
// hexadecimal, and non-finite forms are not numbers here.
func detectNumber(v string) (Detection, bool) {
	if strings.ContainsAny(v, "xX_") {
		return Detection{}, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Detection{}, false
	}
	if strings.Contains(v, ".") {
		return Detection{Type: TypeFloat, Confidence: ConfidenceHigh, Value: f}, true
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return Detection{Type: TypeInteger, Confidence: ConfidenceHigh, Value: i}, true
	}
	if n, ok := new(big.Int).SetString(v, 10); ok {
		return Detection{Type: TypeInteger, Confidence: ConfidenceHigh, Value: json.Number(n.String())}, true
	}
	return Detection{}, false
}
