// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

func TestCleanString(t *testing.T) {
	all := CleanOptions{Lowercase: true, RemovePunctuation: true, RemoveNumbers: true, Trim: true}
	tests := []struct {
		name string
		text string
		opts CleanOptions
		want string
	}{
		{"defaults", "  Hello,   World!  ", CleanOptions{Trim: true}, "Hello, World!"},
		{"all steps", "  Hello, World! 123  ", all, "hello world"},
		{"punctuation keeps underscores", "snake_case-name.", CleanOptions{RemovePunctuation: true}, "snake_casename"},
		{"unicode letters kept", "Café, naïve!", CleanOptions{RemovePunctuation: true}, "Café naïve"},
		{"numbers only", "room 101 and 202", CleanOptions{RemoveNumbers: true}, "room and"},
		{"whitespace collapsed without trim", "\ta \n b\t", CleanOptions{}, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanString(tt.text, tt.opts))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", NormalizeWhitespace("  one\t\ttwo\n\nthree  "))
	assert.Equal(t, "", NormalizeWhitespace(" \n\t "))
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		value      string
		typ        string
		confidence string
		parsed     any
	}{
		{"", TypeEmpty, ConfidenceHigh, nil},
		{"   ", TypeEmpty, ConfidenceHigh, nil},
		{"42", TypeInteger, ConfidenceHigh, int64(42)},
		{" -7 ", TypeInteger, ConfidenceHigh, int64(-7)},
		{"42.5", TypeFloat, ConfidenceHigh, 42.5},
		{"99999999999999999999", TypeInteger, ConfidenceHigh, json.Number("99999999999999999999")},
		{"Yes", TypeBoolean, ConfidenceMedium, "Yes"},
		{"1", TypeBoolean, ConfidenceMedium, "1"},
		{"a@b.com", TypeEmail, ConfidenceHigh, "a@b.com"},
		{"https://example.com/x", TypeURL, ConfidenceHigh, "https://example.com/x"},
		{"2024-01-15", TypeDate, ConfidenceMedium, "2024-01-15"},
		{"12/25/2024", TypeDate, ConfidenceMedium, "12/25/2024"},
		{"15-01-2024 noon", TypeDate, ConfidenceMedium, "15-01-2024 noon"},
		{"1e5", TypeString, ConfidenceHigh, "1e5"},
		{"0x1F", TypeString, ConfidenceHigh, "0x1F"},
		{"inf", TypeString, ConfidenceHigh, "inf"},
		{"hello world", TypeString, ConfidenceHigh, "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			d := DetectType(tt.value)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.confidence, d.Confidence)
			assert.Equal(t, tt.parsed, d.Value)
		})
	}
}

func TestDetectTypeEmptyOmitsValue(t *testing.T) {
	b, err := json.Marshal(DetectType(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"empty","confidence":"high"}`, string(b))
}

func TestFindDuplicates(t *testing.T) {
	d := FindDuplicates([]string{"a", "b", "a", "c", "b", "a"})
	assert.Equal(t, 6, d.TotalItems)
	assert.Equal(t, 3, d.UniqueItems)
	assert.Equal(t, 2, d.DuplicateCount)
	assert.Equal(t, map[string]int{"a": 3, "b": 2}, d.Duplicates)
	assert.True(t, d.HasDuplicates)

	d = FindDuplicates(nil)
	assert.Zero(t, d.TotalItems)
	assert.Empty(t, d.Duplicates)
	assert.NotNil(t, d.Duplicates)
	assert.False(t, d.HasDuplicates)
}

func TestCalculateStatistics(t *testing.T) {
	st, err := CalculateStatistics([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, Statistics{Count: 4, Sum: 10, Mean: 2.5, Median: 2.5, Min: 1, Max: 4, Range: 3}, st)

	st, err = CalculateStatistics([]float64{5, -1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, st.Median)
	assert.Equal(t, 6.0, st.Range)
}

func TestCalculateStatisticsRejectsOverflow(t *testing.T) {
	_, err := CalculateStatistics([]float64{1e308, 1e308})
	require.Error(t, err)
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))

	_, err = CalculateStatistics([]float64{-1.5e308, 1.5e308})
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
}

func TestCalculateStatisticsKeepsInputOrder(t *testing.T) {
	in := []float64{3, 1, 2}
	_, err := CalculateStatistics(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestCalculateStatisticsEmpty(t *testing.T) {
	_, err := CalculateStatistics(nil)
	require.Error(t, err)
	assert.Equal(t, toolkit.KindInvalidInput, toolkit.KindOf(err))
	assert.Contains(t, err.Error(), "Empty list provided")
}
