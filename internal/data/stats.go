// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package data

import (
	"math"
	"slices"

	"github.com/pdiddy/toolservers/internal/toolkit"
)

// Duplicates summarizes repeated values in a list.
type Duplicates struct {
	TotalItems     int            `json:"total_items"`
	UniqueItems    int            `json:"unique_items"`
	DuplicateCount int            `json:"duplicate_count"`
	Duplicates     map[string]int `json:"duplicates"`
	HasDuplicates  bool           `json:"has_duplicates"`
}

// FindDuplicates counts exact repeats. Duplicates maps each value seen more
// than once to its count.
func FindDuplicates(items []string) Duplicates {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it]++
	}
	dups := make(map[string]int)
	for it, n := range counts {
		if n > 1 {
			dups[it] = n
		}
	}
	return Duplicates{
		TotalItems:     len(items),
		UniqueItems:    len(counts),
		DuplicateCount: len(dups),
		Duplicates:     dups,
		HasDuplicates:  len(dups) > 0,
	}
}

// Statistics is a numeric summary.
type Statistics struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// CalculateStatistics summarizes numbers. The median of an even-length list
// is the mean of the two middle values of the sorted copy.
func CalculateStatistics(numbers []float64) (Statistics, error) {
	if len(numbers) == 0 {
		return Statistics{}, toolkit.InvalidInput("Empty list provided")
	}

	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	var sum float64
	for _, x := range numbers {
		sum += x
	}
	n := len(sorted)
	st := Statistics{
		Count: n,
		Sum:   sum,
		Mean:  sum / float64(n),
		Min:   sorted[0],
		Max:   sorted[n-1],
		Range: sorted[n-1] - sorted[0],
	}
	if n%2 == 0 {
		st.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		st.Median = sorted[n/2]
	}
	for _, v := range []float64{st.Sum, st.Mean, st.Median, st.Min, st.Max, st.Range} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Statistics{}, toolkit.InvalidInput("Statistics are not finite for the provided numbers")
		}
	}
	return st, nil
}
