// Package analyze computes descriptive statistics for a currency's rates.
package analyze

import (
	"math"
	"sort"

	"github.com/azielinski/nbpstat/internal/model"
)

// Median returns the middle value of the multiset, averaging the two
// middle elements for an even count.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Modes returns every value sharing the maximum observed frequency, in
// ascending order. When no value repeats there is no dominant value and
// the result is empty.
func Modes(values []float64) []float64 {
	freq := make(map[float64]int, len(values))
	maxFreq := 0
	for _, v := range values {
		freq[v]++
		if freq[v] > maxFreq {
			maxFreq = freq[v]
		}
	}
	if maxFreq <= 1 {
		return nil
	}
	var modes []float64
	for v, c := range freq {
		if c == maxFreq {
			modes = append(modes, v)
		}
	}
	sort.Float64s(modes)
	return modes
}

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (divisor n-1). Callers
// guarantee at least two values.
func StdDev(values []float64) float64 {
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// CountSessions walks consecutive pairs in stored order, comparing each
// value against its immediate predecessor. The analysis path stores values
// as fetched (newest first per sub-range), so this is a reverse-time walk;
// the convention is deliberate and must not be "fixed" by re-sorting.
func CountSessions(values []float64) model.SessionCounts {
	var counts model.SessionCounts
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > values[i-1]:
			counts.Increased++
		case values[i] < values[i-1]:
			counts.Decreased++
		default:
			counts.Unchanged++
		}
	}
	return counts
}
