package distribution

import "math"

// Bin is one half-open [Low, High) bucket of a change histogram.
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram is a frequency histogram over a change series.
type Histogram struct {
	Bins []Bin
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	maxCount := 0
	for _, b := range h.Bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	return maxCount
}

// BinCount is a step function of the window's calendar span: short windows
// get coarse histograms, long ones finer-grained.
func BinCount(spanDays int) int {
	switch {
	case spanDays < 45:
		return 7
	case spanDays < 100:
		return 12
	default:
		return 18
	}
}

// Build bins changes into binCount equal-width buckets over [min, max].
// A degenerate range (all changes equal) falls back to a width of 1.0
// instead of dividing by zero; the exact maximum is always forced into the
// last bin to sidestep floating-point rounding at the upper edge.
func Build(changes []float64, binCount int) Histogram {
	if len(changes) == 0 || binCount <= 0 {
		return Histogram{}
	}

	minVal, maxVal := changes[0], changes[0]
	for _, v := range changes[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	binWidth := 1.0
	if maxVal != minVal {
		binWidth = (maxVal - minVal) / float64(binCount)
	}

	bins := make([]Bin, binCount)
	for i := range bins {
		bins[i].Low = minVal + float64(i)*binWidth
		bins[i].High = minVal + float64(i+1)*binWidth
	}

	for _, v := range changes {
		var idx int
		if v == maxVal {
			idx = binCount - 1
		} else {
			idx = int(math.Floor((v - minVal) / binWidth))
			if idx < 0 {
				idx = 0
			}
			if idx > binCount-1 {
				idx = binCount - 1
			}
		}
		bins[idx].Count++
	}

	return Histogram{Bins: bins}
}
