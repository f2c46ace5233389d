// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"

	"github.com/verte-zerg/maildash/internal/model"
)

// DefaultBins is the number of score intervals used when none is given.
const DefaultBins = 10

// Histogram splits [min, max] of the scores into equal-width bins. Every
// bin is half-open except the last, which also holds the maximum. When all
// scores are equal a single bin [v, v] holds every record. An empty log has
// no bins.
func Histogram(log model.EmailLog, bins int) []model.HistogramBin {
	return HistogramOf(log.Scores(), bins)
}

// HistogramOf bins raw values the way Histogram bins scores.
func HistogramOf(values []float64, bins int) []model.HistogramBin {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		return []model.HistogramBin{{Lo: minVal, Hi: maxVal, Count: len(values)}}
	}

	width := binWidth(minVal, maxVal, bins)
	edge := func(i int) float64 {
		if i >= bins {
			return maxVal
		}
		if e := minVal + float64(i)*width; !math.IsInf(e, 0) {
			return e
		}
		t := float64(i) / float64(bins)
		return minVal*(1-t) + maxVal*t
	}
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i] = model.HistogramBin{Lo: edge(i), Hi: edge(i + 1)}
	}
	for _, v := range values {
		out[binIndex(v, minVal, width, bins, edge)].Count++
	}
	return out
}

// binWidth splits [minVal, maxVal] into bins intervals. A range wider than
// the largest float64 is scaled before subtracting so the width stays finite.
func binWidth(minVal, maxVal float64, bins int) float64 {
	n := float64(bins)
	if w := (maxVal - minVal) / n; !math.IsInf(w, 0) {
		return w
	}
	return maxVal/n - minVal/n
}

func binIndex(v, minVal, width float64, bins int, edge func(int) float64) int {
	offset := (v - minVal) / width
	if math.IsInf(offset, 0) {
		offset = v/width - minVal/width
	}
	idx := int(offset)
	if idx < 0 {
		idx = 0
	}
	if idx >= bins {
		idx = bins - 1
	}
	// Division can land one bin off near an edge; settle against the edges.
	for idx > 0 && v < edge(idx) {
		idx--
	}
	for idx < bins-1 && v >= edge(idx+1) {
		idx++
	}
	return idx
}
