// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/maildash/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds headline numbers for a log snapshot.
type Summary struct {
	Emails   int
	Folders  int
	Skipped  int
	MinScore float64
	MaxScore float64
	AvgScore float64
}

// Summarize computes headline numbers for the log.
func Summarize(log model.EmailLog) Summary {
	s := Summary{Emails: len(log.Records), Skipped: log.Skipped}
	if len(log.Records) == 0 {
		return s
	}
	folders := map[string]struct{}{}
	s.MinScore = log.Records[0].Score
	s.MaxScore = log.Records[0].Score
	n := float64(len(log.Records))
	for _, r := range log.Records {
		folders[r.Folder] = struct{}{}
		// Dividing first keeps the mean finite for scores near the float64 limit.
		s.AvgScore += r.Score / n
		if r.Score < s.MinScore {
			s.MinScore = r.Score
		}
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
	}
	s.Folders = len(folders)
	return s
}

// BinCounts returns the counts of each bin as floats for plotting.
func BinCounts(bins []model.HistogramBin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = float64(b.Count)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
