// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/maildash/internal/model"
)

// DefaultTop is the number of emails shown in the top list.
const DefaultTop = 10

// TopByScore returns the n highest-scored records, highest first. Records
// with equal scores keep their log order. The log is not modified.
func TopByScore(log model.EmailLog, n int) []model.EmailRecord {
	if n <= 0 || len(log.Records) == 0 {
		return nil
	}
	sorted := make([]model.EmailRecord, len(log.Records))
	copy(sorted, log.Records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n]
}
