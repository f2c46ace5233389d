// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/maildash/internal/model"
)

// CountByFolder groups records by exact folder label. Folders without
// records are absent. The result is ordered by count descending, ties by
// first appearance in the log.
func CountByFolder(log model.EmailLog) []model.FolderCount {
	if len(log.Records) == 0 {
		return nil
	}
	index := make(map[string]int)
	counts := make([]model.FolderCount, 0)
	for _, rec := range log.Records {
		i, ok := index[rec.Folder]
		if !ok {
			i = len(counts)
			index[rec.Folder] = i
			counts = append(counts, model.FolderCount{Folder: rec.Folder})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TotalCount sums folder counts.
func TotalCount(counts []model.FolderCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}
