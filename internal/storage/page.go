package storage

import (
	"sort"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// SortNewestFirst orders runs by start time, newest first. Runs started at
// the same instant are ordered by ID so listings are stable.
func SortNewestFirst(runs []domain.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID.String() < runs[j].ID.String()
	})
}

// PageOf summarises the window [offset, offset+size) of runs.
func PageOf(runs []domain.Run, offset, size int) *Page {
	page := &Page{Items: []domain.RunSummary{}, Total: int64(len(runs))}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(runs) || size <= 0 {
		return page
	}
	end := min(offset+size, len(runs))
	for i := offset; i < end; i++ {
		page.Items = append(page.Items, runs[i].Summary())
	}
	return page
}
