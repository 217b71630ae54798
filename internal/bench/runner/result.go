package runner

import "github.com/DjordjeVuckovic/microbench/internal/bench/stats"

type Result struct {
	Name  string          `json:"name"`
	Stats stats.TaskStats `json:"stats"`
}

func Names(results []Result) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	return names
}
