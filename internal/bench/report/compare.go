package report

import (
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/pkg/utils"
)

// Compare reports per-task changes for tasks present in both runs, in the
// head run's order.
func Compare(base, head *domain.Run) Comparison {
	c := Comparison{BaseID: base.ID, HeadID: head.ID}

	baseByName := make(map[string]domain.TaskResult, len(base.Results))
	for _, r := range base.Results {
		baseByName[r.Name] = r
	}

	seen := make(map[string]bool, len(head.Results))
	for _, h := range head.Results {
		seen[h.Name] = true
		b, ok := baseByName[h.Name]
		if !ok {
			c.Added = append(c.Added, h.Name)
			continue
		}
		c.Changes = append(c.Changes, Change{
			Name:       h.Name,
			Base:       b,
			Head:       h,
			OpsChange:  percentChange(b.Stats.OpsPerSecond.Average, h.Stats.OpsPerSecond.Average),
			MeanChange: percentChange(b.Stats.Time.Average, h.Stats.Time.Average),
		})
	}

	for _, b := range base.Results {
		if !seen[b.Name] {
			c.Removed = append(c.Removed, b.Name)
		}
	}
	return c
}

func percentChange(prev, curr float64) float64 {
	if prev <= 0 {
		return 0
	}
	return utils.RoundDecimal((curr-prev)/prev*100, 2)
}
