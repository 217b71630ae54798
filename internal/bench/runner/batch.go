package runner

import "math"

// maxBatchSize keeps a batch size representable in stats.Sample.
const maxBatchSize = math.MaxUint32

// Plan splits a task's iterations into equally sized batches; only the last
// batch may be shorter.
type Plan struct {
	Total int
	Size  int
	Count int
}

// PlanBatches chooses the batch size for total iterations.
//
// Timer overhead is paid once per batch, so large totals get coarse batches
// while small totals keep enough batches for the statistics.
func PlanBatches(total int, cfg BatchingConfig) Plan {
	if total <= 0 {
		return Plan{}
	}

	size := total
	if cfg.Enabled {
		if cfg.Size == Auto {
			size = total / autoDivisor(total)
		} else {
			size = int(cfg.Size)
		}
	}
	size = min(max(size, 1), maxBatchSize)

	return Plan{
		Total: total,
		Size:  size,
		Count: (total + size - 1) / size,
	}
}

func autoDivisor(total int) int {
	switch {
	case total < 1_000:
		return 25
	case total < 10_000:
		return 50
	case total < 100_000:
		return 100
	case total < 1_000_000:
		return 200
	default:
		return 500
	}
}

// SizeAt returns the size of batch i, or 0 past the end of the plan.
func (p Plan) SizeAt(i int) int {
	remaining := p.Total - i*p.Size
	if remaining <= 0 {
		return 0
	}
	return min(p.Size, remaining)
}

// Sizes lists every batch size in order.
func (p Plan) Sizes() []int {
	sizes := make([]int, p.Count)
	for i := range sizes {
		sizes[i] = p.SizeAt(i)
	}
	return sizes
}
