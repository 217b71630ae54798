package runner

import (
	"context"

	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
	"github.com/DjordjeVuckovic/microbench/internal/bench/task"
)

// Measure runs one batch of size calls and returns its elapsed milliseconds.
// A size of zero or less is a no-op.
func Measure(ctx context.Context, t *task.Task, size int, now clock.Now) (float64, error) {
	if size <= 0 {
		return 0, nil
	}
	return t.Invoke(ctx, size, now)
}
