package runner

import (
	"context"
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
	"github.com/DjordjeVuckovic/microbench/internal/bench/task"
)

// maxCalibrationIterations bounds the doubling search for clocks that never advance.
var maxCalibrationIterations = 1 << 30

// Calibrate estimates how many calls of t fit into targetMs.
//
// It doubles a batch size starting at 1 until a batch takes at least half of
// CalibrationTarget, then scales that batch linearly to targetMs. The result
// can be 0 for tasks slower than targetMs; callers clamp it.
func Calibrate(ctx context.Context, t *task.Task, targetMs float64, now clock.Now) (int, error) {
	iterations := 1
	var elapsed float64
	for {
		e, err := Measure(ctx, t, iterations, now)
		if err != nil {
			return 0, apperr.NewTask(t.Name(), apperr.PhaseCalibrate, err)
		}
		elapsed = e
		if elapsed >= CalibrationTarget/2 {
			break
		}
		if iterations >= maxCalibrationIterations {
			return 0, apperr.NewMeasurement(t.Name(),
				fmt.Sprintf("batch of %d calls still took %.3fms, the clock does not resolve this task", iterations, elapsed))
		}
		iterations *= 2
	}

	if elapsed <= 0 {
		return 0, apperr.NewMeasurement(t.Name(), "calibration elapsed time is not positive")
	}
	target := math.Floor(targetMs / elapsed * float64(iterations))
	if math.IsNaN(target) || math.IsInf(target, 0) || target >= float64(math.MaxInt) {
		return 0, apperr.NewMeasurement(t.Name(), fmt.Sprintf("calibrated iteration count %v is out of range", target))
	}
	return int(target), nil
}
