package runner

import (
	"context"
	"math"
	"time"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
	"github.com/DjordjeVuckovic/microbench/internal/bench/task"
)

// Count is either a fixed positive count or Auto.
type Count int

const Auto Count = 0

const (
	// DefaultTime is the target duration of a task when iterations are auto.
	DefaultTime = 2000.0
	// CalibrationTarget is the batch duration calibration doubles towards.
	// Calibration stops at the first batch reaching half of it.
	CalibrationTarget = 500.0
	// ProgressInterval is the minimum gap between two progress events.
	ProgressInterval = time.Second / 30
)

type BatchingConfig struct {
	Enabled bool
	// Size is the calls per batch; Auto picks a size from the total.
	// Fixed sizes below 1 are treated as 1.
	Size Count
}

type WarmupConfig struct {
	Enabled bool
	// Iterations is the number of unmeasured calls; Auto means a tenth of
	// the measured iterations.
	Iterations Count
}

// Hook runs once per task outside of any timed region.
type Hook func(ctx context.Context, t *task.Task) error

type Config struct {
	// Iterations is the measured call count per task, or Auto to calibrate.
	Iterations Count
	// Time is the target duration in milliseconds when Iterations is Auto.
	// Zero means DefaultTime. Setting it together with fixed Iterations is
	// an error.
	Time     float64
	Batching BatchingConfig
	Warmup   WarmupConfig
	Clock    clock.Method
	Setup    Hook
	Teardown Hook
	// Pause is slept between two tasks.
	Pause time.Duration
}

func DefaultConfig() Config {
	return Config{
		Iterations: Auto,
		Batching:   BatchingConfig{Enabled: true, Size: Auto},
		Warmup:     WarmupConfig{Enabled: true, Iterations: Auto},
		Clock:      clock.Auto,
	}
}

// resolve validates c and fills in defaults.
func (c Config) resolve() (Config, error) {
	if c.Iterations < 0 {
		return c, apperr.NewConfigf("iterations must be positive or auto, got %d", c.Iterations)
	}
	if math.IsNaN(c.Time) || math.IsInf(c.Time, 0) || c.Time < 0 {
		return c, apperr.NewConfigf("time must be a positive number of milliseconds, got %v", c.Time)
	}
	if c.Iterations != Auto && c.Time != 0 {
		return c, apperr.NewConfig("time is only supported when iterations is auto, the iteration count is computed from the target time")
	}
	if c.Iterations == Auto && c.Time == 0 {
		c.Time = DefaultTime
	}
	if c.Warmup.Iterations < 0 {
		return c, apperr.NewConfigf("warmup iterations must be positive or auto, got %d", c.Warmup.Iterations)
	}
	if c.Pause < 0 {
		return c, apperr.NewConfigf("pause must not be negative, got %s", c.Pause)
	}
	m, err := clock.ParseMethod(string(c.Clock))
	if err != nil {
		return c, apperr.NewConfigWrap("invalid clock", err)
	}
	c.Clock = m
	return c, nil
}

func (c Config) warmupIterations(total int) int {
	if !c.Warmup.Enabled {
		return 0
	}
	if c.Warmup.Iterations == Auto {
		return total / 10
	}
	return int(c.Warmup.Iterations)
}
