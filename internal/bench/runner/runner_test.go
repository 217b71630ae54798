package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/task"
)

func fixedConfig(iterations, batch Count) Config {
	cfg := DefaultConfig()
	cfg.Iterations = iterations
	cfg.Batching.Size = batch
	return cfg
}

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []string {
	var out []string
	for _, e := range r.events {
		if _, ok := e.(Progress); ok {
			continue
		}
		out = append(out, fmt.Sprintf("%T", e))
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, DefaultTime, r.Config().Time)
		assert.Equal(t, Auto, r.Config().Iterations)
	})

	t.Run("fixed iterations with time", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Iterations = 1000
		cfg.Time = 500

		r, err := New(cfg)
		var ce *apperr.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Nil(t, r)
	})

	t.Run("invalid values", func(t *testing.T) {
		for name, mutate := range map[string]func(c *Config){
			"negative iterations": func(c *Config) { c.Iterations = -1 },
			"negative time":       func(c *Config) { c.Time = -5 },
			"negative warmup":     func(c *Config) { c.Warmup.Iterations = -2 },
			"negative pause":      func(c *Config) { c.Pause = -time.Second },
			"unknown clock":       func(c *Config) { c.Clock = "sundial" },
		} {
			t.Run(name, func(t *testing.T) {
				cfg := DefaultConfig()
				mutate(&cfg)
				_, err := New(cfg)
				var ce *apperr.ConfigError
				assert.ErrorAs(t, err, &ce)
			})
		}
	})
}

func TestRunner_Add(t *testing.T) {
	r, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, r.Add("a", func() {}))

	var ce *apperr.ConfigError
	err = r.Add("a", func() {})
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "already registered")

	err = r.Add("b", 42)
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, task.ErrUnsupportedBody)

	assert.Equal(t, []string{"a"}, r.Tasks())
}

func TestRun_FixedIterations(t *testing.T) {
	c := &fakeClock{}
	r, err := New(fixedConfig(1000, 100), WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("one-ms", c.costly(1, &calls)))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	st := results[0].Stats
	assert.Equal(t, "one-ms", results[0].Name)
	assert.Equal(t, uint64(1000), st.Samples)
	assert.Equal(t, 10, st.Batches)
	assert.Equal(t, 1000.0, st.Time.Total)
	assert.Equal(t, 1.0, st.Time.Average)
	assert.Equal(t, 1000.0, st.OpsPerSecond.Average)
	assert.Zero(t, st.OpsPerSecond.Margin)
	assert.Equal(t, 1100, calls, "1000 measured plus 100 warmup calls")
}

func TestRun_AutoIterations(t *testing.T) {
	c := &fakeClock{}
	cfg := DefaultConfig()
	cfg.Time = 500
	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("eighth-ms", c.costly(0.125, &calls)))

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	st := results[0].Stats
	assert.Equal(t, uint64(4000), st.Samples)
	assert.Equal(t, 50, st.Batches)
	assert.InDelta(t, 500, st.Time.Total, 250)
	// 4095 calibration + 400 warmup + 4000 measured.
	assert.Equal(t, 8495, calls)
}

func TestRun_SlowTaskRunsOnce(t *testing.T) {
	c := &fakeClock{}
	cfg := DefaultConfig()
	cfg.Time = 100
	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("slow", c.costly(1000, &calls)))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), results[0].Stats.Samples)
	assert.Equal(t, 1000.0, results[0].Stats.Time.Total)
}

func TestRun_DisabledBatching(t *testing.T) {
	c := &fakeClock{}
	cfg := fixedConfig(500, Auto)
	cfg.Batching.Enabled = false
	cfg.Warmup.Enabled = false
	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("single-batch", c.costly(1, &calls)))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, results[0].Stats.Batches)
	assert.Equal(t, uint64(500), results[0].Stats.Samples)
	assert.Equal(t, 500, calls)
}

func TestRun_HooksAreNotTimed(t *testing.T) {
	c := &fakeClock{}
	cfg := fixedConfig(100, 10)
	cfg.Warmup.Enabled = false

	var setups, teardowns []string
	cfg.Setup = func(_ context.Context, tk *task.Task) error {
		setups = append(setups, tk.Name())
		c.advance(10_000)
		return nil
	}
	cfg.Teardown = func(_ context.Context, tk *task.Task) error {
		teardowns = append(teardowns, tk.Name())
		c.advance(10_000)
		return nil
	}

	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)
	var calls int
	require.NoError(t, r.Add("a", c.costly(1, &calls)))
	require.NoError(t, r.Add("b", c.costly(2, &calls)))

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, setups)
	assert.Equal(t, []string{"a", "b"}, teardowns)
	assert.Equal(t, 100.0, results[0].Stats.Time.Total)
	assert.Equal(t, 200.0, results[1].Stats.Time.Total)
}

func TestRun_Events(t *testing.T) {
	c := &fakeClock{}
	cfg := fixedConfig(100, 10)
	cfg.Setup = func(context.Context, *task.Task) error { return nil }
	cfg.Teardown = func(context.Context, *task.Task) error { return nil }

	rec := &recorder{}
	r, err := New(cfg, WithClock(c.now), WithObserver(rec))
	require.NoError(t, err)
	var calls int
	require.NoError(t, r.Add("a", c.costly(1, &calls)))
	require.NoError(t, r.Add("b", c.costly(1, &calls)))

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	perTask := []string{
		"runner.TaskStart",
		"runner.WarmupStart",
		"runner.WarmupEnd",
		"runner.Setup",
		"runner.Teardown",
		"runner.TaskComplete",
	}
	want := []string{"runner.RunStart"}
	want = append(want, perTask...)
	want = append(want, perTask...)
	want = append(want, "runner.RunEnd")
	assert.Equal(t, want, rec.kinds())

	var last Progress
	var progress int
	for _, e := range rec.events {
		if p, ok := e.(Progress); ok {
			progress++
			last = p
		}
	}
	assert.GreaterOrEqual(t, progress, 2, "at least one throttled and one final event per task")
	assert.Equal(t, Progress{
		Task:                "b",
		TasksCompleted:      2,
		TasksTotal:          2,
		IterationsCompleted: 100,
		IterationsTotal:     100,
		ElapsedMs:           100,
	}, last)

	end, ok := rec.events[len(rec.events)-1].(RunEnd)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, Names(end.Results))
}

func failFor(name string, err error) Hook {
	return func(_ context.Context, tk *task.Task) error {
		if tk.Name() == name {
			return err
		}
		return nil
	}
}

func TestRun_FailingTaskAbortsRun(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		cfg   func() Config
		body  func(calls *int) any
		phase apperr.Phase
	}{
		{
			name: "measure",
			cfg: func() Config {
				cfg := fixedConfig(100, 10)
				cfg.Warmup.Enabled = false
				return cfg
			},
			body: func(calls *int) any {
				return func() error {
					*calls++
					if *calls == 5 {
						return boom
					}
					return nil
				}
			},
			phase: apperr.PhaseMeasure,
		},
		{
			name: "warmup",
			cfg:  func() Config { return fixedConfig(100, 10) },
			body: func(*int) any {
				return func() error { return boom }
			},
			phase: apperr.PhaseWarmup,
		},
		{
			name: "panic",
			cfg: func() Config {
				cfg := fixedConfig(100, 10)
				cfg.Warmup.Enabled = false
				return cfg
			},
			body: func(*int) any {
				return func() { panic(boom) }
			},
			phase: apperr.PhaseMeasure,
		},
		{
			name: "setup",
			cfg: func() Config {
				cfg := fixedConfig(100, 10)
				cfg.Setup = failFor("bad", boom)
				return cfg
			},
			body: func(*int) any {
				return func() {}
			},
			phase: apperr.PhaseSetup,
		},
		{
			name: "teardown",
			cfg: func() Config {
				cfg := fixedConfig(100, 10)
				cfg.Teardown = failFor("bad", boom)
				return cfg
			},
			body: func(*int) any {
				return func() {}
			},
			phase: apperr.PhaseTeardown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClock{}
			rec := &recorder{}
			r, err := New(tt.cfg(), WithClock(c.now), WithObserver(rec))
			require.NoError(t, err)

			var okCalls, badCalls, afterCalls int
			require.NoError(t, r.Add("ok", c.costly(1, &okCalls)))
			require.NoError(t, r.Add("bad", tt.body(&badCalls)))
			require.NoError(t, r.Add("after", c.costly(1, &afterCalls)))

			results, err := r.Run(context.Background())
			assert.Nil(t, results)

			var te *apperr.TaskError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "bad", te.Task)
			assert.Equal(t, tt.phase, te.Phase)
			assert.Contains(t, err.Error(), "boom")

			assert.Positive(t, okCalls)
			assert.Zero(t, afterCalls, "tasks after the failure never run")
			for _, e := range rec.events {
				if tc, ok := e.(TaskComplete); ok {
					assert.NotEqual(t, "bad", tc.Result.Name)
				}
				assert.NotEqual(t, "runner.RunEnd", fmt.Sprintf("%T", e))
			}
		})
	}
}

func TestRun_ZeroElapsed(t *testing.T) {
	c := &fakeClock{}
	r, err := New(fixedConfig(100, 10), WithClock(c.now))
	require.NoError(t, err)
	require.NoError(t, r.Add("instant", func() {}))

	_, err = r.Run(context.Background())
	var me *apperr.MeasurementError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "instant", me.Task)
}

func TestRun_Async(t *testing.T) {
	c := &fakeClock{}
	cfg := fixedConfig(50, 10)
	cfg.Warmup.Enabled = false
	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("async", func() <-chan error {
		done := make(chan error, 1)
		calls++
		c.advance(2)
		done <- nil
		return done
	}))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, calls)
	assert.Equal(t, 2.0, results[0].Stats.Time.Average)
}

func TestRun_Cancellation(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		c := &fakeClock{}
		r, err := New(fixedConfig(10, Auto), WithClock(c.now))
		require.NoError(t, err)
		var calls int
		require.NoError(t, r.Add("never", c.costly(1, &calls)))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = r.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})

	t.Run("during pause", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &fakeClock{}
		cfg := fixedConfig(10, Auto)
		cfg.Pause = time.Hour
		r, err := New(cfg, WithClock(c.now), WithObserver(ObserverFunc(func(e Event) {
			if _, ok := e.(TaskComplete); ok {
				cancel()
			}
		})))
		require.NoError(t, err)

		var first, second int
		require.NoError(t, r.Add("first", c.costly(1, &first)))
		require.NoError(t, r.Add("second", c.costly(1, &second)))

		start := time.Now()
		_, err = r.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Minute)
		assert.Positive(t, first)
		assert.Zero(t, second)
	})
}

func TestRun_Pause(t *testing.T) {
	c := &fakeClock{}
	cfg := fixedConfig(10, Auto)
	cfg.Pause = 20 * time.Millisecond
	r, err := New(cfg, WithClock(c.now))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("a", c.costly(1, &calls)))
	require.NoError(t, r.Add("b", c.costly(1, &calls)))
	require.NoError(t, r.Add("c", c.costly(1, &calls)))

	start := time.Now()
	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, Names(results))
}

// spin busy-waits for d on the real clock.
func spin(d time.Duration) func() {
	return func() {
		start := time.Now()
		for time.Since(start) < d {
		}
	}
}

func TestRun_RealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping real clock run in short mode")
	}

	t.Run("fixed iterations", func(t *testing.T) {
		r, err := New(fixedConfig(1000, 100))
		require.NoError(t, err)
		require.NoError(t, r.Add("spin-1ms", spin(time.Millisecond)))

		results, err := r.Run(context.Background())
		require.NoError(t, err)

		st := results[0].Stats
		assert.Equal(t, 10, st.Batches)
		assert.Equal(t, uint64(1000), st.Samples)
		assert.InDelta(t, 1.0, st.Time.Average, 0.3)
		assert.InDelta(t, 1000, st.OpsPerSecond.Average, 300)
	})

	t.Run("auto iterations", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Time = 500
		r, err := New(cfg)
		require.NoError(t, err)
		require.NoError(t, r.Add("spin-100us", spin(100*time.Microsecond)))

		results, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 500, results[0].Stats.Time.Total, 250)
	})
}

func TestRun_DebugTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := &fakeClock{}
	cfg := DefaultConfig()
	cfg.Time = 100
	r, err := New(cfg, WithClock(c.now), WithLogger(logger))
	require.NoError(t, err)

	var calls int
	require.NoError(t, r.Add("sync", c.costly(1, &calls)))
	require.NoError(t, r.Add("async", func() <-chan error {
		done := make(chan error, 1)
		c.advance(1)
		done <- nil
		return done
	}))

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "async task registered")
	assert.Contains(t, out, "msg=calibrated task=sync")
	assert.Contains(t, out, "msg=\"batch plan\" task=sync")
	assert.Contains(t, out, "msg=warmup task=async")
	assert.Contains(t, out, "msg=\"task complete\" task=async")
}
