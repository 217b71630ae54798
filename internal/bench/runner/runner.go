package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/clock"
	"github.com/DjordjeVuckovic/microbench/internal/bench/stats"
	"github.com/DjordjeVuckovic/microbench/internal/bench/task"
)

type Runner struct {
	config    Config
	now       clock.Now
	observers Observers
	logger    *slog.Logger
	tasks     []*task.Task
	names     map[string]bool
}

type Option func(r *Runner)

// WithObserver adds an observer; may be given several times.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// WithClock replaces the clock selected by Config.Clock.
func WithClock(now clock.Now) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New validates cfg and returns a runner with no tasks. An invalid
// configuration yields a *apperr.ConfigError and no runner.
func New(cfg Config, opts ...Option) (*Runner, error) {
	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config: resolved,
		logger: slog.Default(),
		names:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.now == nil {
		now, err := clock.New(resolved.Clock)
		if err != nil {
			return nil, apperr.NewConfigWrap("invalid clock", err)
		}
		r.now = now
	}

	return r, nil
}

func (r *Runner) Config() Config {
	return r.config
}

// Add registers body under name. See task.New for the accepted body types.
func (r *Runner) Add(name string, body any) error {
	t, err := task.New(name, body)
	if err != nil {
		return apperr.NewConfigWrap("invalid task", err)
	}
	return r.AddTask(t)
}

func (r *Runner) AddTask(t *task.Task) error {
	if r.names[t.Name()] {
		return apperr.NewConfigf("task %q is already registered", t.Name())
	}
	if t.Kind() == task.Async {
		r.logger.Warn("async task registered, awaiting each call adds scheduling overhead to the measurement", "task", t.Name())
	}
	r.names[t.Name()] = true
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *Runner) Tasks() []string {
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = t.Name()
	}
	return names
}

// Run measures every registered task in registration order and returns
// their results in the same order.
//
// The first failing task aborts the run; no results are returned in that
// case. ctx is checked between tasks and during the pause, never inside a
// measured batch.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	r.observers.OnEvent(RunStart{Tasks: r.Tasks()})

	results := make([]Result, 0, len(r.tasks))
	for i, t := range r.tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := r.runTask(ctx, t, i)
		if err != nil {
			r.logger.Debug("task aborted", "task", t.Name(), "error", err)
			return nil, err
		}
		results = append(results, res)

		if i < len(r.tasks)-1 {
			if err := r.pause(ctx); err != nil {
				return nil, err
			}
		}
	}

	r.observers.OnEvent(RunEnd{Results: results})
	return results, nil
}

func (r *Runner) runTask(ctx context.Context, t *task.Task, index int) (Result, error) {
	name := t.Name()
	r.observers.OnEvent(TaskStart{Task: name})

	total, err := r.iterations(ctx, t)
	if err != nil {
		return Result{}, err
	}

	plan := PlanBatches(total, r.config.Batching)
	r.logger.Debug("batch plan", "task", name, "iterations", total, "batch_size", plan.Size, "batches", plan.Count)

	if n := r.config.warmupIterations(total); n > 0 {
		r.observers.OnEvent(WarmupStart{Task: name, Iterations: n})
		r.logger.Debug("warmup", "task", name, "iterations", n)
		if _, err := Measure(ctx, t, n, r.now); err != nil {
			return Result{}, apperr.NewTask(name, apperr.PhaseWarmup, err)
		}
		r.observers.OnEvent(WarmupEnd{Task: name})
	}

	if r.config.Setup != nil {
		r.observers.OnEvent(Setup{Task: name})
		if err := r.config.Setup(ctx, t); err != nil {
			return Result{}, apperr.NewTask(name, apperr.PhaseSetup, err)
		}
	}

	samples, elapsed, err := r.measure(ctx, t, plan, index)
	if err != nil {
		return Result{}, err
	}

	if r.config.Teardown != nil {
		r.observers.OnEvent(Teardown{Task: name})
		if err := r.config.Teardown(ctx, t); err != nil {
			return Result{}, apperr.NewTask(name, apperr.PhaseTeardown, err)
		}
	}

	st, err := stats.Compute(samples)
	if err != nil {
		var me *apperr.MeasurementError
		if errors.As(err, &me) && me.Task == "" {
			me.Task = name
		}
		return Result{}, err
	}

	r.observers.OnEvent(Progress{
		Task:                name,
		TasksCompleted:      index + 1,
		TasksTotal:          len(r.tasks),
		IterationsCompleted: total,
		IterationsTotal:     total,
		ElapsedMs:           elapsed,
	})

	res := Result{Name: name, Stats: st}
	r.logger.Debug("task complete", "task", name, "samples", st.Samples, "ops_per_sec", st.OpsPerSecond.Average)
	r.observers.OnEvent(TaskComplete{Result: res})
	return res, nil
}

// iterations returns the measured call count of t, calibrating it when the
// configuration asks for auto iterations.
func (r *Runner) iterations(ctx context.Context, t *task.Task) (int, error) {
	if r.config.Iterations != Auto {
		return int(r.config.Iterations), nil
	}

	n, err := Calibrate(ctx, t, r.config.Time, r.now)
	if err != nil {
		return 0, err
	}
	n = max(n, 1)
	r.logger.Debug("calibrated", "task", t.Name(), "target_ms", r.config.Time, "iterations", n)
	return n, nil
}

// measure runs every batch of plan and returns one sample per batch along
// with the summed batch time.
func (r *Runner) measure(ctx context.Context, t *task.Task, plan Plan, index int) ([]stats.Sample, float64, error) {
	samples := make([]stats.Sample, plan.Count)
	progress := rate.Sometimes{Interval: ProgressInterval}

	var done int
	var elapsed float64
	for i := range samples {
		size := plan.SizeAt(i)
		ms, err := Measure(ctx, t, size, r.now)
		if err != nil {
			return nil, 0, apperr.NewTask(t.Name(), apperr.PhaseMeasure, err)
		}
		samples[i] = stats.Sample{ElapsedMs: ms, BatchSize: uint32(size)}
		done += size
		elapsed += ms

		progress.Do(func() {
			r.observers.OnEvent(Progress{
				Task:                t.Name(),
				TasksCompleted:      index,
				TasksTotal:          len(r.tasks),
				IterationsCompleted: done,
				IterationsTotal:     plan.Total,
				ElapsedMs:           elapsed,
			})
		})
	}
	return samples, elapsed, nil
}

func (r *Runner) pause(ctx context.Context) error {
	if r.config.Pause <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.config.Pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("pause between tasks: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
