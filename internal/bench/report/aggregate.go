package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// NewRun captures a finished runner execution as a history record.
func NewRun(name string, startedAt time.Time, duration time.Duration, cfg runner.Config, results []runner.Result, env domain.Environment) *domain.Run {
	run := &domain.Run{
		ID:          uuid.New(),
		Name:        name,
		StartedAt:   startedAt.UTC(),
		Duration:    duration,
		Environment: env,
		Options:     OptionsFromConfig(cfg),
		Results:     make([]domain.TaskResult, len(results)),
	}
	for i, r := range results {
		run.Results[i] = domain.TaskResult{Name: r.Name, Stats: r.Stats}
	}
	return run
}

func OptionsFromConfig(cfg runner.Config) domain.Options {
	return domain.Options{
		Iterations:       int(cfg.Iterations),
		TimeMs:           cfg.Time,
		Batching:         cfg.Batching.Enabled,
		BatchSize:        int(cfg.Batching.Size),
		Warmup:           cfg.Warmup.Enabled,
		WarmupIterations: int(cfg.Warmup.Iterations),
		Clock:            string(cfg.Clock),
		PauseMs:          float64(cfg.Pause) / float64(time.Millisecond),
	}
}

// Summarize ranks results by average ops/sec, fastest first. Ties keep
// their original order. The input is not modified.
func Summarize(results []domain.TaskResult) Summary {
	entries := make([]Ranked, len(results))
	for i, r := range results {
		entries[i] = Ranked{TaskResult: r}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Stats.OpsPerSecond.Average > entries[j].Stats.OpsPerSecond.Average
	})

	if len(entries) > 0 {
		fastest := entries[0].Stats.OpsPerSecond.Average
		for i := range entries {
			if ops := entries[i].Stats.OpsPerSecond.Average; ops > 0 {
				entries[i].Ratio = fastest / ops
			}
		}
	}
	return Summary{Entries: entries}
}
