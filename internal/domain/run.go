package domain

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/bench/stats"
)

// Run is one completed benchmark execution as persisted in the run history.
type Run struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	Environment Environment   `json:"environment"`
	Options     Options       `json:"options"`
	Results     []TaskResult  `json:"results"`
}

type TaskResult struct {
	Name  string          `json:"name"`
	Stats stats.TaskStats `json:"stats"`
}

// Options is the resolved runner configuration a run was measured with.
// Zero Iterations, BatchSize or WarmupIterations mean auto.
type Options struct {
	Iterations       int     `json:"iterations"`
	TimeMs           float64 `json:"timeMs,omitempty"`
	Batching         bool    `json:"batching"`
	BatchSize        int     `json:"batchSize"`
	Warmup           bool    `json:"warmup"`
	WarmupIterations int     `json:"warmupIterations"`
	Clock            string  `json:"clock"`
	PauseMs          float64 `json:"pauseMs,omitempty"`
}

type Environment struct {
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"numCpu"`
	Hostname  string `json:"hostname,omitempty"`
}

func NewEnvironment(hostname string) Environment {
	return Environment{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Hostname:  hostname,
	}
}

// Result returns the result of the named task.
func (r *Run) Result(name string) (TaskResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return TaskResult{}, false
}

// RunSummary is the listing view of a Run.
type RunSummary struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Tasks     []string      `json:"tasks"`
}

func (r *Run) Summary() RunSummary {
	tasks := make([]string, len(r.Results))
	for i, res := range r.Results {
		tasks[i] = res.Name
	}
	return RunSummary{
		ID:        r.ID,
		Name:      r.Name,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Tasks:     tasks,
	}
}
