// Package workload builds benchmark task bodies from spec file tasks.
package workload

import (
	"time"

	"github.com/DjordjeVuckovic/microbench/internal/bench/spec"
)

// Workload is a named body ready to be registered with a runner.
type Workload struct {
	Name string
	Kind spec.TaskKind
	Body any
}

func Noop() func() {
	return func() {}
}

// Spin busy-waits for d on every call.
func Spin(d time.Duration) func() {
	return func() {
		start := time.Now()
		for time.Since(start) < d {
		}
	}
}

func Sleep(d time.Duration) func() {
	return func() {
		time.Sleep(d)
	}
}
