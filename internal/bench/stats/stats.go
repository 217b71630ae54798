// Package stats turns raw batch timings into outlier-filtered summary statistics.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
)

// Sample is one timed batch.
type Sample struct {
	ElapsedMs float64 `json:"elapsed_ms"`
	BatchSize uint32  `json:"batch_size"`
}

// TimeStats holds per-call times in milliseconds. Total is the sum of all
// batch times, before normalisation and filtering.
type TimeStats struct {
	Total        float64 `json:"total"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Average      float64 `json:"average"`
	Percentile50 float64 `json:"p50"`
	Percentile90 float64 `json:"p90"`
	Percentile95 float64 `json:"p95"`
}

// OpsStats is the throughput distribution. Margin is the coefficient of
// variation of ops/sec in percent.
type OpsStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Margin  float64 `json:"margin"`
}

type TaskStats struct {
	Samples      uint64    `json:"samples"`
	Batches      int       `json:"batches"`
	Time         TimeStats `json:"time"`
	OpsPerSecond OpsStats  `json:"ops_per_second"`
}

// Compute derives TaskStats from a completed batch sequence. The input is
// not modified.
//
// Every batch contributes one per-call value regardless of its size. Values
// outside [Q1-1.5*IQR, Q3+1.5*IQR] are dropped, with Q1 and Q3 taken by index
// from the sorted values. Small inputs get degenerate bounds; that is accepted.
func Compute(samples []Sample) (TaskStats, error) {
	if len(samples) == 0 {
		return TaskStats{}, apperr.NewMeasurement("", "no batch samples")
	}

	st := TaskStats{Batches: len(samples)}
	perCall := make([]float64, len(samples))
	for i, s := range samples {
		if s.BatchSize == 0 {
			return TaskStats{}, apperr.NewMeasurement("", fmt.Sprintf("batch %d has size zero", i))
		}
		st.Samples += uint64(s.BatchSize)
		st.Time.Total += s.ElapsedMs
		perCall[i] = s.ElapsedMs / float64(s.BatchSize)
	}

	sort.Float64s(perCall)
	data := FilterOutliers(perCall)
	if len(data) == 0 {
		return TaskStats{}, apperr.NewMeasurement("", "outlier filtering removed every sample")
	}
	if data[0] <= 0 {
		return TaskStats{}, apperr.NewMeasurement("", "per-call time is zero, the clock cannot resolve this task")
	}

	st.Time.Min = data[0]
	st.Time.Max = data[len(data)-1]
	st.Time.Average = Mean(data)
	st.Time.Percentile50 = at(data, 1, 2)
	st.Time.Percentile90 = at(data, 9, 10)
	st.Time.Percentile95 = at(data, 19, 20)

	ops := make([]float64, len(data))
	for i, v := range data {
		ops[i] = 1000 / v
	}
	// data is ascending, so ops is descending.
	st.OpsPerSecond.Min = ops[len(ops)-1]
	st.OpsPerSecond.Max = ops[0]
	st.OpsPerSecond.Average = Mean(ops)
	st.OpsPerSecond.Margin = StdDev(ops) / st.OpsPerSecond.Average * 100

	if !st.finite() {
		return TaskStats{}, apperr.NewMeasurement("", "statistics are not finite")
	}
	return st, nil
}

// FilterOutliers applies the IQR rule to an ascending slice and returns the
// kept values in order.
func FilterOutliers(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}
	q1 := at(sorted, 1, 4)
	q3 := at(sorted, 3, 4)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	kept := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if v >= lower && v <= upper {
			kept = append(kept, v)
		}
	}
	return kept
}

// Mean is the arithmetic mean; 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation; 0 for empty input.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// at returns sorted[floor(len*num/den)].
func at(sorted []float64, num, den int) float64 {
	return sorted[len(sorted)*num/den]
}

func (s TaskStats) finite() bool {
	for _, v := range []float64{
		s.Time.Total, s.Time.Min, s.Time.Max, s.Time.Average,
		s.Time.Percentile50, s.Time.Percentile90, s.Time.Percentile95,
		s.OpsPerSecond.Min, s.OpsPerSecond.Max, s.OpsPerSecond.Average, s.OpsPerSecond.Margin,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
