// Package telemetry exports benchmark progress and results as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DjordjeVuckovic/microbench/internal/bench/runner"
)

const namespace = "microbench"

// MetricsObserver is a runner.Observer that keeps one gauge per task and
// statistic. It registers on its own registry so several observers can live
// in one process.
type MetricsObserver struct {
	registry *prometheus.Registry

	RunsStarted    prometheus.Counter
	RunsCompleted  prometheus.Counter
	TasksCompleted prometheus.Counter
	TaskProgress   *prometheus.GaugeVec
	OpsPerSecond   *prometheus.GaugeVec
	MeanSeconds    *prometheus.GaugeVec
	P95Seconds     *prometheus.GaugeVec
	MarginPercent  *prometheus.GaugeVec
	Samples        *prometheus.GaugeVec
}

func NewMetricsObserver() *MetricsObserver {
	m := &MetricsObserver{registry: prometheus.NewRegistry()}

	m.RunsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_started_total",
		Help:      "Total number of benchmark runs started",
	})
	m.RunsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_completed_total",
		Help:      "Total number of benchmark runs that finished every task",
	})
	m.TasksCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Total number of measured tasks",
	})
	m.TaskProgress = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_progress_ratio",
		Help:      "Measured iterations over planned iterations of the current task",
	}, []string{"task"})
	m.OpsPerSecond = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_ops_per_second",
		Help:      "Mean operations per second of the last completed measurement",
	}, []string{"task"})
	m.MeanSeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_mean_seconds",
		Help:      "Mean time per call after outlier filtering",
	}, []string{"task"})
	m.P95Seconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_p95_seconds",
		Help:      "95th percentile time per call",
	}, []string{"task"})
	m.MarginPercent = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_margin_percent",
		Help:      "Relative standard deviation of ops/sec",
	}, []string{"task"})
	m.Samples = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_iterations",
		Help:      "Measured iterations of the last completed measurement",
	}, []string{"task"})

	m.registry.MustRegister(
		m.RunsStarted,
		m.RunsCompleted,
		m.TasksCompleted,
		m.TaskProgress,
		m.OpsPerSecond,
		m.MeanSeconds,
		m.P95Seconds,
		m.MarginPercent,
		m.Samples,
	)

	return m
}

func (m *MetricsObserver) OnEvent(e runner.Event) {
	switch ev := e.(type) {
	case runner.RunStart:
		m.RunsStarted.Inc()
	case runner.Progress:
		if ev.IterationsTotal > 0 {
			m.TaskProgress.WithLabelValues(ev.Task).
				Set(float64(ev.IterationsCompleted) / float64(ev.IterationsTotal))
		}
	case runner.TaskComplete:
		st := ev.Result.Stats
		name := ev.Result.Name
		m.TasksCompleted.Inc()
		m.OpsPerSecond.WithLabelValues(name).Set(st.OpsPerSecond.Average)
		m.MeanSeconds.WithLabelValues(name).Set(st.Time.Average / 1000)
		m.P95Seconds.WithLabelValues(name).Set(st.Time.Percentile95 / 1000)
		m.MarginPercent.WithLabelValues(name).Set(st.OpsPerSecond.Margin)
		m.Samples.WithLabelValues(name).Set(float64(st.Samples))
	case runner.RunEnd:
		m.RunsCompleted.Inc()
	}
}

func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the observer's registry in the Prometheus text format.
func (m *MetricsObserver) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on addr until ctx is cancelled.
func StartMetricsServer(ctx context.Context, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting metrics server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
