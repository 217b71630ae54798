package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
	"github.com/DjordjeVuckovic/microbench/internal/bench/report"
	"github.com/DjordjeVuckovic/microbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/microbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/microbench/internal/bench/workload"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
	"github.com/DjordjeVuckovic/microbench/internal/telemetry"
)

type runFlags struct {
	specPath    string
	output      string
	quiet       bool
	save        bool
	compare     bool
	metricsAddr string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tasks of a bench spec file",
		Example: `  bench run --spec bench.yaml
  bench run --spec bench.yaml --save --compare --output result.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBench(ctx, cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.specPath, "spec", "s", "bench.yaml", "Path to bench spec YAML")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the run as JSON to this path")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Do not print progress or results")
	cmd.Flags().BoolVar(&f.save, "save", false, "Store the run in the run history")
	cmd.Flags().BoolVar(&f.compare, "compare", false, "Compare with the latest stored run of the same name")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	return cmd
}

func runBench(ctx context.Context, cmd *cobra.Command, f runFlags) error {
	bs, err := spec.LoadFromFile(f.specPath)
	if err != nil {
		return err
	}

	workloads, cleanup, err := workload.CreateFromSpec(ctx, bs)
	if err != nil {
		return fmt.Errorf("prepare workloads: %w", err)
	}
	defer cleanup()

	var opts []runner.Option
	if !f.quiet {
		opts = append(opts, runner.WithObserver(report.NewPrinter(cmd.OutOrStdout())))
	}
	if f.metricsAddr != "" {
		metrics := telemetry.NewMetricsObserver()
		opts = append(opts, runner.WithObserver(metrics))

		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := telemetry.StartMetricsServer(metricsCtx, f.metricsAddr, metrics.Handler()); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	cfg := bs.Options.RunnerConfig()
	r, err := runner.New(cfg, opts...)
	if err != nil {
		return err
	}
	for _, w := range workloads {
		if err := r.Add(w.Name, w.Body); err != nil {
			return err
		}
	}

	slog.Info("Starting benchmark", "name", bs.Name, "tasks", len(workloads))
	startedAt := time.Now()
	results, err := r.Run(ctx)
	if err != nil {
		var te *apperr.TaskError
		if errors.As(err, &te) {
			slog.Error("Task failed", "task", te.Task, "phase", te.Phase, "error", te.Err)
		}
		return err
	}

	hostname, _ := os.Hostname()
	run := report.NewRun(bs.Name, startedAt, time.Since(startedAt), r.Config(), results, domain.NewEnvironment(hostname))

	if f.output != "" {
		if err := report.WriteJSON(run, f.output); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		slog.Info("Results written", "path", f.output)
	}

	if f.save || f.compare {
		return persist(ctx, cmd, run, f)
	}
	return nil
}

// persist compares run with the latest stored run of the same name before
// storing it, so a run is never compared with itself.
func persist(ctx context.Context, cmd *cobra.Command, run *domain.Run, f runFlags) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if f.compare {
		prev, err := store.Latest(ctx, run.Name)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "\nNo previous %q run to compare with.\n", run.Name)
		case err != nil:
			return fmt.Errorf("load previous run: %w", err)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "\nCompared with %s (%s)\n\n", prev.ID, prev.StartedAt.Format(time.RFC3339))
			report.WriteComparison(cmd.OutOrStdout(), report.Compare(prev, run))
		}
	}

	if f.save {
		if err := store.Save(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		slog.Info("Run saved", "id", run.ID)
	}
	return nil
}
