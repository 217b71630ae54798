package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/microbench/pkg/config/env"
)

const defaultEnvPath = ".env"

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "bench",
		Short: "Adaptive micro-benchmarking",
		Long: `bench calibrates how many times each task must run to fill a time
budget, measures it in batches and reports outlier filtered statistics.
Runs can be stored and compared against earlier ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			return env.LoadDotEnv(defaultEnvPath)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(newRunCmd(), newServeCmd(), newRunsCmd())
	return root
}
