package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	_ "github.com/DjordjeVuckovic/microbench/docs"
	"github.com/DjordjeVuckovic/microbench/internal/api/router"
	"github.com/DjordjeVuckovic/microbench/internal/api/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the run history over HTTP",
		Long: `Serves /runs, /runs/:id, /runs/latest and /runs/compare from the store
selected by STORAGE_TYPE, plus /health, /metrics and /swagger/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sCfg, err := server.LoadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			s := server.New(sCfg, store).
				SetupMiddlewares().
				SetupErrorHandler().
				SetupHealthChecks("/health").
				SetupMetrics("/metrics", promhttp.Handler()).
				SetupOpenApi("/swagger/*")

			router.NewRunsRouter(s.Echo, store).Bind()

			go func() {
				<-s.ShutdownSignal()
				slog.Info("Shutdown started, cleaning up resources...")
			}()

			return s.Start()
		},
	}
}
