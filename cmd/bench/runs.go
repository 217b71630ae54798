package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/microbench/internal/bench/report"
	"github.com/DjordjeVuckovic/microbench/pkg/pagination"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
	}
	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd(), newRunsCompareCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var req pagination.OffsetRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			req.Normalize()
			page, err := store.List(cmd.Context(), req.Offset(), req.Size)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(page.Items) == 0 {
				fmt.Fprintln(out, "No runs stored.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTARTED\tDURATION\tTASKS")
			for _, s := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					s.ID, s.Name, s.StartedAt.Local().Format(time.DateTime), s.Duration.Round(time.Millisecond), len(s.Tasks))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			res := pagination.NewOffsetResult(page.Items, page.Total, req)
			fmt.Fprintf(out, "\npage %d, %d of %d runs\n", res.Page, len(res.Items), res.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&req.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&req.Size, "size", pagination.PageDefaultSize, "Runs per page")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print the results of a stored run",
		Long:  "Prints a run by id, or the latest run when no id is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var id uuid.UUID
			if len(args) == 1 {
				if id, err = uuid.Parse(args[0]); err != nil {
					return fmt.Errorf("invalid run id %q: %w", args[0], err)
				}
			}

			r, err := loadRun(ctx, store, id, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (%s, %s/%s, Go %s)\n\n",
				r.Name, r.ID, r.StartedAt.Local().Format(time.DateTime),
				r.Environment.OS, r.Environment.Arch, r.Environment.GoVersion)
			report.WriteTable(out, r.Results)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "With no id, show the latest run of this name")
	return cmd
}

func newRunsCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <base-id> <head-id>",
		Short: "Compare two stored runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, len(args))
			for i, a := range args {
				id, err := uuid.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", a, err)
				}
				ids[i] = id
			}

			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			base, err := store.Get(ctx, ids[0])
			if err != nil {
				return err
			}
			head, err := store.Get(ctx, ids[1])
			if err != nil {
				return err
			}

			report.WriteComparison(cmd.OutOrStdout(), report.Compare(base, head))
			return nil
		},
	}
}
