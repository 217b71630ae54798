package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// WriteTask writes the result block of a single task.
func WriteTask(w io.Writer, r domain.TaskResult) {
	writeTask(w, r, func(s string) string { return s })
}

func writeTask(w io.Writer, r domain.TaskResult, name func(string) string) {
	s := r.Stats
	fmt.Fprintf(w, "%s completed %d iterations in %s\n", name("["+r.Name+"]"), s.Samples, FormatTime(s.Time.Total))
	fmt.Fprintf(w, "  ops/sec: %s %s\n", FormatOps(s.OpsPerSecond.Average), FormatMargin(s.OpsPerSecond.Margin))
	fmt.Fprintf(w, "  avg: %s min: %s max: %s\n", FormatTime(s.Time.Average), FormatTime(s.Time.Min), FormatTime(s.Time.Max))
	fmt.Fprintf(w, "  p50: %s p90: %s p95: %s\n", FormatTime(s.Time.Percentile50), FormatTime(s.Time.Percentile90), FormatTime(s.Time.Percentile95))
	fmt.Fprintln(w)
}

// WriteTable writes the ranked summary of a run followed by how much
// faster the fastest task is than each of the others.
func WriteTable(w io.Writer, results []domain.TaskResult) {
	sum := Summarize(results)
	if len(sum.Entries) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"Task", "ops/sec", "margin", "avg", "min", "max", "p50", "p90", "p95", "samples", "time"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, e := range sum.Entries {
		s := e.Stats
		row := []string{
			e.Name,
			FormatOps(s.OpsPerSecond.Average),
			FormatMargin(s.OpsPerSecond.Margin),
			FormatTime(s.Time.Average),
			FormatTime(s.Time.Min),
			FormatTime(s.Time.Max),
			FormatTime(s.Time.Percentile50),
			FormatTime(s.Time.Percentile90),
			FormatTime(s.Time.Percentile95),
			fmt.Sprintf("%d", s.Samples),
			FormatTime(s.Time.Total),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)
	tw.Flush()

	writeFastest(w, sum)
}

func writeFastest(w io.Writer, sum Summary) {
	fastest, ok := sum.Fastest()
	if !ok {
		return
	}
	fmt.Fprintf(w, "Fastest is %s with %s ops/sec (%s)\n",
		fastest.Name, FormatOps(fastest.Stats.OpsPerSecond.Average), FormatMargin(fastest.Stats.OpsPerSecond.Margin))
	for _, e := range sum.Entries[1:] {
		fmt.Fprintf(w, "  %.2fx faster than %s\n", e.Ratio, e.Name)
	}
}

// WriteComparison writes the changes between two runs.
func WriteComparison(w io.Writer, c Comparison) {
	fmt.Fprintf(w, "Comparing %s (base) with %s (head)\n\n", c.BaseID, c.HeadID)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"Task", "base ops/sec", "head ops/sec", "ops change", "base avg", "head avg", "avg change"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, ch := range c.Changes {
		row := []string{
			ch.Name,
			FormatOps(ch.Base.Stats.OpsPerSecond.Average),
			FormatOps(ch.Head.Stats.OpsPerSecond.Average),
			FormatChange(ch.OpsChange),
			FormatTime(ch.Base.Stats.Time.Average),
			FormatTime(ch.Head.Stats.Time.Average),
			FormatChange(ch.MeanChange),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	if len(c.Added) > 0 {
		fmt.Fprintf(w, "\nonly in head: %s\n", strings.Join(c.Added, ", "))
	}
	if len(c.Removed) > 0 {
		fmt.Fprintf(w, "\nonly in base: %s\n", strings.Join(c.Removed, ", "))
	}
}
