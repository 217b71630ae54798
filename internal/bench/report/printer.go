package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/DjordjeVuckovic/microbench/internal/bench/runner"
	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

var (
	colorTeal  = lipgloss.Color("#20B9B4")
	colorMuted = lipgloss.Color("#6C7A80")
)

type printerStyles struct {
	title lipgloss.Style
	name  lipgloss.Style
	muted lipgloss.Style
}

// Printer writes human readable progress and results as a run advances.
// Live progress lines are only drawn on terminals; other writers get
// plain text without escape sequences.
type Printer struct {
	w      io.Writer
	out    *termenv.Output
	styles printerStyles
	live   bool
}

func NewPrinter(w io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(w)
	live := isTerminal(w)
	if !live {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:    w,
		out:  termenv.NewOutput(w),
		live: live,
		styles: printerStyles{
			title: renderer.NewStyle().Bold(true).Foreground(colorTeal),
			name:  renderer.NewStyle().Bold(true),
			muted: renderer.NewStyle().Foreground(colorMuted),
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) OnEvent(e runner.Event) {
	switch ev := e.(type) {
	case runner.RunStart:
		fmt.Fprintln(p.w, p.styles.title.Render(fmt.Sprintf("Running %d tasks", len(ev.Tasks))))
		fmt.Fprintln(p.w)
	case runner.TaskStart:
		p.status(fmt.Sprintf("[%s] calibrating", ev.Task))
	case runner.WarmupStart:
		p.status(fmt.Sprintf("[%s] warming up with %d iterations", ev.Task, ev.Iterations))
	case runner.Progress:
		if ev.IterationsTotal > 0 {
			pct := ev.IterationsCompleted * 100 / ev.IterationsTotal
			p.status(fmt.Sprintf("[%s] %3d%% %d/%d iterations", ev.Task, pct, ev.IterationsCompleted, ev.IterationsTotal))
		}
	case runner.TaskComplete:
		p.clearStatus()
		writeTask(p.w, domain.TaskResult{Name: ev.Result.Name, Stats: ev.Result.Stats}, func(s string) string {
			return p.styles.name.Render(s)
		})
	case runner.RunEnd:
		p.clearStatus()
		p.summary(ev.Results)
	}
}

func (p *Printer) summary(results []runner.Result) {
	tasks := make([]domain.TaskResult, len(results))
	for i, r := range results {
		tasks[i] = domain.TaskResult{Name: r.Name, Stats: r.Stats}
	}
	if len(tasks) < 2 {
		return
	}

	fmt.Fprintln(p.w, p.styles.title.Render("Summary"))
	fmt.Fprintln(p.w)
	WriteTable(p.w, tasks)
}

func (p *Printer) status(line string) {
	if !p.live {
		return
	}
	p.out.ClearLine()
	fmt.Fprint(p.w, "\r"+p.styles.muted.Render(line))
}

func (p *Printer) clearStatus() {
	if !p.live {
		return
	}
	p.out.ClearLine()
	fmt.Fprint(p.w, "\r")
}
