// Package console prints task progress for humans. Structured logs go to
// slog; this is the short banner line per task and the final outcome.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Outcome is how a task finished.
type Outcome int

const (
	Executed Outcome = iota
	Skipped
	Failed
)

// Printer writes task banners to an output stream. Colors are used only
// when the stream is a terminal.
type Printer struct {
	w       io.Writer
	task    lipgloss.Style
	skipped lipgloss.Style
	failed  lipgloss.Style
	success lipgloss.Style
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		task:    r.NewStyle().Bold(true),
		skipped: r.NewStyle().Foreground(lipgloss.Color("245")),
		failed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
	}
}

// Task prints the banner for one task.
func (p *Printer) Task(name string, outcome Outcome) {
	line := p.task.Render("> Task :" + name)
	switch outcome {
	case Skipped:
		line += " " + p.skipped.Render("SKIPPED")
	case Failed:
		line += " " + p.failed.Render("FAILED")
	}
	fmt.Fprintln(p.w, line)
}

// Result prints the overall outcome of an invocation.
func (p *Printer) Result(err error, elapsed time.Duration) {
	took := elapsed.Round(time.Millisecond)
	if err != nil {
		fmt.Fprintf(p.w, "\n%s in %s\n", p.failed.Render("FAILED"), took)
		return
	}
	fmt.Fprintf(p.w, "\n%s in %s\n", p.success.Render("SUCCESSFUL"), took)
}
