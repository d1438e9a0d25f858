package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/domain"
)

// RunPrinter renders a comparison run for the terminal.
type RunPrinter struct {
	w io.Writer
}

// NewRunPrinter creates a RunPrinter writing to w.
func NewRunPrinter(w io.Writer) *RunPrinter {
	return &RunPrinter{w: w}
}

// Header lists the models about to be called.
func (p *RunPrinter) Header(prompt string, models []domain.ModelID) {
	infoBadge.Fprint(p.w, "[ARENA]")
	fmt.Fprintf(p.w, " %d models | ", len(models))
	mutedText.Fprintln(p.w, truncateLine(prompt, 60))
	for _, m := range models {
		mutedText.Fprint(p.w, "  • ")
		fmt.Fprintln(p.w, domain.DisplayName(m))
	}
	fmt.Fprintln(p.w)
}

// Event prints one stream event. Pending and in-flight transitions only
// print a short line; terminal ones print the answer.
func (p *RunPrinter) Event(ev arena.Event) {
	switch ev.Type {
	case arena.EventStatus:
		p.status(ev)
	case arena.EventAggregation:
		p.Verdict(ev.Aggregation)
	case arena.EventDone:
		if ev.State != nil {
			p.Summary(*ev.State)
		}
	}
}

func (p *RunPrinter) status(ev arena.Event) {
	name := domain.DisplayName(ev.ModelID)

	switch ev.Status {
	case domain.StatusPending:
		return
	case domain.StatusInFlight:
		mutedText.Fprintf(p.w, "… %s\n", name)
	case domain.StatusSucceeded:
		successBadge.Fprint(p.w, " DONE ")
		fmt.Fprint(p.w, " ")
		accentText.Fprint(p.w, name)
		p.usage(ev.Result)
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, indent(ev.Result.Text))
		fmt.Fprintln(p.w)
	case domain.StatusFailed:
		errorBadge.Fprint(p.w, " FAIL ")
		fmt.Fprint(p.w, " ")
		accentText.Fprint(p.w, name)
		fmt.Fprint(p.w, " ")
		if ev.Result != nil {
			errorText.Fprintln(p.w, ev.Result.Error)
		} else {
			fmt.Fprintln(p.w)
		}
		fmt.Fprintln(p.w)
	}
}

func (p *RunPrinter) usage(r *domain.CompletionResult) {
	if r == nil {
		return
	}
	mutedText.Fprintf(p.w, "  %.1fs", float64(r.LatencyMs)/1000)
	if r.Usage != nil {
		mutedText.Fprintf(p.w, " | %d tokens", r.Usage.TotalTokens)
	}
}

// Verdict prints the evaluator output.
func (p *RunPrinter) Verdict(agg *domain.AggregationResult) {
	if agg == nil {
		return
	}

	title := "JUDGE"
	if agg.Mode == domain.ModeSynthesize {
		title = "SYNTHESIS"
	}

	if agg.Failed {
		errorBadge.Fprintf(p.w, " %s FAILED ", title)
		fmt.Fprint(p.w, " ")
		errorText.Fprintln(p.w, agg.Verdict)
		fmt.Fprintln(p.w)
		return
	}

	warningBadge.Fprintf(p.w, "⚖  %s", title)
	mutedText.Fprintf(p.w, " (%s)\n", domain.DisplayName(agg.EvaluatorModelID))
	fmt.Fprintln(p.w, indent(agg.Verdict))
	fmt.Fprintln(p.w)
}

// Summary prints the final tally.
func (p *RunPrinter) Summary(state domain.RunState) {
	ok := len(state.Succeeded())
	total := len(state.Order)

	c := successText
	if ok < total {
		c = warningText
	}
	if ok == 0 {
		c = errorText
	}
	c.Fprintf(p.w, "%d/%d succeeded", ok, total)
	mutedText.Fprintf(p.w, " in %.1fs total\n", float64(state.ElapsedMs)/1000)
}

// PrintCatalog lists the catalog with preset tags.
func PrintCatalog(w io.Writer, models []domain.Model, evaluators []domain.Evaluator) {
	free := color.New(color.FgHiGreen, color.Bold)

	for _, m := range models {
		fmt.Fprintf(w, "%-48s ", m.ID)
		accentText.Fprintf(w, "%-22s ", m.Name)
		if m.Free {
			free.Fprintf(w, "%-12s", m.Price)
		} else {
			mutedText.Fprintf(w, "%-12s", m.Price)
		}
		tags := make([]string, len(m.Presets))
		for i, p := range m.Presets {
			tags[i] = string(p)
		}
		mutedText.Fprintln(w, strings.Join(tags, ","))
	}

	fmt.Fprintln(w)
	infoBadge.Fprintln(w, "Evaluators:")
	for _, e := range evaluators {
		fmt.Fprintf(w, "  %-48s ", e.ID)
		mutedText.Fprintln(w, e.Label)
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
