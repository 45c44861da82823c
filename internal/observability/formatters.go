// Package observability provides formatted terminal output for the assessment CLI.
package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/jonathan/career-assessor/internal/orchestrator"
	"github.com/jonathan/career-assessor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells in a score bar
	barWidth = 20
)

// Printer handles formatted output for the interactive CLI
type Printer struct {
	out    io.Writer
	colors bool
}

// NewPrinter creates a new Printer that writes to the given writer. Colour is
// used only when writing to a terminal that has not opted out via NO_COLOR.
func NewPrinter(out io.Writer) *Printer {
	colors := false
	if f, ok := out.(*os.File); ok && f == os.Stdout {
		colors = !color.NoColor
	}
	return &Printer{out: out, colors: colors}
}

func (p *Printer) paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if p.colors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", p.paint(pad(title, boxWidth-4), color.Bold))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestion shows the question at the cursor with its numbered options.
// The previously chosen option is marked.
func (p *Printer) PrintQuestion(view orchestrator.QuestionView) {
	q := view.Question

	var sb strings.Builder
	for _, line := range wrap(q.Text, boxWidth-4) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
	for i, opt := range q.Options {
		marker := " "
		if view.Answer != nil && *view.Answer == opt.Value {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %d) %s\n", marker, i+1, opt.Text))
	}
	sb.WriteString(fmt.Sprintf("\nAnswered %d of %d", view.Answered, view.Total))

	title := fmt.Sprintf("QUESTION %d/%d · %s", view.Index+1, view.Total, q.Category)
	p.printBox(title, sb.String())
}

// PrintScores renders one bar per category in display order.
func (p *Printer) PrintScores(scores types.Scores) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	for _, cat := range types.AllCategories() {
		score, ok := scores[cat]
		if !ok {
			continue
		}
		filled := max(0, min(barWidth, score*barWidth/100))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		sb.WriteString(fmt.Sprintf("%-18s %s %3d%%\n", cat, bar, score))
	}

	p.printBox("SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs a human-readable summary of the career report.
func (p *Printer) PrintReport(report *types.ReportData) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for _, line := range wrap(report.ProfileSummary, boxWidth-4) {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	if len(report.Strengths) > 0 {
		sb.WriteString("Strengths:\n")
		count := min(len(report.Strengths), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", report.Strengths[i].Title))
		}
		sb.WriteString("\n")
	}

	if len(report.CareerMatches) > 0 {
		sb.WriteString("Career Matches:\n")
		count := min(len(report.CareerMatches), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := report.CareerMatches[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d%%)\n", m.Title, m.MatchPercent))
		}
		if len(report.CareerMatches) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.CareerMatches)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(report.DevelopmentPlan) > 0 {
		sb.WriteString("Development Plan:\n")
		for _, step := range report.DevelopmentPlan {
			sb.WriteString(fmt.Sprintf("  • %s\n", step.Area))
			count := min(len(step.Actions), 3)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("    - %s\n", step.Actions[i]))
			}
		}
		sb.WriteString("\n")
	}

	for _, line := range wrap(report.ConcludingRemarks, boxWidth-4) {
		sb.WriteString(line + "\n")
	}

	p.printBox("CAREER REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalyses prints the per-category analysis of a report.
func (p *Printer) PrintAnalyses(report *types.ReportData) {
	if report == nil || len(report.DetailedAnalyses) == 0 {
		return
	}

	var sb strings.Builder
	for i, a := range report.DetailedAnalyses {
		sb.WriteString(string(a.Category) + "\n")
		for _, line := range wrap(a.Summary, boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
		if i < len(report.DetailedAnalyses)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DETAILED ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTransition prints a one-line stage change.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTransition(ev orchestrator.Transition) {
	attrs := []color.Attribute{color.FgCyan}
	if ev.To == orchestrator.Failed {
		attrs = []color.Attribute{color.FgRed, color.Bold}
	} else if ev.To == orchestrator.ReportReady {
		attrs = []color.Attribute{color.FgGreen}
	}
	line := fmt.Sprintf("→ %s", ev.To)
	if ev.Reason != "" {
		line += fmt.Sprintf(" (%s)", ev.Reason)
	}
	fmt.Fprintln(p.out, p.paint(line, attrs...))
}

// PrintError prints a user-facing failure message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintError(message string) {
	fmt.Fprintln(p.out, p.paint("✗ "+message, color.FgRed))
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// wrap breaks text on spaces so no line exceeds width runes.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
