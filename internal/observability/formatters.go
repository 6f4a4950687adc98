// Package observability provides the logger, the Prometheus collectors and the
// formatted console output used by the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PrintfR/HardCode/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// barWidth is the width of a full score bar
	barWidth = 20
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, boxWidth-4))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestions outputs a numbered list of generated questions.
func (p *Printer) PrintQuestions(questions []string) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&sb, "%2d. %s\n", i+1, q)
	}
	p.printBox(fmt.Sprintf("GENERATED QUESTIONS (%d)", len(questions)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs the five scores as bars followed by the suggestions.
func (p *Printer) PrintFeedback(feedback *types.Feedback) {
	if feedback == nil {
		return
	}

	var sb strings.Builder
	for _, score := range feedback.Scores.Named() {
		filled := int(score.Value / types.ScoreMax * barWidth)
		filled = max(0, min(filled, barWidth))
		fmt.Fprintf(&sb, "%-24s %s%s %5.1f\n",
			score.Label,
			strings.Repeat("█", filled),
			strings.Repeat("░", barWidth-filled),
			score.Value)
	}
	fmt.Fprintf(&sb, "\nOverall: %.0f/100\n", feedback.Scores.Average())

	if len(feedback.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range feedback.Suggestions {
			fmt.Fprintf(&sb, "  • %s\n", s)
		}
	}

	p.printBox("INTERVIEW FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterview outputs an interview header and its questions.
func (p *Printer) PrintInterview(interview *types.Interview) {
	if interview == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Position:   %s\n", interview.Position)
	fmt.Fprintf(&sb, "Stack:      %s\n", strings.Join(interview.TechStack, ", "))
	fmt.Fprintf(&sb, "Type:       %s\n", interview.Type)
	fmt.Fprintf(&sb, "Difficulty: %s\n", interview.Difficulty)
	if len(interview.Questions) > 0 {
		sb.WriteString("\n")
		for i, q := range interview.Questions {
			fmt.Fprintf(&sb, "%2d. %s\n", i+1, q.Text)
		}
	}

	p.printBox(strings.ToUpper(interview.Title), strings.TrimSuffix(sb.String(), "\n"))
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits line on word boundaries into chunks of at most width runes.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				out = append(out, string(current))
				current = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			out = append(out, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}
