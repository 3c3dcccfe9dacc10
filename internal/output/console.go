// Package output renders batch preflight summaries.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/types"
)

// Formatter renders a batch summary.
type Formatter interface {
	Format(summary *batch.Summary) error
}

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
}

// NewConsoleFormatter creates a new ConsoleFormatter. A nil writer means
// stdout.
func NewConsoleFormatter(quiet, verbose bool, out io.Writer) *ConsoleFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
		out:      out,
	}
}

// Format formats the batch summary for console output
func (f *ConsoleFormatter) Format(summary *batch.Summary) error {
	if f.quiet {
		return nil
	}

	f.printFileResults(summary)
	f.printSummary(summary)
	f.printConclusion(summary)
	return nil
}

func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// printFileResults prints one block per manifest. Clean files are only
// listed in verbose mode.
func (f *ConsoleFormatter) printFileResults(summary *batch.Summary) {
	dim := f.style("8")
	for _, result := range summary.Results {
		if result.Failed() {
			fmt.Fprintf(f.out, "%s %s\n", f.style("9").Render("✗"), result.RelPath)
			fmt.Fprintf(f.out, "    ✘ %s\n", result.Error)
			continue
		}

		if len(result.Assessment.Issues) == 0 && !f.verbose {
			continue
		}

		status, color := "✓", "10"
		switch {
		case result.Blocking() > 0:
			status, color = "✗", "9"
		case result.Advisory() > 0:
			status, color = "⚠", "3"
		}

		a := result.Assessment
		fmt.Fprintf(f.out, "%s %s %s\n",
			f.style(color).Render(status),
			result.RelPath,
			dim.Render(fmt.Sprintf("[%s %d/100 %s]", result.ProductType, a.Score, a.Grade.Grade)))

		for _, issue := range a.Issues {
			if issue.Severity == types.SeverityInformational && !f.verbose {
				continue
			}
			f.printIssue(issue)
		}
	}
}

func (f *ConsoleFormatter) printIssue(issue types.Issue) {
	var prefix string
	var style lipgloss.Style
	switch issue.Severity {
	case types.SeverityBlocking:
		prefix, style = "    ✘ ", f.style("9")
	case types.SeverityAdvisory:
		prefix, style = "    ⚠ ", f.style("3")
	default:
		prefix, style = "    ℹ ", f.style("7")
	}

	fmt.Fprintf(f.out, "%s%s: %s\n", prefix, style.Render(issue.ID), issue.Message)
	if f.verbose && issue.Suggestion != "" {
		fmt.Fprintf(f.out, "      → %s\n", issue.Suggestion)
	}
}

// printSummary prints the summary statistics
func (f *ConsoleFormatter) printSummary(summary *batch.Summary) {
	if summary.TotalFiles == 0 {
		fmt.Fprintln(f.out, "No artwork manifests found")
		return
	}

	fmt.Fprintf(f.out, "\n%d/%d ready, %d blocking, %d advisory, average score %.0f (%v)\n",
		summary.ReadyFiles, summary.TotalFiles,
		summary.TotalBlocking, summary.TotalAdvisory,
		summary.AverageScore,
		summary.Duration.Round(time.Millisecond))

	if summary.ErroredFiles > 0 {
		fmt.Fprintf(f.out, "%d manifests could not be read\n", summary.ErroredFiles)
	}
	if summary.BaselineIgnored > 0 {
		fmt.Fprintf(f.out, "%d baseline issues ignored\n", summary.BaselineIgnored)
	}
}

// printConclusion prints the conclusion message
func (f *ConsoleFormatter) printConclusion(summary *batch.Summary) {
	if summary.TotalFiles == 0 {
		return
	}
	if summary.ReadyFiles == summary.TotalFiles && summary.TotalAdvisory == 0 {
		style := f.style("10")
		if f.colorize {
			style = style.Bold(true)
		}
		fmt.Fprintf(f.out, "\n%s\n", style.Render("✓ All artwork is print-ready"))
	}
}
