package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	verbose     bool
	outputFile  string
	projectRoot string
	out         io.Writer
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(verbose bool, outputFile, projectRoot string, out io.Writer) *MarkdownFormatter {
	if out == nil {
		out = os.Stdout
	}
	if projectRoot == "" {
		projectRoot = "./"
	}
	return &MarkdownFormatter{
		verbose:     verbose,
		outputFile:  outputFile,
		projectRoot: projectRoot,
		out:         out,
	}
}

// Format formats the batch summary as Markdown
func (f *MarkdownFormatter) Format(summary *batch.Summary) error {
	var b strings.Builder

	b.WriteString("# Preflight Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Project:** %s\n\n", f.projectRoot)
	fmt.Fprintf(&b, "**Strategy:** %s\n\n", summary.Strategy)
	fmt.Fprintf(&b, "**Duration:** %v\n\n", summary.Duration.Round(time.Millisecond))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Manifests Checked | %d |\n", summary.TotalFiles)
	fmt.Fprintf(&b, "| Print-Ready | %d |\n", summary.ReadyFiles)
	fmt.Fprintf(&b, "| Not Ready | %d |\n", summary.NotReadyFiles)
	fmt.Fprintf(&b, "| Unreadable | %d |\n", summary.ErroredFiles)
	fmt.Fprintf(&b, "| Blocking Issues | %d |\n", summary.TotalBlocking)
	fmt.Fprintf(&b, "| Advisory Issues | %d |\n", summary.TotalAdvisory)
	fmt.Fprintf(&b, "| Average Score | %.1f |\n", summary.AverageScore)
	if summary.BaselineIgnored > 0 {
		fmt.Fprintf(&b, "| Baseline Ignored | %d |\n", summary.BaselineIgnored)
	}
	b.WriteString("\n")

	b.WriteString("## Detailed Results\n\n")
	if summary.TotalFiles == 0 {
		b.WriteString("*No artwork manifests found.*\n\n")
	} else {
		if summary.TotalFiles > 1 {
			b.WriteString("### Files\n\n")
			for _, r := range summary.Results {
				name := strings.TrimPrefix(r.RelPath, "./")
				fmt.Fprintf(&b, "- [%s](#%s)\n", name, createAnchor(name))
			}
			b.WriteString("\n")
		}
		for _, r := range summary.Results {
			f.writeResult(&b, r)
		}
	}

	b.WriteString("## Conclusion\n\n")
	notReady := summary.NotReadyFiles + summary.ErroredFiles
	if notReady == 0 {
		b.WriteString("✓ All artwork is print-ready!\n")
	} else {
		fmt.Fprintf(&b, "✗ %d of %d files need attention\n", notReady, summary.TotalFiles)
	}

	return writeReport(f.outputFile, f.out, []byte(b.String()))
}

func (f *MarkdownFormatter) writeResult(b *strings.Builder, r batch.FileResult) {
	ready := !r.Failed() && r.Assessment.ReadyToPrint
	if ready && len(r.Assessment.Issues) == 0 && !f.verbose {
		return
	}

	name := strings.TrimPrefix(r.RelPath, "./")
	fmt.Fprintf(b, "### %s\n\n", name)
	fmt.Fprintf(b, "Status: %s\n\n", getStatusEmoji(ready))

	if r.Failed() {
		fmt.Fprintf(b, "Error: %s\n\n---\n\n", r.Error)
		return
	}

	a := r.Assessment
	fmt.Fprintf(b, "Product: `%s` | Score: **%d/100** | Grade: **%s** (%s)\n\n",
		r.ProductType, a.Score, a.Grade.Grade, a.Grade.Label)

	writeIssues(b, "Blocking", a.Issues, types.SeverityBlocking)
	writeIssues(b, "Advisory", a.Issues, types.SeverityAdvisory)
	if f.verbose {
		writeIssues(b, "Informational", a.Issues, types.SeverityInformational)
	}

	if len(r.Feedback.NextSteps) > 0 {
		b.WriteString("#### Next Steps\n\n")
		for i, step := range r.Feedback.NextSteps {
			fmt.Fprintf(b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func writeIssues(b *strings.Builder, title string, issues []types.Issue, severity types.Severity) {
	var matched []types.Issue
	for _, issue := range issues {
		if issue.Severity == severity {
			matched = append(matched, issue)
		}
	}
	if len(matched) == 0 {
		return
	}

	fmt.Fprintf(b, "#### %s\n\n", title)
	for _, issue := range matched {
		fmt.Fprintf(b, "- **%s** - %s", issue.ID, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(b, " _(%s)_", issue.Suggestion)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(ready bool) string {
	if ready {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
