package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/types"
)

// CompactFormatter formats output in a compact, summary-first style: one
// status line per product type, then the blocking issues grouped by file.
type CompactFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
}

// NewCompactFormatter creates a new CompactFormatter. A nil writer means
// stdout.
func NewCompactFormatter(quiet, verbose bool, out io.Writer) *CompactFormatter {
	if out == nil {
		out = os.Stdout
	}
	return &CompactFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
		out:      out,
	}
}

// productGroup tallies results for one product type.
type productGroup struct {
	name    string
	total   int
	ready   int
	errored int
}

// Format implements Formatter.
func (f *CompactFormatter) Format(summary *batch.Summary) error {
	if f.quiet {
		return nil
	}

	greenStyle := f.style("10")
	redStyle := f.style("9")
	dimStyle := f.style("8")
	boldStyle := lipgloss.NewStyle()
	if f.colorize {
		boldStyle = boldStyle.Bold(true)
	}

	groups := groupByProduct(summary.Results)
	maxNameLen, maxCountLen := calculateColumnWidths(groups)

	fmt.Fprintln(f.out)
	for _, g := range groups {
		name := pluralize(g.name)
		padding := strings.Repeat(" ", maxNameLen-len(name))
		info := getStatusInfo(g, maxCountLen, greenStyle, redStyle)
		fmt.Fprintf(f.out, "  %s %s%s  %s\n",
			info.style.Render(info.icon),
			dimStyle.Render(name),
			padding,
			info.style.Render(info.text))
	}

	f.printEntries("Blocking:", collectEntries(summary, types.SeverityBlocking), boldStyle, redStyle)
	if f.verbose {
		f.printEntries("Advisory:", collectEntries(summary, types.SeverityAdvisory), dimStyle, lipgloss.NewStyle())
	}

	f.printSummaryLine(summary, greenStyle, redStyle)
	return nil
}

func (f *CompactFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func groupByProduct(results []batch.FileResult) []productGroup {
	index := map[string]*productGroup{}
	for _, r := range results {
		name := r.ProductType
		g, ok := index[name]
		if !ok {
			g = &productGroup{name: name}
			index[name] = g
		}
		g.total++
		switch {
		case r.Failed():
			g.errored++
		case r.Assessment.ReadyToPrint:
			g.ready++
		}
	}

	groups := make([]productGroup, 0, len(index))
	for _, g := range index {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

// calculateColumnWidths computes the maximum name and count column widths.
func calculateColumnWidths(groups []productGroup) (maxNameLen, maxCountLen int) {
	for _, g := range groups {
		maxNameLen = max(maxNameLen, len(pluralize(g.name)))
		maxCountLen = max(maxCountLen, len(fmt.Sprintf("%d", g.total)))
	}
	return maxNameLen, maxCountLen
}

// statusInfo groups the status icon, text, and style for a group.
type statusInfo struct {
	icon  string
	text  string
	style lipgloss.Style
}

// getStatusInfo returns the status icon, text, and style for a group.
func getStatusInfo(g productGroup, maxCountLen int, greenStyle, redStyle lipgloss.Style) statusInfo {
	if g.ready < g.total {
		return statusInfo{
			icon:  "✗",
			text:  fmt.Sprintf("%*d/%d ready", maxCountLen, g.ready, g.total),
			style: redStyle,
		}
	}
	return statusInfo{
		icon:  "✓",
		text:  fmt.Sprintf("%*d ready", maxCountLen, g.total),
		style: greenStyle,
	}
}

// entry is one message attributed to a manifest.
type entry struct {
	file    string
	message string
}

func collectEntries(summary *batch.Summary, severity types.Severity) []entry {
	var out []entry
	for _, r := range summary.Results {
		if r.Failed() {
			if severity == types.SeverityBlocking {
				out = append(out, entry{file: r.RelPath, message: r.Error})
			}
			continue
		}
		for _, issue := range r.Assessment.Issues {
			if issue.Severity == severity {
				out = append(out, entry{file: r.RelPath, message: issue.Message})
			}
		}
	}
	return out
}

// printEntries prints messages grouped by file.
func (f *CompactFormatter) printEntries(title string, entries []entry, titleStyle, fileStyle lipgloss.Style) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, titleStyle.Render(title))

	currentFile := ""
	for _, e := range entries {
		if e.file != currentFile {
			currentFile = e.file
			fmt.Fprintf(f.out, "  %s\n", fileStyle.Render(e.file))
		}
		fmt.Fprintf(f.out, "    - %s\n", e.message)
	}
}

// printSummaryLine prints the final summary line, celebrating a clean run on
// an interactive terminal.
func (f *CompactFormatter) printSummaryLine(summary *batch.Summary, greenStyle, redStyle lipgloss.Style) {
	fmt.Fprintln(f.out)

	text := fmt.Sprintf("%d/%d ready", summary.ReadyFiles, summary.TotalFiles)
	if summary.TotalBlocking > 0 {
		text += fmt.Sprintf(", %d blocking %s", summary.TotalBlocking, pluralizeCount("issue", summary.TotalBlocking))
	}
	if summary.ErroredFiles > 0 {
		text += fmt.Sprintf(", %d unreadable", summary.ErroredFiles)
	}
	text += fmt.Sprintf(" (%s)", formatDuration(summary.Duration))

	perfect := summary.TotalFiles > 0 && summary.ReadyFiles == summary.TotalFiles && summary.TotalAdvisory == 0
	switch {
	case f.colorize && perfect && f.isTTY():
		printCelebration(f.out, text)
	case summary.TotalBlocking > 0 || summary.ErroredFiles > 0:
		fmt.Fprintln(f.out, redStyle.Render(text))
	default:
		fmt.Fprintln(f.out, greenStyle.Render(text))
	}
}

// isTTY reports whether output goes to an interactive terminal.
func (f *CompactFormatter) isTTY() bool {
	file, ok := f.out.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// pluralize turns a product type into a group label.
func pluralize(s string) string {
	if s == "" {
		return "files"
	}
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
