package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/discovery"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/types"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [dir]",
	Short: "Show print-readiness summary across all artwork",
	Long: `Aggregates scores across every artwork manifest below a directory and
displays a summary report with product counts, grade distribution, top issues
and lowest-scoring files.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSummary(cmd.Context(), args, cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// ArtworkSummary holds aggregated data for summary report
type ArtworkSummary struct {
	TotalFiles    int
	ErroredFiles  int
	ReadyFiles    int
	ProductCounts map[string]int
	TierCounts    map[string]int
	TopIssues     map[string]int
	LowestScoring []ScoredArtwork
	AllResults    []batch.FileResult
}

// ScoredArtwork represents a manifest with its score for sorting
type ScoredArtwork struct {
	File    string
	Product string
	Score   int
	Tier    string
}

func runSummary(ctx context.Context, args []string, out io.Writer) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := discovery.Expand(args, rt.cfg.Root, rt.cfg.FollowSymlinks)
	if err != nil {
		return fmt.Errorf("error discovering manifests: %w", err)
	}
	strategy, err := scoring.StrategyByName(rt.cfg.Strategy)
	if err != nil {
		return err
	}

	result, err := batch.NewRunner(batch.Options{
		Strategy:    strategy,
		ProductType: rt.cfg.ProductType,
		Concurrency: rt.cfg.Concurrency,
		Registry:    rt.registry,
		Logger:      rt.log,
	}).Run(ctx, files)
	if err != nil {
		return err
	}

	summary := newArtworkSummary()
	aggregateResults(summary, result.Results)
	printSummaryReport(out, summary)
	return nil
}

func newArtworkSummary() *ArtworkSummary {
	return &ArtworkSummary{
		ProductCounts: make(map[string]int),
		TierCounts:    make(map[string]int),
		TopIssues:     make(map[string]int),
	}
}

func aggregateResults(summary *ArtworkSummary, results []batch.FileResult) {
	for _, result := range results {
		summary.AllResults = append(summary.AllResults, result)
		summary.TotalFiles++

		if result.Failed() {
			summary.ErroredFiles++
			continue
		}

		summary.ProductCounts[result.ProductType]++
		if result.Assessment.ReadyToPrint {
			summary.ReadyFiles++
		}

		tier := gradeTier(result.Assessment.Grade.Grade)
		summary.TierCounts[tier]++
		summary.LowestScoring = append(summary.LowestScoring, ScoredArtwork{
			File:    result.RelPath,
			Product: result.ProductType,
			Score:   result.Assessment.Score,
			Tier:    tier,
		})

		for _, issue := range result.Assessment.Issues {
			summary.TopIssues[categorizeIssue(issue.Rule)]++
		}
	}

	sort.SliceStable(summary.LowestScoring, func(i, j int) bool {
		return summary.LowestScoring[i].Score < summary.LowestScoring[j].Score
	})
}

// gradeTier folds plus grades into their letter: A+ -> A, D and F -> D/F.
func gradeTier(grade string) string {
	tier := strings.TrimSuffix(grade, "+")
	if tier == "D" || tier == "F" {
		return "D/F"
	}
	return tier
}

// categorizeIssue maps a rule name onto a report bucket.
func categorizeIssue(rule string) string {
	switch rule {
	case types.RuleResolution:
		return "Low or excessive resolution"
	case types.RuleColorSpace:
		return "Wrong color space"
	case types.RuleDimensions:
		return "Size or aspect ratio mismatch"
	case types.RuleBleed:
		return "Missing bleed"
	case types.RuleFormat:
		return "Unsupported file format"
	case types.RuleTransparency:
		return "Transparency problems"
	case types.RuleFileSize:
		return "File size out of range"
	default:
		return "Other issues"
	}
}

// printStyles holds all the styles used in the summary report.
type printStyles struct {
	header lipgloss.Style
	tierA  lipgloss.Style
	tierB  lipgloss.Style
	tierC  lipgloss.Style
	tierDF lipgloss.Style
	dim    lipgloss.Style
}

// newPrintStyles creates a new set of print styles.
func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		tierA:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tierB:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		tierC:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tierDF: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func printSummaryReport(w io.Writer, summary *ArtworkSummary) {
	styles := newPrintStyles()

	printReportHeader(w, styles)
	printFileCounts(w, summary)
	printGradeDistribution(w, summary, styles)
	printTopIssues(w, summary, styles)
	printLowestScoring(w, summary, styles)
	printReportFooter(w, styles)
}

func printReportHeader(w io.Writer, styles printStyles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Render("╔═══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, styles.header.Render("║              PRINT READINESS SUMMARY                      ║"))
	fmt.Fprintln(w, styles.header.Render("╠═══════════════════════════════════════════════════════════╣"))
}

func printFileCounts(w io.Writer, summary *ArtworkSummary) {
	fmt.Fprintf(w, "║ Manifests Analyzed: %-38d ║\n", summary.TotalFiles)
	fmt.Fprintf(w, "║   Ready: %-6d │ Not ready: %-6d │ Unreadable: %-7d ║\n",
		summary.ReadyFiles, summary.TotalFiles-summary.ReadyFiles-summary.ErroredFiles, summary.ErroredFiles)

	products := make([]string, 0, len(summary.ProductCounts))
	for p := range summary.ProductCounts {
		products = append(products, p)
	}
	sort.Strings(products)
	for _, p := range products {
		fmt.Fprintf(w, "║   %-20s %-34d ║\n", p+":", summary.ProductCounts[p])
	}
}

func printGradeDistribution(w io.Writer, summary *ArtworkSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ GRADE DISTRIBUTION                                        ║")

	assessed := summary.TotalFiles - summary.ErroredFiles
	total := float64(assessed)
	if total == 0 {
		total = 1
	}

	rows := []struct {
		tier  string
		label string
		style lipgloss.Style
		color string
	}{
		{"A", "A (90-100)", styles.tierA, "10"},
		{"B", "B (80-89) ", styles.tierB, "12"},
		{"C", "C (70-79) ", styles.tierC, "3"},
		{"D/F", "D/F (<70) ", styles.tierDF, "9"},
	}
	for _, row := range rows {
		count := summary.TierCounts[row.tier]
		fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                    ║\n",
			row.style.Render(row.label), count, float64(count)/total*100,
			renderBar(count, assessed, row.color))
	}
}

type issueCount struct {
	issue string
	count int
}

func printTopIssues(w io.Writer, summary *ArtworkSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ TOP ISSUES                                                ║")

	issues := make([]issueCount, 0, len(summary.TopIssues))
	for issue, count := range summary.TopIssues {
		issues = append(issues, issueCount{issue, count})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].count != issues[j].count {
			return issues[i].count > issues[j].count
		}
		return issues[i].issue < issues[j].issue
	})

	for i, ic := range issues {
		if i >= 5 {
			break
		}
		truncated := ic.issue
		if len(truncated) > 40 {
			truncated = truncated[:37] + "..."
		}
		fmt.Fprintf(w, "║   %s %-40s %11d ║\n", styles.dim.Render(fmt.Sprintf("%d.", i+1)), truncated, ic.count)
	}
}

func printLowestScoring(w io.Writer, summary *ArtworkSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ LOWEST SCORING ARTWORK                                    ║")

	for i, art := range summary.LowestScoring {
		if i >= 5 {
			break
		}
		tierStyle := styles.tierDF
		switch art.Tier {
		case "A":
			tierStyle = styles.tierA
		case "B":
			tierStyle = styles.tierB
		case "C":
			tierStyle = styles.tierC
		}
		truncated := art.File
		if len(truncated) > 40 {
			truncated = "..." + truncated[len(truncated)-37:]
		}
		fmt.Fprintf(w, "║   %s %-40s %3s %3d    ║\n",
			styles.dim.Render(fmt.Sprintf("%d.", i+1)),
			truncated,
			tierStyle.Render(art.Tier),
			art.Score)
	}
}

func printReportFooter(w io.Writer, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╚═══════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(w)
}

func renderBar(count, total int, color string) string {
	if total == 0 {
		return ""
	}
	barWidth := 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	var bar strings.Builder
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	for i := 0; i < filled; i++ {
		bar.WriteString(style.Render("█"))
	}
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for i := filled; i < barWidth; i++ {
		bar.WriteString(dimStyle.Render("░"))
	}
	return bar.String()
}
