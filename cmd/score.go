package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/discovery"
	"github.com/dotcommander/preflight/internal/manifest"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <manifest>",
	Short: "Show the weighted score breakdown for one manifest",
	Long: `Score runs the preflight rules against one manifest and combines six
weighted factors (resolution, color space, dimensions, bleed, format,
transparency) into a 0-100 score with a recommendation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := loadRuntime()
		if err != nil {
			fail(err)
			return
		}
		if err := runScore(rt, args[0], cmd.OutOrStdout()); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// loadManifest parses one manifest and resolves its product type.
func loadManifest(rt *runtime, path string) (*manifest.Manifest, string, error) {
	abs, err := discovery.ValidateFilePath(path)
	if err != nil {
		return nil, "", err
	}
	m, err := manifest.NewParser().ParseFile(abs)
	if err != nil {
		return nil, "", err
	}

	root, err := filepath.Abs(rt.cfg.Root)
	if err != nil {
		root = rt.cfg.Root
	}
	runner := batch.NewRunner(batch.Options{ProductType: rt.cfg.ProductType, Registry: rt.registry})
	return m, runner.ProductType(m.ProductType, discovery.DetectProductType(abs, root)), nil
}

// scoreReport is the JSON form of `preflight score`.
type scoreReport struct {
	File        string                  `json:"file"`
	ProductType string                  `json:"productType"`
	Preflight   scoring.PreflightResult `json:"preflight"`
	Detailed    scoring.DetailedScore   `json:"detailed"`
}

func runScore(rt *runtime, path string, out io.Writer) error {
	m, product, err := loadManifest(rt, path)
	if err != nil {
		return err
	}

	spec := rt.registry.Get(product)
	result := scoring.ValidateAgainst(m.Metadata, spec)
	result.ProductType = product
	detailed := scoring.CalculateDetailedScore(result, spec)

	if rt.cfg.Format == "json" {
		return writeJSON(out, scoreReport{File: path, ProductType: product, Preflight: result, Detailed: detailed})
	}
	printDetailedScore(out, m.Metadata.Filename, product, result, detailed)
	return nil
}

func printDetailedScore(w io.Writer, name, product string, result scoring.PreflightResult, d scoring.DetailedScore) {
	styles := newPrintStyles()
	gradeStyle := styles.forGrade(d.Grade.Grade)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %s\n", styles.header.Render(name), styles.dim.Render("("+product+")"))
	fmt.Fprintf(w, "Score: %s  %s\n",
		gradeStyle.Render(fmt.Sprintf("%d/100", d.Overall)),
		gradeStyle.Render(d.Grade.Grade+" "+d.Grade.Label))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-14s %6s %6s %7s\n", "Factor", "Weight", "Score", "Impact")
	for _, f := range d.Factors {
		fmt.Fprintf(w, "  %-14s %5.0f%% %6d %7.1f\n", f.Name, f.Weight*100, f.Score, f.Impact)
	}
	fmt.Fprintln(w)

	for _, issue := range result.Issues() {
		icon := "ℹ"
		switch issue.Severity {
		case types.SeverityBlocking:
			icon = styles.tierDF.Render("✘")
		case types.SeverityAdvisory:
			icon = styles.tierC.Render("⚠")
		}
		fmt.Fprintf(w, "  %s %s: %s\n", icon, issue.ID, issue.Message)
	}
	if len(result.Issues()) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Recommendation: %s\n", d.Recommendation)
	if d.EstimatedMinutes > 0 {
		fmt.Fprintf(w, "Estimated fix time: %d min\n", d.EstimatedMinutes)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}

// forGrade picks the tier colour for a letter grade.
func (s printStyles) forGrade(grade string) lipgloss.Style {
	switch grade {
	case "A+", "A":
		return s.tierA
	case "B+", "B":
		return s.tierB
	case "C+", "C":
		return s.tierC
	default:
		return s.tierDF
	}
}
