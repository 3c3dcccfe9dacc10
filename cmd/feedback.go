package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/feedback"
	"github.com/dotcommander/preflight/internal/scoring"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <manifest>",
	Short: "Show customer-facing feedback for one manifest",
	Long: `Feedback assesses one manifest with the configured strategy and prints the
customer-facing summary: status, errors, warnings, passed checks and next
steps.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := loadRuntime()
		if err != nil {
			fail(err)
			return
		}
		if err := runFeedback(rt, args[0], cmd.OutOrStdout()); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
}

type feedbackReport struct {
	File        string                      `json:"file"`
	ProductType string                      `json:"productType"`
	Strategy    string                      `json:"strategy"`
	Feedback    feedback.PrintReadyFeedback `json:"feedback"`
}

func runFeedback(rt *runtime, path string, out io.Writer) error {
	m, product, err := loadManifest(rt, path)
	if err != nil {
		return err
	}
	strategy, err := scoring.StrategyByName(rt.cfg.Strategy)
	if err != nil {
		return err
	}

	result := batch.NewRunner(batch.Options{Strategy: strategy, Registry: rt.registry}).Assess(m.Metadata, product)
	if rt.cfg.Format == "json" {
		return writeJSON(out, feedbackReport{
			File:        path,
			ProductType: result.ProductType,
			Strategy:    strategy.Name(),
			Feedback:    result.Feedback,
		})
	}
	printFeedback(out, m.Metadata.Filename, result.Feedback)
	return nil
}

func printFeedback(w io.Writer, name string, fb feedback.PrintReadyFeedback) {
	styles := newPrintStyles()
	scoreStyle := styles.forGrade(scoring.GetScoreGrade(fb.Score).Grade)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %s (%s)\n", styles.header.Render(name),
		scoreStyle.Render(fmt.Sprintf("%d/100", fb.Score)), fb.ScoreLabel)
	fmt.Fprintln(w, fb.Summary)

	printList(w, "Must fix:", fb.Errors, styles.tierDF.Render("✘"))
	printList(w, "Recommended:", fb.Warnings, styles.tierC.Render("⚠"))
	printList(w, "Looks good:", fb.Tips, "")

	if len(fb.NextSteps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Next steps:")
		for i, step := range fb.NextSteps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
}

// printList prints a titled list; an empty icon prints items verbatim.
func printList(w io.Writer, title string, items []string, icon string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for _, item := range items {
		if icon == "" {
			fmt.Fprintf(w, "  %s\n", item)
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", icon, item)
	}
}
