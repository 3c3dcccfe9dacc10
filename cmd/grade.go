package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/scoring"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <score>",
	Short: "Show the grade, label and tips for a 0-100 score",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGrade(args[0], outputFormat == "json", cmd.OutOrStdout()); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)
}

type gradeReport struct {
	Score      int            `json:"score"`
	Grade      scoring.Grade  `json:"grade"`
	ScoreLabel string         `json:"scoreLabel"`
	Status     scoring.Status `json:"status"`
	Tips       []string       `json:"tips"`
}

func parseScore(arg string) (int, error) {
	score, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", arg, err)
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("score must be between 0 and 100, got %d", score)
	}
	return score, nil
}

func runGrade(arg string, asJSON bool, out io.Writer) error {
	score, err := parseScore(arg)
	if err != nil {
		return err
	}

	report := gradeReport{
		Score:      score,
		Grade:      scoring.GetScoreGrade(score),
		ScoreLabel: scoring.ScoreLabel(score),
		Status:     scoring.StatusFor(score, false),
		Tips:       scoring.GetScoreTips(score),
	}
	if asJSON {
		return writeJSON(out, report)
	}

	style := newPrintStyles().forGrade(report.Grade.Grade)
	fmt.Fprintf(out, "%d/100  %s  %s (%s)\n", score,
		style.Render(report.Grade.Grade), report.Grade.Label, report.ScoreLabel)
	fmt.Fprintf(out, "Status: %s\n", report.Status)
	for _, tip := range report.Tips {
		fmt.Fprintf(out, "  - %s\n", tip)
	}
	return nil
}
