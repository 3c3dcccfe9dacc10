// Package feedback turns scoring results into customer-facing copy.
package feedback

import (
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/types"
)

// TipPrefix marks each passed check in Tips.
const TipPrefix = "✓ "

// PrintReadyFeedback is the customer-readable summary of a result.
type PrintReadyFeedback struct {
	Score      int            `json:"score"`
	ScoreLabel string         `json:"scoreLabel"`
	Status     scoring.Status `json:"status"`
	Summary    string         `json:"summary"`
	Errors     []string       `json:"errors"`
	Warnings   []string       `json:"warnings"`
	Tips       []string       `json:"tips"`
	NextSteps  []string       `json:"nextSteps"`
}

// CanProceed reports whether the customer may continue to proofing.
func (f PrintReadyFeedback) CanProceed() bool {
	return len(f.Errors) == 0
}

var summaries = map[scoring.Status]string{
	scoring.StatusReady:     "Your artwork is print-ready.",
	scoring.StatusReview:    "Your artwork looks good. Review the recommendations before ordering.",
	scoring.StatusNeedsWork: "Your artwork can be printed, but a few changes will noticeably improve the result.",
	scoring.StatusNotReady:  "Your artwork needs changes before it can be printed.",
}

// Generate builds feedback from a score and every finding, including passed
// entries. Informational findings appear in no group.
func Generate(score int, findings []types.Issue) PrintReadyFeedback {
	fb := PrintReadyFeedback{
		Score:      score,
		ScoreLabel: scoring.ScoreLabel(score),
		Errors:     []string{},
		Warnings:   []string{},
		Tips:       []string{},
	}

	for _, f := range findings {
		switch f.Severity {
		case types.SeverityBlocking:
			fb.Errors = append(fb.Errors, f.Message)
		case types.SeverityAdvisory:
			fb.Warnings = append(fb.Warnings, f.Message)
		case types.SeverityPassed:
			fb.Tips = append(fb.Tips, TipPrefix+f.Message)
		}
	}

	blocking := len(fb.Errors) > 0
	fb.Status = scoring.StatusFor(score, blocking)
	fb.Summary = summaries[fb.Status]
	fb.NextSteps = nextSteps(blocking)
	return fb
}

func nextSteps(blocking bool) []string {
	if blocking {
		return []string{
			"Fix the errors listed above in your design application",
			"Re-upload the corrected file",
		}
	}
	return []string{
		"Review the recommendations above",
		"Proceed to proof approval when you are happy with the artwork",
	}
}

// FromPreflight builds feedback from a deduction-model result.
func FromPreflight(result scoring.PreflightResult) PrintReadyFeedback {
	return Generate(result.Score, append(result.Issues(), result.Passed...))
}

// FromPreFlightResult builds feedback from the discrete model's checks.
func FromPreFlightResult(result scoring.PreFlightResult) PrintReadyFeedback {
	findings := make([]types.Issue, 0, len(result.Checks))
	for _, c := range result.Checks {
		findings = append(findings, c.Issue())
	}
	return Generate(result.Score.Score, findings)
}

// FromAssessment builds feedback from any strategy's assessment.
func FromAssessment(a scoring.Assessment) PrintReadyFeedback {
	findings := make([]types.Issue, 0, len(a.Issues)+len(a.Passed))
	findings = append(findings, a.Issues...)
	findings = append(findings, a.Passed...)
	return Generate(a.Score, findings)
}
