package scoring

// Score thresholds shared by the recommendation bands, the feedback status
// and the score label.
const (
	ThresholdExcellent = 90
	ThresholdGood      = 75
	ThresholdFair      = 60
)

// Grade is a display grade for a 0-100 score.
type Grade struct {
	Grade string `json:"grade"` // A+, A, B+, B, C+, C, D, F
	Label string `json:"label"`
	Color string `json:"color"` // terminal/UI colour name
}

var gradeTable = []struct {
	min   int
	grade Grade
}{
	{95, Grade{Grade: "A+", Label: "Outstanding", Color: "green"}},
	{90, Grade{Grade: "A", Label: "Excellent", Color: "green"}},
	{85, Grade{Grade: "B+", Label: "Very Good", Color: "teal"}},
	{80, Grade{Grade: "B", Label: "Good", Color: "teal"}},
	{75, Grade{Grade: "C+", Label: "Above Average", Color: "yellow"}},
	{70, Grade{Grade: "C", Label: "Average", Color: "yellow"}},
	{60, Grade{Grade: "D", Label: "Below Average", Color: "orange"}},
}

var gradeF = Grade{Grade: "F", Label: "Poor", Color: "red"}

// GetScoreGrade returns the letter grade for a score.
func GetScoreGrade(score int) Grade {
	for _, row := range gradeTable {
		if score >= row.min {
			return row.grade
		}
	}
	return gradeF
}

// ScoreLabel returns Excellent, Good, Fair or Needs Improvement.
func ScoreLabel(score int) string {
	switch {
	case score >= ThresholdExcellent:
		return "Excellent"
	case score >= ThresholdGood:
		return "Good"
	case score >= ThresholdFair:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// GetScoreTips returns general advice for raising a score in the given band.
func GetScoreTips(score int) []string {
	switch {
	case score >= ThresholdExcellent:
		return []string{
			"Your artwork meets print requirements",
			"Order a physical proof for colour-critical jobs",
		}
	case score >= ThresholdGood:
		return []string{
			"Review the warnings before ordering",
			"Convert artwork to CMYK to avoid colour shifts",
			"Add bleed so edges cut cleanly",
		}
	case score >= ThresholdFair:
		return []string{
			"Export at 300 DPI or higher",
			"Convert artwork to CMYK",
			"Extend the background 0.125\" past the trim line",
			"Keep text and logos inside the safe zone",
		}
	default:
		return []string{
			"Re-export the artwork at the product's full size and 300 DPI",
			"Use PDF, AI or PSD for print artwork",
			"Convert artwork to CMYK",
			"Flatten transparency or save as PNG instead of JPG",
			"Contact support if you need help preparing your file",
		}
	}
}

// Status is the customer-facing readiness bucket.
type Status string

const (
	StatusReady     Status = "ready"
	StatusReview    Status = "review"
	StatusNeedsWork Status = "needs_work"
	StatusNotReady  Status = "not_ready"
)

// StatusFor buckets a score. Any blocking finding means not_ready.
func StatusFor(score int, blocking bool) Status {
	switch {
	case blocking:
		return StatusNotReady
	case score >= ThresholdExcellent:
		return StatusReady
	case score >= ThresholdGood:
		return StatusReview
	case score >= ThresholdFair:
		return StatusNeedsWork
	default:
		return StatusNotReady
	}
}
