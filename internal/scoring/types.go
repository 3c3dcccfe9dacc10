package scoring

import (
	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Assessment is the common result of every scoring strategy.
type Assessment struct {
	Strategy     string        `json:"strategy"`
	Score        int           `json:"score"`
	Grade        Grade         `json:"grade"`
	ReadyToPrint bool          `json:"readyToPrint"`
	Issues       []types.Issue `json:"issues"` // findings, most severe first
	Passed       []types.Issue `json:"passed"` // checks that found nothing
	Factors      []Factor      `json:"factors,omitempty"`
}

// BlockingCount returns the number of blocking issues.
func (a Assessment) BlockingCount() int {
	return types.CountBySeverity(a.Issues, types.SeverityBlocking)
}

// AdvisoryCount returns the number of advisory issues.
func (a Assessment) AdvisoryCount() int {
	return types.CountBySeverity(a.Issues, types.SeverityAdvisory)
}

// Factor is one weighted component of a score.
type Factor struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Score    int     `json:"score"`     // raw sub-score or points earned
	MaxScore int     `json:"max_score"` // 100 for weighted factors, max points otherwise
	Impact   float64 `json:"impact"`    // contribution to the overall score
	Note     string  `json:"note,omitempty"`
}

// Scorer is the interface for scoring strategies
type Scorer interface {
	Name() string
	Assess(meta artwork.FileMetadata, spec specs.PrintSpecification) Assessment
}
