package scoring

import (
	"context"
	"strings"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/rules"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Deduction weights.
const (
	CriticalDeduction = 20
	WarningDeduction  = 10
)

// PreflightResult is the outcome of the deduction model.
type PreflightResult struct {
	IsValid     bool                 `json:"isValid"`
	Score       int                  `json:"score"`
	ProductType string               `json:"productType"`
	Critical    []types.Issue        `json:"critical"`
	Warnings    []types.Issue        `json:"warnings"`
	Info        []types.Issue        `json:"info"`
	Passed      []types.Issue        `json:"passed"`
	Metadata    artwork.FileMetadata `json:"metadata"`
}

// Issues returns every finding: critical, then warnings, then info.
func (r PreflightResult) Issues() []types.Issue {
	out := make([]types.Issue, 0, len(r.Critical)+len(r.Warnings)+len(r.Info))
	out = append(out, r.Critical...)
	out = append(out, r.Warnings...)
	out = append(out, r.Info...)
	return out
}

// HasCritical reports whether a critical issue was raised by the named rule.
func (r PreflightResult) HasCritical(rule string) bool {
	for _, issue := range r.Critical {
		if issue.Rule == rule {
			return true
		}
	}
	return false
}

// DeductionScore is clamp(100 - 20*critical - 10*warning, 0, 100).
func DeductionScore(critical, warnings int) int {
	return clamp(100-CriticalDeduction*critical-WarningDeduction*warnings, 0, 100)
}

// RunPreflightValidation validates metadata against the built-in
// specification for productType. Unknown product types use "custom".
func RunPreflightValidation(meta artwork.FileMetadata, productType string) PreflightResult {
	result := ValidateAgainst(meta, specs.Get(productType))
	result.ProductType = specs.Default().Resolve(productType)
	return result
}

// RunPreflightValidationContext is RunPreflightValidation for callers that
// work with contexts. The computation never blocks; the context is only
// checked before starting.
func RunPreflightValidationContext(ctx context.Context, meta artwork.FileMetadata, productType string) (PreflightResult, error) {
	if err := ctx.Err(); err != nil {
		return PreflightResult{}, err
	}
	return RunPreflightValidation(meta, productType), nil
}

// ValidateAgainst runs every rule and partitions the findings by severity.
// Informational findings are kept but never deducted.
func ValidateAgainst(meta artwork.FileMetadata, spec specs.PrintSpecification) PreflightResult {
	evaluated := rules.Evaluate(meta, spec)

	result := PreflightResult{
		ProductType: strings.ToLower(spec.Name),
		Metadata:    meta,
		Critical:    []types.Issue{},
		Warnings:    []types.Issue{},
		Info:        []types.Issue{},
		Passed:      evaluated.Passed,
	}
	for _, issue := range evaluated.Issues {
		switch issue.Severity {
		case types.SeverityBlocking:
			result.Critical = append(result.Critical, issue)
		case types.SeverityAdvisory:
			result.Warnings = append(result.Warnings, issue)
		default:
			result.Info = append(result.Info, issue)
		}
	}

	result.Score = DeductionScore(len(result.Critical), len(result.Warnings))
	result.IsValid = len(result.Critical) == 0
	return result
}

// DeductionStrategy scores with the simple deduction model.
type DeductionStrategy struct{}

// NewDeductionStrategy creates a new DeductionStrategy
func NewDeductionStrategy() *DeductionStrategy {
	return &DeductionStrategy{}
}

// Name returns the strategy name.
func (s *DeductionStrategy) Name() string { return StrategyDeduction }

// Assess runs the deduction model.
func (s *DeductionStrategy) Assess(meta artwork.FileMetadata, spec specs.PrintSpecification) Assessment {
	result := ValidateAgainst(meta, spec)
	return Assessment{
		Strategy:     s.Name(),
		Score:        result.Score,
		Grade:        GetScoreGrade(result.Score),
		ReadyToPrint: result.IsValid,
		Issues:       result.Issues(),
		Passed:       result.Passed,
	}
}
