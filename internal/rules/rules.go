// Package rules implements the preflight rule evaluators.
//
// Each evaluator is a pure function of the file metadata and the product's
// print specification. Evaluators never fail: missing or unknown metadata
// degrades to an advisory issue. Rules run in a fixed order so output is
// deterministic; order has no effect on any score.
package rules

import (
	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Evaluator checks one concern and returns zero or more issues.
type Evaluator func(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue

// Rule pairs an evaluator with the message shown when it finds nothing.
type Rule struct {
	Name        string
	Field       string
	Evaluate    Evaluator
	PassMessage string
}

// Default is the rule table in evaluation order.
var Default = []Rule{
	{Name: types.RuleFormat, Field: "format", Evaluate: CheckFormat, PassMessage: "File format is supported"},
	{Name: types.RuleResolution, Field: "dpi", Evaluate: CheckResolution, PassMessage: "Resolution meets print requirements"},
	{Name: types.RuleColorSpace, Field: "colorSpace", Evaluate: CheckColorSpace, PassMessage: "Color space is print-ready"},
	{Name: types.RuleDimensions, Field: "dimensions", Evaluate: CheckDimensions, PassMessage: "Dimensions match the product size"},
	{Name: types.RuleBleed, Field: "hasBleed", Evaluate: CheckBleed, PassMessage: "Bleed area is present"},
	{Name: types.RuleTransparency, Field: "hasAlpha", Evaluate: CheckTransparency, PassMessage: "Transparency is handled correctly"},
	{Name: types.RuleFileSize, Field: "fileSize", Evaluate: CheckFileSize, PassMessage: "File size is within limits"},
}

// Result holds the outcome of running a rule table.
type Result struct {
	// Issues in rule order; never includes passed entries.
	Issues []types.Issue
	// Passed has one entry per rule that produced no issue at all.
	Passed []types.Issue
}

// Evaluate runs the default rule table.
func Evaluate(meta artwork.FileMetadata, spec specs.PrintSpecification) Result {
	return EvaluateWith(Default, meta, spec)
}

// EvaluateWith runs a custom rule table in the given order.
func EvaluateWith(table []Rule, meta artwork.FileMetadata, spec specs.PrintSpecification) Result {
	var result Result
	for _, rule := range table {
		issues := rule.Evaluate(meta, spec)
		if len(issues) == 0 {
			result.Passed = append(result.Passed,
				types.NewIssue(rule.Name, rule.Name+"-ok", types.SeverityPassed, rule.Field, rule.PassMessage, ""))
			continue
		}
		result.Issues = append(result.Issues, issues...)
	}
	return result
}

// Lookup returns the named rule from the default table.
func Lookup(name string) (Rule, bool) {
	for _, rule := range Default {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}
