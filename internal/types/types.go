// Package types provides shared types used across the preflight codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the unified severity scale shared by every scoring strategy.
// The deduction model speaks critical/warning/info and the discrete model
// speaks error/warning/pass; both map onto this set.
type Severity int

const (
	SeverityPassed Severity = iota
	SeverityInformational
	SeverityAdvisory
	SeverityBlocking
)

// String returns the preflight vocabulary: critical, warning, info, pass.
func (s Severity) String() string {
	switch s {
	case SeverityBlocking:
		return "critical"
	case SeverityAdvisory:
		return "warning"
	case SeverityInformational:
		return "info"
	default:
		return "pass"
	}
}

// LegacyName returns the check vocabulary: error, warning, pass.
// Informational findings render as pass because they never need action.
func (s Severity) LegacyName() string {
	switch s {
	case SeverityBlocking:
		return "error"
	case SeverityAdvisory:
		return "warning"
	default:
		return "pass"
	}
}

// IsBlocking reports whether the severity must be fixed before proceeding.
func (s Severity) IsBlocking() bool {
	return s == SeverityBlocking
}

// ParseSeverity accepts either vocabulary.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "error", "blocking":
		return SeverityBlocking, nil
	case "warning", "advisory":
		return SeverityAdvisory, nil
	case "info", "informational":
		return SeverityInformational, nil
	case "pass", "passed":
		return SeverityPassed, nil
	default:
		return SeverityPassed, fmt.Errorf("invalid severity %q: valid values are critical, warning, info, pass", s)
	}
}

// MarshalJSON renders the severity as its preflight name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either vocabulary.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Issue is a single finding produced by a rule evaluator or a check.
type Issue struct {
	ID         string   `json:"id"`
	Rule       string   `json:"rule"`
	Category   string   `json:"category,omitempty"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Field      string   `json:"field,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Blocking   bool     `json:"blocking"`
}

// NewIssue builds an Issue and derives Blocking from the severity.
func NewIssue(rule, id string, severity Severity, field, message, suggestion string) Issue {
	return Issue{
		ID:         id,
		Rule:       rule,
		Category:   rule,
		Severity:   severity,
		Message:    message,
		Field:      field,
		Suggestion: suggestion,
		Blocking:   severity.IsBlocking(),
	}
}

// CountBySeverity counts issues at the given severity.
func CountBySeverity(issues []Issue, severity Severity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// HasBlocking reports whether any issue blocks production.
func HasBlocking(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Blocking {
			return true
		}
	}
	return false
}

// Product type constants.
const (
	ProductSticker = "sticker"
	ProductLabel   = "label"
	ProductCustom  = "custom"
)

// Rule name constants, in evaluation order.
const (
	RuleFormat       = "format"
	RuleResolution   = "resolution"
	RuleColorSpace   = "color-space"
	RuleDimensions   = "dimensions"
	RuleBleed        = "bleed"
	RuleTransparency = "transparency"
	RuleFileSize     = "file-size"
)
