package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dotcommander/preflight/internal/types"
)

// Finding ties an issue to the artwork file that raised it.
type Finding struct {
	File  string
	Issue types.Issue
}

// Baseline is a set of accepted findings that should no longer be reported.
// Operators use it to waive known issues on recurring artwork.
type Baseline struct {
	Version      string   `json:"version"`
	CreatedAt    string   `json:"created_at"`
	Fingerprints []string `json:"fingerprints"`
	index        map[string]bool
}

// CreateBaseline creates a new baseline from a list of findings. Passed
// entries are never recorded.
func CreateBaseline(findings []Finding) *Baseline {
	fingerprints := make([]string, 0, len(findings))
	index := make(map[string]bool)

	for _, f := range findings {
		if f.Issue.Severity == types.SeverityPassed {
			continue
		}
		fp := fingerprint(f)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// Len returns the number of waived fingerprints.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Fingerprints)
}

// IsKnown checks if a finding is in the baseline
func (b *Baseline) IsKnown(f Finding) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(f)]
}

// Filter drops known findings for file and returns the rest plus the number
// dropped. Passed entries are always kept.
func (b *Baseline) Filter(file string, issues []types.Issue) ([]types.Issue, int) {
	if b == nil {
		return issues, 0
	}
	kept := make([]types.Issue, 0, len(issues))
	ignored := 0
	for _, issue := range issues {
		if issue.Severity != types.SeverityPassed && b.IsKnown(Finding{File: file, Issue: issue}) {
			ignored++
			continue
		}
		kept = append(kept, issue)
	}
	return kept, ignored
}

// fingerprint hashes the artwork file name with the issue's stable code and
// field. Messages are excluded since they embed measured values (DPI, size)
// that change between exports of the same artwork.
func fingerprint(f Finding) string {
	data := fmt.Sprintf("%s|%s|%s|%s", filepath.ToSlash(f.File), f.Issue.Rule, f.Issue.ID, f.Issue.Field)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
