package feedback

import (
	"strings"
	"testing"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

func issue(severity types.Severity, msg string) types.Issue {
	return types.NewIssue("test", "test", severity, "", msg, "")
}

func TestGenerate_Status(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		findings  []types.Issue
		want      scoring.Status
		wantLabel string
	}{
		{"excellent", 95, nil, scoring.StatusReady, "Excellent"},
		{"good", 80, nil, scoring.StatusReview, "Good"},
		{"fair", 65, nil, scoring.StatusNeedsWork, "Fair"},
		{"poor", 30, nil, scoring.StatusNotReady, "Needs Improvement"},
		{"blocking overrides score", 95, []types.Issue{issue(types.SeverityBlocking, "bad")}, scoring.StatusNotReady, "Excellent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := Generate(tt.score, tt.findings)
			if fb.Status != tt.want {
				t.Errorf("Status = %s, want %s", fb.Status, tt.want)
			}
			if fb.ScoreLabel != tt.wantLabel {
				t.Errorf("ScoreLabel = %q, want %q", fb.ScoreLabel, tt.wantLabel)
			}
			if fb.Summary == "" {
				t.Error("empty summary")
			}
		})
	}
}

func TestGenerate_Groups(t *testing.T) {
	findings := []types.Issue{
		issue(types.SeverityBlocking, "Resolution too low"),
		issue(types.SeverityAdvisory, "Missing bleed"),
		issue(types.SeverityInformational, "Resolution higher than needed"),
		issue(types.SeverityPassed, "File format is supported"),
	}
	fb := Generate(60, findings)

	if len(fb.Errors) != 1 || fb.Errors[0] != "Resolution too low" {
		t.Errorf("Errors = %v", fb.Errors)
	}
	if len(fb.Warnings) != 1 || fb.Warnings[0] != "Missing bleed" {
		t.Errorf("Warnings = %v", fb.Warnings)
	}
	if len(fb.Tips) != 1 || fb.Tips[0] != "✓ File format is supported" {
		t.Errorf("Tips = %v", fb.Tips)
	}
	for _, group := range [][]string{fb.Errors, fb.Warnings, fb.Tips} {
		for _, msg := range group {
			if strings.Contains(msg, "higher than needed") {
				t.Errorf("informational finding leaked into feedback: %q", msg)
			}
		}
	}
	if fb.CanProceed() {
		t.Error("CanProceed = true with errors")
	}
}

func TestGenerate_NextSteps(t *testing.T) {
	blocked := Generate(50, []types.Issue{issue(types.SeverityBlocking, "x")})
	if !strings.Contains(strings.Join(blocked.NextSteps, " "), "Re-upload") {
		t.Errorf("blocking next steps = %v", blocked.NextSteps)
	}

	warned := Generate(80, []types.Issue{issue(types.SeverityAdvisory, "x")})
	joined := strings.Join(warned.NextSteps, " ")
	if !strings.Contains(joined, "Review") || !strings.Contains(joined, "Proceed") {
		t.Errorf("advisory next steps = %v", warned.NextSteps)
	}

	clean := Generate(100, nil)
	if len(clean.NextSteps) != 2 || !strings.HasPrefix(clean.NextSteps[0], "Review") || !strings.HasPrefix(clean.NextSteps[1], "Proceed") {
		t.Errorf("clean next steps = %v, want review then proceed", clean.NextSteps)
	}
	if clean.Errors == nil || clean.Warnings == nil || clean.Tips == nil {
		t.Error("groups should be empty slices, not nil")
	}
}

func TestFromPreflight(t *testing.T) {
	meta := artwork.FileMetadata{
		Filename:   "sticker.pdf",
		Format:     artwork.FormatPDF,
		Width:      216,
		Height:     216,
		DPI:        artwork.DPIValue(300),
		ColorSpace: artwork.ColorCMYK,
	}
	fb := FromPreflight(scoring.RunPreflightValidation(meta, "sticker"))

	if fb.Score != 90 {
		t.Errorf("Score = %d, want 90", fb.Score)
	}
	if fb.Status != scoring.StatusReady {
		t.Errorf("Status = %s, want ready", fb.Status)
	}
	if len(fb.Warnings) != 1 {
		t.Errorf("Warnings = %v, want the missing bleed warning", fb.Warnings)
	}
	if len(fb.Tips) != 6 {
		t.Errorf("Tips = %d, want 6", len(fb.Tips))
	}
}

func TestFromPreFlightResult(t *testing.T) {
	fs := artwork.FileSpecs{Format: artwork.FormatJPG, DPI: 300, ColorMode: artwork.ColorCMYK, HasTransparency: true}
	fb := FromPreFlightResult(scoring.GeneratePreFlightResult(fs))

	if fb.Status != scoring.StatusNotReady {
		t.Errorf("Status = %s, want not_ready", fb.Status)
	}
	if len(fb.Errors) != 1 {
		t.Errorf("Errors = %v, want the JPG transparency error", fb.Errors)
	}
	for _, tip := range fb.Tips {
		if !strings.HasPrefix(tip, TipPrefix) {
			t.Errorf("tip %q missing prefix", tip)
		}
	}
}

func TestFromAssessment(t *testing.T) {
	for _, name := range scoring.Strategies() {
		s, err := scoring.StrategyByName(name)
		if err != nil {
			t.Fatal(err)
		}
		meta := artwork.FileMetadata{Filename: "art.jpg", HasAlpha: true}
		fb := FromAssessment(s.Assess(meta, specs.Get("sticker")))
		if fb.Status != scoring.StatusNotReady {
			t.Errorf("%s: Status = %s, want not_ready", name, fb.Status)
		}
		if len(fb.Errors) == 0 {
			t.Errorf("%s: expected errors", name)
		}
	}
}
