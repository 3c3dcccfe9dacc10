package scoring

import (
	"errors"
	"testing"

	"github.com/dotcommander/preflight/internal/specs"
)

func TestGetScoreGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A+"},
		{95, "A+"},
		{94, "A"},
		{90, "A"},
		{85, "B+"},
		{80, "B"},
		{75, "C+"},
		{70, "C"},
		{60, "D"},
		{59, "F"},
		{55, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		got := GetScoreGrade(tt.score)
		if got.Grade != tt.want {
			t.Errorf("GetScoreGrade(%d) = %q, want %q", tt.score, got.Grade, tt.want)
		}
		if got.Label == "" || got.Color == "" {
			t.Errorf("GetScoreGrade(%d) missing label or color: %+v", tt.score, got)
		}
	}
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{90, "Excellent"},
		{89, "Good"},
		{75, "Good"},
		{60, "Fair"},
		{59, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := ScoreLabel(tt.score); got != tt.want {
			t.Errorf("ScoreLabel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestGetScoreTips(t *testing.T) {
	for _, score := range []int{100, 80, 65, 10} {
		if len(GetScoreTips(score)) == 0 {
			t.Errorf("GetScoreTips(%d) returned no tips", score)
		}
	}
	if len(GetScoreTips(10)) <= len(GetScoreTips(100)) {
		t.Error("low scores should get more tips than high scores")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score    int
		blocking bool
		want     Status
	}{
		{100, true, StatusNotReady},
		{95, false, StatusReady},
		{80, false, StatusReview},
		{65, false, StatusNeedsWork},
		{40, false, StatusNotReady},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.score, tt.blocking); got != tt.want {
			t.Errorf("StatusFor(%d, %v) = %s, want %s", tt.score, tt.blocking, got, tt.want)
		}
	}
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", StrategyDeduction},
		{"deduction", StrategyDeduction},
		{"Weighted", StrategyWeighted},
		{"print-ready", StrategyPrintReady},
		{"printready", StrategyPrintReady},
	}
	for _, tt := range tests {
		s, err := StrategyByName(tt.name)
		if err != nil {
			t.Fatalf("StrategyByName(%q): %v", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("StrategyByName(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}

	if _, err := StrategyByName("magic"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("StrategyByName(magic) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestStrategies_AllResolve(t *testing.T) {
	for _, name := range Strategies() {
		s, err := StrategyByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		a := s.Assess(cleanSticker(), specs.Get("sticker"))
		if a.Strategy != name {
			t.Errorf("%s: Assessment.Strategy = %q", name, a.Strategy)
		}
		if a.Score < 0 || a.Score > 100 {
			t.Errorf("%s: score %d out of range", name, a.Score)
		}
	}
}
