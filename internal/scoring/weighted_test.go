package scoring

import (
	"math"
	"reflect"
	"testing"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
)

func TestWeights_SumToOne(t *testing.T) {
	sum := WeightResolution + WeightColorSpace + WeightDimensions + WeightBleed + WeightFormat + WeightTransparency
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestCalculateDetailedScore_CleanSticker(t *testing.T) {
	spec := specs.Get("sticker")
	detailed := CalculateDetailedScore(ValidateAgainst(cleanSticker(), spec), spec)

	if detailed.Overall != 100 {
		t.Errorf("Overall = %d, want 100", detailed.Overall)
	}
	if !detailed.ReadyToPrint {
		t.Error("ReadyToPrint = false, want true")
	}
	if detailed.EstimatedMinutes != 0 {
		t.Errorf("EstimatedMinutes = %d, want 0", detailed.EstimatedMinutes)
	}
	if detailed.Grade.Grade != "A+" {
		t.Errorf("Grade = %q, want A+", detailed.Grade.Grade)
	}
	if len(detailed.Factors) != 6 {
		t.Fatalf("Factors = %d, want 6", len(detailed.Factors))
	}
	for _, f := range detailed.Factors {
		if f.Score != 100 {
			t.Errorf("factor %s = %d, want 100", f.Name, f.Score)
		}
	}
}

func TestCalculateDetailedScore_CriticalCap(t *testing.T) {
	spec := specs.Get("sticker")
	// Every sub-score except transparency is high; the JPG alpha channel is
	// the only critical issue.
	meta := cleanSticker()
	meta.Format = artwork.FormatJPG
	meta.Filename = "sticker.jpg"
	meta.HasAlpha = true

	detailed := CalculateDetailedScore(ValidateAgainst(meta, spec), spec)
	if detailed.Overall != CriticalScoreCap {
		t.Errorf("Overall = %d, want %d", detailed.Overall, CriticalScoreCap)
	}
	if detailed.ReadyToPrint {
		t.Error("ReadyToPrint = true, want false")
	}
	if detailed.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1", detailed.CriticalCount)
	}
	if detailed.EstimatedMinutes != 30 {
		t.Errorf("EstimatedMinutes = %d, want 30", detailed.EstimatedMinutes)
	}
	if f, _ := detailed.Factor(FactorTransparency); f.Score != 0 {
		t.Errorf("transparency = %d, want 0", f.Score)
	}
}

func TestCalculateDetailedScore_CapHoldsForAnyCritical(t *testing.T) {
	spec := specs.Get("label")
	cases := []artwork.FileMetadata{
		func() artwork.FileMetadata { m := cleanLabel(); m.DPI = artwork.DPIValue(50); return m }(),
		func() artwork.FileMetadata { m := cleanLabel(); m.ColorSpace = artwork.ColorRGB; return m }(),
		func() artwork.FileMetadata { m := cleanLabel(); m.Format = artwork.FormatSVG; return m }(),
		func() artwork.FileMetadata { m := cleanLabel(); m.FileSize = 200 * artwork.MiB; return m }(),
		func() artwork.FileMetadata { m := cleanLabel(); m.Width, m.Height = 72, 72; return m }(),
	}
	for i, meta := range cases {
		result := ValidateAgainst(meta, spec)
		if len(result.Critical) == 0 {
			t.Fatalf("case %d: expected a critical issue", i)
		}
		if got := CalculateDetailedScore(result, spec).Overall; got > CriticalScoreCap {
			t.Errorf("case %d: Overall = %d, want <= %d", i, got, CriticalScoreCap)
		}
	}
}

func TestCalculateDetailedScore_Idempotent(t *testing.T) {
	spec := specs.Get("custom")
	meta := artwork.FileMetadata{Filename: "a.png", Width: 250, Height: 300, DPI: artwork.DPIValue(200), ColorSpace: artwork.ColorGrayscale, HasAlpha: true}
	result := ValidateAgainst(meta, spec)
	if !reflect.DeepEqual(CalculateDetailedScore(result, spec), CalculateDetailedScore(result, spec)) {
		t.Error("two runs over identical input differ")
	}
}

func TestResolutionSubScore(t *testing.T) {
	spec := specs.Get("sticker") // 150 / 300 / 1200
	tests := []struct {
		name string
		dpi  *float64
		want int
	}{
		{"unknown", nil, 50},
		{"recommended", artwork.DPIValue(300), 100},
		{"just above recommended", artwork.DPIValue(301), 99},
		{"between recommended and max", artwork.DPIValue(600), 98},
		{"at max", artwork.DPIValue(1200), 95},
		{"above max", artwork.DPIValue(1500), 95},
		{"midway", artwork.DPIValue(225), 85},
		{"at min", artwork.DPIValue(150), 70},
		{"half of min", artwork.DPIValue(75), 25},
		{"just below min", artwork.DPIValue(149), 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := artwork.FileMetadata{DPI: tt.dpi}
			if got := ResolutionSubScore(meta, spec); got != tt.want {
				t.Errorf("ResolutionSubScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColorSpaceSubScore(t *testing.T) {
	spec := specs.Get("sticker")
	tests := []struct {
		space    artwork.ColorSpace
		critical bool
		want     int
	}{
		{artwork.ColorCMYK, false, 100},
		{artwork.ColorRGB, false, 70},
		{artwork.ColorGrayscale, false, 50},
		{artwork.ColorLab, false, 30},
		{"", false, 30},
		{artwork.ColorCMYK, true, 0},
	}
	for _, tt := range tests {
		meta := artwork.FileMetadata{ColorSpace: tt.space}
		if got := ColorSpaceSubScore(meta, spec, tt.critical); got != tt.want {
			t.Errorf("ColorSpaceSubScore(%q, %v) = %d, want %d", tt.space, tt.critical, got, tt.want)
		}
	}
}

func TestDimensionSubScore(t *testing.T) {
	spec := specs.Get("sticker") // 3" x 3" = 216 px
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"unknown", 0, 0, 50},
		{"exact", 216, 216, 100},
		{"within 5%", 220, 212, 100},
		{"about 7%", 231, 231, 90},
		{"about 11%", 240, 240, 70},
		{"about 33%", 288, 288, 40},
		{"double", 432, 432, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := artwork.FileMetadata{Width: tt.width, Height: tt.height}
			if got := DimensionSubScore(meta, spec); got != tt.want {
				t.Errorf("DimensionSubScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatSubScore(t *testing.T) {
	custom := specs.Get("custom")
	label := specs.Get("label")
	tests := []struct {
		format artwork.Format
		spec   specs.PrintSpecification
		want   int
	}{
		{artwork.FormatPDF, custom, 100},
		{artwork.FormatAI, custom, 100},
		{artwork.FormatPSD, custom, 100},
		{artwork.FormatPNG, custom, 80},
		{artwork.FormatJPG, custom, 80},
		{artwork.FormatSVG, custom, 60},
		{artwork.FormatJPG, label, 0},
		{"gif", custom, 0},
	}
	for _, tt := range tests {
		meta := artwork.FileMetadata{Format: tt.format}
		if got := FormatSubScore(meta, tt.spec); got != tt.want {
			t.Errorf("FormatSubScore(%s, %s) = %d, want %d", tt.format, tt.spec.Name, got, tt.want)
		}
	}
}

func TestTransparencySubScore(t *testing.T) {
	tests := []struct {
		format artwork.Format
		alpha  bool
		want   int
	}{
		{artwork.FormatJPG, false, 100},
		{artwork.FormatPNG, true, 90},
		{artwork.FormatPDF, true, 70},
		{artwork.FormatJPG, true, 0},
		{artwork.FormatAI, true, 85},
		{artwork.FormatPSD, true, 85},
		{artwork.FormatSVG, true, 50},
	}
	for _, tt := range tests {
		meta := artwork.FileMetadata{Format: tt.format, HasAlpha: tt.alpha}
		if got := TransparencySubScore(meta); got != tt.want {
			t.Errorf("TransparencySubScore(%s, %v) = %d, want %d", tt.format, tt.alpha, got, tt.want)
		}
	}
}

func TestBleedSubScore(t *testing.T) {
	if got := BleedSubScore(artwork.FileMetadata{HasBleed: true}); got != 100 {
		t.Errorf("with bleed = %d, want 100", got)
	}
	if got := BleedSubScore(artwork.FileMetadata{}); got != 50 {
		t.Errorf("without bleed = %d, want 50", got)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name                     string
		overall, critical, warns int
		wantReady                bool
		wantMinutes              int
	}{
		{"critical", 40, 2, 1, false, 60},
		{"excellent", 95, 0, 1, true, 0},
		{"good", 80, 0, 2, true, 30},
		{"fair", 65, 0, 1, false, 75},
		{"poor", 50, 0, 3, false, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ready, minutes := recommend(tt.overall, tt.critical, tt.warns)
			if text == "" {
				t.Error("empty recommendation")
			}
			if ready != tt.wantReady {
				t.Errorf("ready = %v, want %v", ready, tt.wantReady)
			}
			if minutes != tt.wantMinutes {
				t.Errorf("minutes = %d, want %d", minutes, tt.wantMinutes)
			}
		})
	}
}

func TestWeightedFactorStrategy_Assess(t *testing.T) {
	a := NewWeightedFactorStrategy().Assess(cleanSticker(), specs.Get("sticker"))
	if a.Strategy != StrategyWeighted {
		t.Errorf("Strategy = %q", a.Strategy)
	}
	if a.Score != 100 || !a.ReadyToPrint {
		t.Errorf("score=%d ready=%v, want 100/true", a.Score, a.ReadyToPrint)
	}
	if len(a.Factors) != 6 {
		t.Errorf("Factors = %d, want 6", len(a.Factors))
	}
}
