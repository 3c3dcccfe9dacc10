package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Factor weights for the weighted model. They sum to 1.0.
const (
	WeightResolution   = 0.25
	WeightColorSpace   = 0.15
	WeightDimensions   = 0.20
	WeightBleed        = 0.15
	WeightFormat       = 0.15
	WeightTransparency = 0.10
)

// OverResolutionPenalty is the largest deduction for DPI above the
// recommended value, reached at the product's maximum DPI.
const OverResolutionPenalty = 5

// CriticalScoreCap bounds the overall weighted score whenever a critical
// issue is present.
const CriticalScoreCap = 40

// Factor names.
const (
	FactorResolution   = "resolution"
	FactorColorSpace   = "colorSpace"
	FactorDimensions   = "dimensions"
	FactorBleed        = "bleed"
	FactorFormat       = "format"
	FactorTransparency = "transparency"
)

// neutralScore is used for factors whose input is unknown.
const neutralScore = 50

// DetailedScore is the outcome of the weighted-factor model.
type DetailedScore struct {
	Overall          int      `json:"overall"`
	Grade            Grade    `json:"grade"`
	Factors          []Factor `json:"factors"`
	Recommendation   string   `json:"recommendation"`
	ReadyToPrint     bool     `json:"readyToPrint"`
	CriticalCount    int      `json:"criticalCount"`
	WarningCount     int      `json:"warningCount"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
}

// Factor returns the named factor.
func (d DetailedScore) Factor(name string) (Factor, bool) {
	for _, f := range d.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// CalculateDetailedScore combines six independently computed sub-scores.
// Critical issues in the preflight result cap the overall score at 40.
func CalculateDetailedScore(result PreflightResult, spec specs.PrintSpecification) DetailedScore {
	meta := result.Metadata

	factors := []Factor{
		newWeightedFactor(FactorResolution, WeightResolution, ResolutionSubScore(meta, spec)),
		newWeightedFactor(FactorColorSpace, WeightColorSpace, ColorSpaceSubScore(meta, spec, result.HasCritical(types.RuleColorSpace))),
		newWeightedFactor(FactorDimensions, WeightDimensions, DimensionSubScore(meta, spec)),
		newWeightedFactor(FactorBleed, WeightBleed, BleedSubScore(meta)),
		newWeightedFactor(FactorFormat, WeightFormat, FormatSubScore(meta, spec)),
		newWeightedFactor(FactorTransparency, WeightTransparency, TransparencySubScore(meta)),
	}

	var sum float64
	for _, f := range factors {
		sum += f.Impact
	}
	overall := clamp(roundScore(sum), 0, 100)

	critical := len(result.Critical)
	warnings := len(result.Warnings)
	if critical > 0 && overall > CriticalScoreCap {
		overall = CriticalScoreCap
	}

	recommendation, ready, minutes := recommend(overall, critical, warnings)
	return DetailedScore{
		Overall:          overall,
		Grade:            GetScoreGrade(overall),
		Factors:          factors,
		Recommendation:   recommendation,
		ReadyToPrint:     ready,
		CriticalCount:    critical,
		WarningCount:     warnings,
		EstimatedMinutes: minutes,
	}
}

func newWeightedFactor(name string, weight float64, score int) Factor {
	return Factor{
		Name:     name,
		Weight:   weight,
		Score:    score,
		MaxScore: 100,
		Impact:   weight * float64(score),
	}
}

// recommend maps the overall score onto a recommendation, readiness and an
// estimate of correction time in minutes.
func recommend(overall, critical, warnings int) (string, bool, int) {
	switch {
	case critical > 0:
		return fmt.Sprintf("Not ready for print: fix %d critical issue(s) before proceeding", critical), false, 30 * critical
	case overall >= ThresholdExcellent:
		return "Ready for print", true, 0
	case overall >= ThresholdGood:
		return "Ready for print with minor caveats; review the warnings", true, 15 * warnings
	case overall >= ThresholdFair:
		return "Acceptable, but improvements are recommended before printing", false, 60 + 15*warnings
	default:
		return "Not ready for print: significant improvements needed", false, 20 * (critical + warnings)
	}
}

// ResolutionSubScore is 100 at exactly the recommended DPI, loses up to
// OverResolutionPenalty points as DPI climbs toward max (the full penalty
// applies above max), ramps linearly 70-100 between min and recommended, and
// is (dpi/min)*50 below min.
func ResolutionSubScore(meta artwork.FileMetadata, spec specs.PrintSpecification) int {
	if !meta.HasDPI() {
		return neutralScore
	}
	dpi := meta.Resolution()
	switch {
	case dpi > spec.MaxDPI:
		return 100 - OverResolutionPenalty
	case dpi > spec.RecommendedDPI:
		span := spec.MaxDPI - spec.RecommendedDPI
		if span <= 0 {
			return 100 - OverResolutionPenalty
		}
		return 100 - int(math.Ceil(OverResolutionPenalty*(dpi-spec.RecommendedDPI)/span))
	case dpi == spec.RecommendedDPI:
		return 100
	case dpi >= spec.MinDPI:
		span := spec.RecommendedDPI - spec.MinDPI
		if span <= 0 {
			return 100
		}
		return roundScore(70 + 30*(dpi-spec.MinDPI)/span)
	default:
		return clamp(int(math.Floor(dpi/spec.MinDPI*50)), 0, 49)
	}
}

// ColorSpaceSubScore scores the colour model against the preferred one.
func ColorSpaceSubScore(meta artwork.FileMetadata, spec specs.PrintSpecification, criticalIssue bool) int {
	if criticalIssue {
		return 0
	}
	space := meta.EffectiveColorSpace()
	switch {
	case space == spec.PreferredColorSpace:
		return 100
	case space == artwork.ColorRGB && spec.PreferredColorSpace == artwork.ColorCMYK:
		return 70
	case space == artwork.ColorGrayscale:
		return 50
	default:
		return 30
	}
}

// DimensionSubScore scores the mean relative deviation of width and height
// from the target size, converting pixels at 72 px/inch.
func DimensionSubScore(meta artwork.FileMetadata, spec specs.PrintSpecification) int {
	if !meta.HasDimensions() || spec.WidthInches <= 0 || spec.HeightInches <= 0 {
		return neutralScore
	}
	dw := math.Abs(meta.WidthInches()-spec.WidthInches) / spec.WidthInches
	dh := math.Abs(meta.HeightInches()-spec.HeightInches) / spec.HeightInches
	deviation := (dw + dh) / 2

	switch {
	case deviation < 0.05:
		return 100
	case deviation < 0.10:
		return 90
	case deviation < 0.20:
		return 70
	case deviation < 0.50:
		return 40
	default:
		return clamp(roundScore(50-deviation*50), 0, 100)
	}
}

// BleedSubScore never drops to zero: missing bleed is a warning here.
func BleedSubScore(meta artwork.FileMetadata) int {
	if meta.HasBleed {
		return 100
	}
	return 50
}

// FormatSubScore prefers layered/vector print formats.
func FormatSubScore(meta artwork.FileMetadata, spec specs.PrintSpecification) int {
	format := meta.EffectiveFormat()
	if !spec.Allows(format) {
		return 0
	}
	switch format {
	case artwork.FormatPDF, artwork.FormatAI, artwork.FormatPSD:
		return 100
	case artwork.FormatPNG, artwork.FormatJPG:
		return 80
	case artwork.FormatSVG:
		return 60
	default:
		return 40
	}
}

// TransparencySubScore scores how safely the format carries an alpha
// channel.
func TransparencySubScore(meta artwork.FileMetadata) int {
	if !meta.HasAlpha {
		return 100
	}
	switch meta.EffectiveFormat() {
	case artwork.FormatPNG:
		return 90
	case artwork.FormatPDF:
		return 70
	case artwork.FormatJPG:
		return 0
	case artwork.FormatAI, artwork.FormatPSD:
		return 85
	default:
		return 50
	}
}

// WeightedFactorStrategy scores with the six-factor weighted model.
type WeightedFactorStrategy struct{}

// NewWeightedFactorStrategy creates a new WeightedFactorStrategy
func NewWeightedFactorStrategy() *WeightedFactorStrategy {
	return &WeightedFactorStrategy{}
}

// Name returns the strategy name.
func (s *WeightedFactorStrategy) Name() string { return StrategyWeighted }

// Assess runs the rules, then the weighted model over their result.
func (s *WeightedFactorStrategy) Assess(meta artwork.FileMetadata, spec specs.PrintSpecification) Assessment {
	result := ValidateAgainst(meta, spec)
	detailed := CalculateDetailedScore(result, spec)
	return Assessment{
		Strategy:     s.Name(),
		Score:        detailed.Overall,
		Grade:        detailed.Grade,
		ReadyToPrint: detailed.ReadyToPrint,
		Issues:       result.Issues(),
		Passed:       result.Passed,
		Factors:      detailed.Factors,
	}
}
