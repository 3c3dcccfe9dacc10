package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Check categories.
const (
	CategoryQuality = "quality"
	CategoryColor   = "color"
	CategoryFormat  = "format"
	CategoryLayout  = "layout"
	CategoryText    = "text"
)

// PreFlightCheck is a named check from the discrete model.
type PreFlightCheck struct {
	ID       string
	Name     string
	Category string
	Status   types.Severity
	Message  string
	Blocking bool
}

// MarshalJSON renders Status in the pass/warning/error vocabulary.
func (c PreFlightCheck) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Status   string `json:"status"`
		Message  string `json:"message"`
		Blocking bool   `json:"isBlocking"`
	}{c.ID, c.Name, c.Category, c.Status.LegacyName(), c.Message, c.Blocking})
}

// Issue converts the check to the shared finding type.
func (c PreFlightCheck) Issue() types.Issue {
	issue := types.NewIssue(c.ID, c.ID, c.Status, c.ID, c.Message, "")
	issue.Category = c.Category
	return issue
}

func newCheck(id, name, category string, status types.Severity, message string) PreFlightCheck {
	return PreFlightCheck{
		ID:       id,
		Name:     name,
		Category: category,
		Status:   status,
		Message:  message,
		Blocking: status.IsBlocking(),
	}
}

// GeneratePreFlightChecks emits the discrete model's checks in a fixed order.
func GeneratePreFlightChecks(fs artwork.FileSpecs) []PreFlightCheck {
	return []PreFlightCheck{
		resolutionCheck(fs),
		colorModeCheck(fs),
		fileFormatCheck(fs),
		bleedCheck(fs),
		safeZoneCheck(fs),
		fontsCheck(fs),
		transparencyCheck(fs),
		fileSizeCheck(fs),
	}
}

func resolutionCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "resolution", "Resolution"
	switch {
	case fs.DPI <= 0:
		return newCheck(id, name, CategoryQuality, types.SeverityAdvisory, "Resolution could not be determined")
	case fs.DPI >= 300:
		return newCheck(id, name, CategoryQuality, types.SeverityPassed, fmt.Sprintf("Resolution is %.0f DPI", fs.DPI))
	case fs.DPI >= 150:
		return newCheck(id, name, CategoryQuality, types.SeverityAdvisory, fmt.Sprintf("Resolution is %.0f DPI; 300 DPI is recommended", fs.DPI))
	default:
		return newCheck(id, name, CategoryQuality, types.SeverityBlocking, fmt.Sprintf("Resolution is %.0f DPI; at least 150 DPI is required", fs.DPI))
	}
}

func colorModeCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "color-mode", "Color mode"
	switch fs.ColorMode {
	case artwork.ColorCMYK:
		return newCheck(id, name, CategoryColor, types.SeverityPassed, "Artwork is CMYK")
	case artwork.ColorGrayscale:
		return newCheck(id, name, CategoryColor, types.SeverityPassed, "Artwork is grayscale")
	case artwork.ColorRGB:
		return newCheck(id, name, CategoryColor, types.SeverityAdvisory, "Artwork is RGB; colours may shift when converted to CMYK")
	case artwork.ColorUnknown, "":
		return newCheck(id, name, CategoryColor, types.SeverityAdvisory, "Color mode could not be determined")
	default:
		return newCheck(id, name, CategoryColor, types.SeverityAdvisory, fmt.Sprintf("Color mode %s will be converted to CMYK", fs.ColorMode))
	}
}

func fileFormatCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "file-format", "File format"
	switch {
	case !fs.Format.Known():
		return newCheck(id, name, CategoryFormat, types.SeverityBlocking, fmt.Sprintf("Format %q is not supported", fs.Format))
	case fs.Format == artwork.FormatJPG:
		return newCheck(id, name, CategoryFormat, types.SeverityAdvisory, "JPG is lossy; PDF or PNG is preferred")
	default:
		return newCheck(id, name, CategoryFormat, types.SeverityPassed, fmt.Sprintf("%s is a supported print format", fs.Format))
	}
}

func bleedCheck(fs artwork.FileSpecs) PreFlightCheck {
	if fs.HasBleed {
		return newCheck("bleed", "Bleed", CategoryLayout, types.SeverityPassed, "Bleed area is present")
	}
	return newCheck("bleed", "Bleed", CategoryLayout, types.SeverityAdvisory, "No bleed area; edges may show white after cutting")
}

func safeZoneCheck(fs artwork.FileSpecs) PreFlightCheck {
	if fs.HasSafeZone {
		return newCheck("safe-zone", "Safe zone", CategoryLayout, types.SeverityPassed, "Important content is inside the safe zone")
	}
	return newCheck("safe-zone", "Safe zone", CategoryLayout, types.SeverityAdvisory, "Safe zone not confirmed; keep text away from the edges")
}

func fontsCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "fonts", "Fonts"
	switch {
	case !fs.HasFonts:
		return newCheck(id, name, CategoryText, types.SeverityPassed, "No live fonts to embed")
	case fs.Format.IsVector():
		return newCheck(id, name, CategoryText, types.SeverityPassed, fmt.Sprintf("%d font(s) found; embed or outline them", fs.FontCount))
	default:
		return newCheck(id, name, CategoryText, types.SeverityAdvisory, "Text is rasterised; small type may print blurry")
	}
}

func transparencyCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "transparency", "Transparency"
	switch {
	case !fs.HasTransparency:
		return newCheck(id, name, CategoryQuality, types.SeverityPassed, "No transparency to flatten")
	case fs.Format == artwork.FormatJPG:
		return newCheck(id, name, CategoryQuality, types.SeverityBlocking, "JPG cannot hold transparency")
	case fs.Format == artwork.FormatPNG:
		return newCheck(id, name, CategoryQuality, types.SeverityPassed, "PNG transparency is supported")
	default:
		return newCheck(id, name, CategoryQuality, types.SeverityAdvisory, "Transparency should be flattened before print")
	}
}

func fileSizeCheck(fs artwork.FileSpecs) PreFlightCheck {
	const id, name = "file-size", "File size"
	switch {
	case fs.FileSize > 100*artwork.MiB:
		return newCheck(id, name, CategoryFormat, types.SeverityBlocking, "File exceeds the 100 MB upload limit")
	case fs.FileSize > 50*artwork.MiB:
		return newCheck(id, name, CategoryFormat, types.SeverityAdvisory, "File is larger than 50 MB and may process slowly")
	default:
		return newCheck(id, name, CategoryFormat, types.SeverityPassed, "File size is within limits")
	}
}

// PreFlightResult assembles the discrete score and its checks.
type PreFlightResult struct {
	Score         PrintReadyScore  `json:"score"`
	Checks        []PreFlightCheck `json:"checks"`
	Status        Status           `json:"status"`
	CanProceed    bool             `json:"canProceed"`
	BlockingCount int              `json:"blockingCount"`
	WarningCount  int              `json:"warningCount"`
}

// GeneratePreFlightResult scores fs and runs its checks. The file can
// proceed when no check blocks.
func GeneratePreFlightResult(fs artwork.FileSpecs) PreFlightResult {
	score := CalculatePrintReadyScore(fs)
	checks := GeneratePreFlightChecks(fs)

	blocking, warnings := 0, 0
	for _, c := range checks {
		switch {
		case c.Blocking:
			blocking++
		case c.Status == types.SeverityAdvisory:
			warnings++
		}
	}
	return PreFlightResult{
		Score:         score,
		Checks:        checks,
		Status:        StatusFor(score.Score, blocking > 0),
		CanProceed:    blocking == 0,
		BlockingCount: blocking,
		WarningCount:  warnings,
	}
}

// Issues returns the failing checks as findings, blocking first.
func (r PreFlightResult) Issues() []types.Issue {
	var blocking, advisory []types.Issue
	for _, c := range r.Checks {
		switch c.Status {
		case types.SeverityBlocking:
			blocking = append(blocking, c.Issue())
		case types.SeverityAdvisory:
			advisory = append(advisory, c.Issue())
		}
	}
	return append(blocking, advisory...)
}

// Passed returns the passing checks as findings.
func (r PreFlightResult) Passed() []types.Issue {
	out := []types.Issue{}
	for _, c := range r.Checks {
		if c.Status == types.SeverityPassed {
			out = append(out, c.Issue())
		}
	}
	return out
}

// PrintReadyStrategy scores with the discrete points model.
type PrintReadyStrategy struct{}

// NewPrintReadyStrategy creates a new PrintReadyStrategy
func NewPrintReadyStrategy() *PrintReadyStrategy {
	return &PrintReadyStrategy{}
}

// Name returns the strategy name.
func (s *PrintReadyStrategy) Name() string { return StrategyPrintReady }

// Assess ignores spec; the discrete model scores against fixed buckets.
func (s *PrintReadyStrategy) Assess(meta artwork.FileMetadata, _ specs.PrintSpecification) Assessment {
	result := GeneratePreFlightResult(artwork.SpecsFromMetadata(meta))
	issues := result.Issues()
	if issues == nil {
		issues = []types.Issue{}
	}
	return Assessment{
		Strategy:     s.Name(),
		Score:        result.Score.Score,
		Grade:        result.Score.Grade,
		ReadyToPrint: result.CanProceed,
		Issues:       issues,
		Passed:       result.Passed(),
		Factors:      result.Score.Factors,
	}
}
