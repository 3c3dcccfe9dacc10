package scoring

import (
	"fmt"

	"github.com/dotcommander/preflight/internal/artwork"
)

// Maximum points per factor in the discrete model. They sum to 100.
const (
	PointsResolution       = 25
	PointsColorMode        = 20
	PointsFileFormat       = 15
	PointsBleedAndSafeZone = 15
	PointsFonts            = 15
	PointsTransparency     = 10
)

// Discrete factor names.
const (
	FactorColorMode        = "colorMode"
	FactorFileFormat       = "fileFormat"
	FactorBleedAndSafeZone = "bleedAndSafeZone"
	FactorFonts            = "fonts"
)

// PrintReadyScore is the outcome of the discrete model.
type PrintReadyScore struct {
	Score   int      `json:"score"`
	Grade   Grade    `json:"grade"`
	Factors []Factor `json:"factors"`
}

// Points returns the points earned by the named factor.
func (p PrintReadyScore) Points(name string) int {
	for _, f := range p.Factors {
		if f.Name == name {
			return f.Score
		}
	}
	return 0
}

var resolutionBands = []Band{
	{Min: 300, Score: 25, Note: "300+ DPI"},
	{Min: 250, Score: 20, Note: "250-299 DPI"},
	{Min: 200, Score: 15, Note: "200-249 DPI"},
	{Min: 150, Score: 10, Note: "150-199 DPI"},
	{Min: 1, Score: 3, Note: "below 150 DPI"},
}

// CalculatePrintReadyScore scores FileSpecs with fixed points per bucket.
// It does not consult a product specification.
func CalculatePrintReadyScore(fs artwork.FileSpecs) PrintReadyScore {
	factors := []Factor{
		resolutionPoints(fs),
		colorModePoints(fs),
		fileFormatPoints(fs),
		bleedPoints(fs),
		fontPoints(fs),
		transparencyPoints(fs),
	}

	total := 0
	for _, f := range factors {
		total += f.Score
	}
	total = clamp(total, 0, 100)
	return PrintReadyScore{
		Score:   total,
		Grade:   GetScoreGrade(total),
		Factors: factors,
	}
}

func newPointsFactor(name string, points, max int, note string) Factor {
	return Factor{
		Name:     name,
		Weight:   float64(max) / 100,
		Score:    points,
		MaxScore: max,
		Impact:   float64(points),
		Note:     note,
	}
}

func resolutionPoints(fs artwork.FileSpecs) Factor {
	if fs.DPI <= 0 {
		return newPointsFactor(FactorResolution, 12, PointsResolution, "resolution unknown")
	}
	points, note := ScoreBands(fs.DPI, resolutionBands, Band{Score: 0, Note: "no usable resolution"})
	return newPointsFactor(FactorResolution, points, PointsResolution, note)
}

func colorModePoints(fs artwork.FileSpecs) Factor {
	switch fs.ColorMode {
	case artwork.ColorCMYK:
		return newPointsFactor(FactorColorMode, 20, PointsColorMode, "CMYK")
	case artwork.ColorGrayscale:
		return newPointsFactor(FactorColorMode, 15, PointsColorMode, "grayscale")
	case artwork.ColorRGB:
		return newPointsFactor(FactorColorMode, 10, PointsColorMode, "RGB needs conversion")
	case artwork.ColorUnknown, "":
		return newPointsFactor(FactorColorMode, 8, PointsColorMode, "colour mode unknown")
	default:
		return newPointsFactor(FactorColorMode, 5, PointsColorMode, fmt.Sprintf("%s is not a print colour mode", fs.ColorMode))
	}
}

func fileFormatPoints(fs artwork.FileSpecs) Factor {
	switch fs.Format {
	case artwork.FormatPDF, artwork.FormatAI:
		return newPointsFactor(FactorFileFormat, 15, PointsFileFormat, "print-native vector format")
	case artwork.FormatPSD, artwork.FormatSVG:
		return newPointsFactor(FactorFileFormat, 12, PointsFileFormat, "editable source format")
	case artwork.FormatPNG:
		return newPointsFactor(FactorFileFormat, 10, PointsFileFormat, "lossless raster")
	case artwork.FormatJPG:
		return newPointsFactor(FactorFileFormat, 6, PointsFileFormat, "lossy raster")
	default:
		return newPointsFactor(FactorFileFormat, 0, PointsFileFormat, "unsupported format")
	}
}

func bleedPoints(fs artwork.FileSpecs) Factor {
	switch {
	case fs.HasBleed && fs.HasSafeZone:
		return newPointsFactor(FactorBleedAndSafeZone, 15, PointsBleedAndSafeZone, "bleed and safe zone")
	case fs.HasBleed:
		return newPointsFactor(FactorBleedAndSafeZone, 10, PointsBleedAndSafeZone, "bleed only")
	case fs.HasSafeZone:
		return newPointsFactor(FactorBleedAndSafeZone, 5, PointsBleedAndSafeZone, "safe zone only")
	default:
		return newPointsFactor(FactorBleedAndSafeZone, 0, PointsBleedAndSafeZone, "no bleed or safe zone")
	}
}

// fontPoints penalises live fonts in raster formats, where text has been
// rasterised and may blur at print size.
func fontPoints(fs artwork.FileSpecs) Factor {
	switch {
	case !fs.HasFonts:
		return newPointsFactor(FactorFonts, 15, PointsFonts, "no live text")
	case fs.Format.IsVector():
		return newPointsFactor(FactorFonts, 12, PointsFonts, fmt.Sprintf("%d font(s) to embed or outline", fs.FontCount))
	default:
		return newPointsFactor(FactorFonts, 5, PointsFonts, "text rasterised in a bitmap format")
	}
}

func transparencyPoints(fs artwork.FileSpecs) Factor {
	if !fs.HasTransparency {
		return newPointsFactor(FactorTransparency, 10, PointsTransparency, "no transparency")
	}
	switch fs.Format {
	case artwork.FormatPNG:
		return newPointsFactor(FactorTransparency, 8, PointsTransparency, "PNG alpha")
	case artwork.FormatJPG:
		return newPointsFactor(FactorTransparency, 0, PointsTransparency, "JPG cannot hold transparency")
	default:
		return newPointsFactor(FactorTransparency, 6, PointsTransparency, "transparency should be flattened")
	}
}
