package rules

import (
	"fmt"
	"strings"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// Dimension tolerance relative to the target size.
const DimensionTolerance = 0.10

// File size limits.
const (
	MaxFileSize  = 100 * artwork.MiB
	WarnFileSize = 50 * artwork.MiB
)

// CheckFormat reports a format outside the specification's allowed list.
func CheckFormat(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue {
	format := meta.EffectiveFormat()
	if spec.Allows(format) {
		return nil
	}

	name := string(format)
	if name == "" {
		name = "unknown"
	}
	return []types.Issue{types.NewIssue(types.RuleFormat, "unsupported-format", types.SeverityBlocking, "format",
		fmt.Sprintf("File format %q is not accepted for %s products", name, strings.ToLower(spec.Name)),
		"Export your artwork as one of: "+joinFormats(spec.AllowedFormats))}
}

// CheckResolution compares DPI against the specification's bounds.
func CheckResolution(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue {
	if !meta.HasDPI() {
		return []types.Issue{types.NewIssue(types.RuleResolution, "unknown-resolution", types.SeverityAdvisory, "dpi",
			"Resolution could not be determined",
			fmt.Sprintf("Make sure your artwork is at least %.0f DPI (%.0f DPI recommended)", spec.MinDPI, spec.RecommendedDPI))}
	}

	dpi := meta.Resolution()
	switch {
	case dpi < spec.MinDPI:
		return []types.Issue{types.NewIssue(types.RuleResolution, "low-resolution", types.SeverityBlocking, "dpi",
			fmt.Sprintf("Resolution of %.0f DPI is below the %.0f DPI minimum", dpi, spec.MinDPI),
			fmt.Sprintf("Recreate or re-export the artwork at %.0f DPI or higher; upscaling will not add detail", spec.RecommendedDPI))}
	case dpi < spec.RecommendedDPI:
		return []types.Issue{types.NewIssue(types.RuleResolution, "suboptimal-resolution", types.SeverityAdvisory, "dpi",
			fmt.Sprintf("Resolution of %.0f DPI is acceptable but below the recommended %.0f DPI", dpi, spec.RecommendedDPI),
			fmt.Sprintf("For the sharpest print, use %.0f DPI", spec.RecommendedDPI))}
	case dpi > spec.MaxDPI:
		return []types.Issue{types.NewIssue(types.RuleResolution, "excessive-resolution", types.SeverityInformational, "dpi",
			fmt.Sprintf("Resolution of %.0f DPI exceeds %.0f DPI and will not improve print quality", dpi, spec.MaxDPI),
			"Downsample to reduce file size and upload time")}
	}
	return nil
}

// CheckColorSpace enforces CMYK where required and flags RGB where CMYK is
// preferred.
func CheckColorSpace(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue {
	space := meta.EffectiveColorSpace()

	if spec.RequiresCMYK && space != artwork.ColorCMYK {
		return []types.Issue{types.NewIssue(types.RuleColorSpace, "wrong-color-space", types.SeverityBlocking, "colorSpace",
			fmt.Sprintf("%s products require CMYK artwork, got %s", spec.Name, space),
			"Convert the document to CMYK in your design application before exporting")}
	}

	switch {
	case space == artwork.ColorRGB && spec.PreferredColorSpace == artwork.ColorCMYK:
		return []types.Issue{types.NewIssue(types.RuleColorSpace, "rgb-color-space", types.SeverityAdvisory, "colorSpace",
			"Artwork is RGB; colors may shift when converted to CMYK for printing",
			"Convert to CMYK and check bright blues and greens before uploading")}
	case space == artwork.ColorUnknown:
		return []types.Issue{types.NewIssue(types.RuleColorSpace, "unknown-color-space", types.SeverityAdvisory, "colorSpace",
			"Color space could not be determined",
			fmt.Sprintf("Save the artwork in %s to avoid unexpected color shifts", strings.ToUpper(string(spec.PreferredColorSpace))))}
	}
	return nil
}

// CheckDimensions compares the artwork size, converted at 72 px/inch, with
// the product's target size.
func CheckDimensions(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue {
	if !meta.HasDimensions() {
		return []types.Issue{types.NewIssue(types.RuleDimensions, "unknown-dimensions", types.SeverityAdvisory, "dimensions",
			"Artwork dimensions could not be determined",
			fmt.Sprintf("Size your artwork to %s", formatSize(spec.WidthInches, spec.HeightInches)))}
	}

	w, h := meta.WidthInches(), meta.HeightInches()
	lower := 1 - DimensionTolerance
	upper := 1 + DimensionTolerance

	if w < spec.WidthInches*lower || h < spec.HeightInches*lower {
		return []types.Issue{types.NewIssue(types.RuleDimensions, "undersized-artwork", types.SeverityBlocking, "dimensions",
			fmt.Sprintf("Artwork is %s, smaller than the %s product", formatSize(w, h), formatSize(spec.WidthInches, spec.HeightInches)),
			"Resize the document to the product size and re-export")}
	}
	if w > spec.WidthInches*upper || h > spec.HeightInches*upper {
		return []types.Issue{types.NewIssue(types.RuleDimensions, "oversized-artwork", types.SeverityAdvisory, "dimensions",
			fmt.Sprintf("Artwork is %s, larger than the %s product and will be scaled down", formatSize(w, h), formatSize(spec.WidthInches, spec.HeightInches)),
			"Resize the document to the product size so scaling does not change your layout")}
	}
	return nil
}

// CheckBleed reports missing bleed.
func CheckBleed(meta artwork.FileMetadata, spec specs.PrintSpecification) []types.Issue {
	if meta.HasBleed {
		return nil
	}
	return []types.Issue{types.NewIssue(types.RuleBleed, "missing-bleed", types.SeverityAdvisory, "hasBleed",
		"No bleed area detected; edges may show a thin unprinted line after cutting",
		fmt.Sprintf("Extend the background %.3g\" past each trim edge", maxBleed(spec.Bleed)))}
}

// CheckTransparency flags alpha channels in formats that cannot carry them
// safely.
func CheckTransparency(meta artwork.FileMetadata, _ specs.PrintSpecification) []types.Issue {
	if !meta.HasAlpha {
		return nil
	}
	switch meta.EffectiveFormat() {
	case artwork.FormatJPG:
		return []types.Issue{types.NewIssue(types.RuleTransparency, "transparency-with-jpg", types.SeverityBlocking, "hasAlpha",
			"JPG files cannot contain transparency",
			"Export as PNG or PDF to keep transparent areas")}
	case artwork.FormatPDF:
		return []types.Issue{types.NewIssue(types.RuleTransparency, "transparency-in-pdf", types.SeverityAdvisory, "hasAlpha",
			"Transparent objects in the PDF may not flatten correctly",
			"Flatten transparency when exporting (PDF/X-1a)")}
	}
	return nil
}

// CheckFileSize enforces the hard and soft upload caps.
func CheckFileSize(meta artwork.FileMetadata, _ specs.PrintSpecification) []types.Issue {
	switch {
	case meta.FileSize > MaxFileSize:
		return []types.Issue{types.NewIssue(types.RuleFileSize, "file-too-large", types.SeverityBlocking, "fileSize",
			fmt.Sprintf("File is %s, over the %s limit", formatBytes(meta.FileSize), formatBytes(MaxFileSize)),
			"Compress images or reduce resolution to the recommended DPI")}
	case meta.FileSize > WarnFileSize:
		return []types.Issue{types.NewIssue(types.RuleFileSize, "large-file", types.SeverityAdvisory, "fileSize",
			fmt.Sprintf("File is %s; large files take longer to process", formatBytes(meta.FileSize)),
			"Consider compressing the file")}
	}
	return nil
}

func joinFormats(formats []artwork.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = strings.ToUpper(string(f))
	}
	return strings.Join(names, ", ")
}

func formatSize(w, h float64) string {
	return fmt.Sprintf("%.3g\"x%.3g\"", w, h)
}

func formatBytes(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/artwork.MiB)
}

func maxBleed(b specs.Bleed) float64 {
	m := b.Top
	for _, v := range []float64{b.Right, b.Bottom, b.Left} {
		if v > m {
			m = v
		}
	}
	if m == 0 {
		return 0.125
	}
	return m
}
