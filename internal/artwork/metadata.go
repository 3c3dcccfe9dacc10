// Package artwork defines the extracted file metadata that every preflight
// rule and scorer consumes. Values here are produced outside the engine (by
// whatever inspects the uploaded file) and are never mutated by it.
package artwork

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the artwork file format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatSVG Format = "svg"
	FormatAI  Format = "ai"
	FormatPSD Format = "psd"
)

// Formats lists every supported format.
var Formats = []Format{FormatPDF, FormatPNG, FormatJPG, FormatSVG, FormatAI, FormatPSD}

// ParseFormat normalises a format name or extension. "jpeg" maps to jpg.
// Unknown names are returned as-is so the format rule can report them.
func ParseFormat(s string) Format {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f == "jpeg" {
		return FormatJPG
	}
	return Format(f)
}

// Known reports whether the format belongs to the closed set.
func (f Format) Known() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// IsVector reports whether text in this format survives as outlines or fonts.
func (f Format) IsVector() bool {
	switch f {
	case FormatPDF, FormatAI, FormatSVG:
		return true
	}
	return false
}

// ColorSpace is the artwork colour model.
type ColorSpace string

const (
	ColorRGB       ColorSpace = "rgb"
	ColorCMYK      ColorSpace = "cmyk"
	ColorGrayscale ColorSpace = "grayscale"
	ColorLab       ColorSpace = "lab"
	ColorIndexed   ColorSpace = "indexed"
	ColorUnknown   ColorSpace = "unknown"
)

// ParseColorSpace normalises a colour space name. Empty or unrecognised
// input becomes ColorUnknown.
func ParseColorSpace(s string) ColorSpace {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "srgb":
		return ColorRGB
	case "cmyk":
		return ColorCMYK
	case "grayscale", "gray", "greyscale":
		return ColorGrayscale
	case "lab":
		return ColorLab
	case "indexed":
		return ColorIndexed
	default:
		return ColorUnknown
	}
}

// PixelsPerInch is the fixed conversion used for dimension checks. It is
// known to be coarse (true density depends on DPI) but scores depend on it.
const PixelsPerInch = 72.0

// Byte sizes used by file size rules.
const (
	MiB = 1024 * 1024
)

// FileMetadata describes one uploaded artwork file.
type FileMetadata struct {
	Filename        string     `json:"filename" yaml:"filename"`
	Format          Format     `json:"format" yaml:"format"`
	FileSize        int64      `json:"fileSize" yaml:"fileSize"`
	Width           int        `json:"width" yaml:"width"`
	Height          int        `json:"height" yaml:"height"`
	DPI             *float64   `json:"dpi,omitempty" yaml:"dpi,omitempty"`
	ColorSpace      ColorSpace `json:"colorSpace" yaml:"colorSpace"`
	HasAlpha        bool       `json:"hasAlpha" yaml:"hasAlpha"`
	HasBleed        bool       `json:"hasBleed" yaml:"hasBleed"`
	HasSafeZone     bool       `json:"hasSafeZone" yaml:"hasSafeZone"`
	Fonts           []string   `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	HasTransparency bool       `json:"hasTransparency" yaml:"hasTransparency"`
}

// EffectiveFormat returns Format, or the filename extension when Format is
// empty.
func (m FileMetadata) EffectiveFormat() Format {
	if m.Format != "" {
		return ParseFormat(string(m.Format))
	}
	return ParseFormat(filepath.Ext(m.Filename))
}

// EffectiveColorSpace treats an empty colour space as unknown.
func (m FileMetadata) EffectiveColorSpace() ColorSpace {
	if m.ColorSpace == "" {
		return ColorUnknown
	}
	return ParseColorSpace(string(m.ColorSpace))
}

// HasDPI reports whether the resolution is known.
func (m FileMetadata) HasDPI() bool {
	return m.DPI != nil && *m.DPI > 0
}

// Resolution returns the DPI, or 0 when unknown.
func (m FileMetadata) Resolution() float64 {
	if !m.HasDPI() {
		return 0
	}
	return *m.DPI
}

// HasDimensions reports whether both pixel dimensions are known.
func (m FileMetadata) HasDimensions() bool {
	return m.Width > 0 && m.Height > 0
}

// WidthInches converts pixel width using PixelsPerInch.
func (m FileMetadata) WidthInches() float64 {
	return float64(m.Width) / PixelsPerInch
}

// HeightInches converts pixel height using PixelsPerInch.
func (m FileMetadata) HeightInches() float64 {
	return float64(m.Height) / PixelsPerInch
}

// HasFonts reports whether the file embeds or references any fonts.
func (m FileMetadata) HasFonts() bool {
	return len(m.Fonts) > 0
}

// DPIValue is a convenience for building metadata literals.
func DPIValue(v float64) *float64 {
	return &v
}

// String returns a short description for logs and reports.
func (m FileMetadata) String() string {
	dpi := "unknown"
	if m.HasDPI() {
		dpi = fmt.Sprintf("%.0f", *m.DPI)
	}
	return fmt.Sprintf("%s (%s, %dx%d px, %s dpi, %s)",
		m.Filename, m.EffectiveFormat(), m.Width, m.Height, dpi, m.EffectiveColorSpace())
}
