package artwork

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"pdf", FormatPDF},
		{"PDF", FormatPDF},
		{"jpeg", FormatJPG},
		{"JPEG", FormatJPG},
		{".png", FormatPNG},
		{" svg ", FormatSVG},
		{"gif", Format("gif")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat_Known(t *testing.T) {
	for _, f := range Formats {
		if !f.Known() {
			t.Errorf("%q should be known", f)
		}
	}
	if Format("gif").Known() {
		t.Error("gif should not be known")
	}
}

func TestParseColorSpace(t *testing.T) {
	tests := []struct {
		input string
		want  ColorSpace
	}{
		{"rgb", ColorRGB},
		{"srgb", ColorRGB},
		{"sRGB", ColorRGB},
		{"CMYK", ColorCMYK},
		{"gray", ColorGrayscale},
		{"greyscale", ColorGrayscale},
		{"lab", ColorLab},
		{"indexed", ColorIndexed},
		{"", ColorUnknown},
		{"hsv", ColorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseColorSpace(tt.input); got != tt.want {
				t.Errorf("ParseColorSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEffectiveFormat(t *testing.T) {
	tests := []struct {
		name string
		meta FileMetadata
		want Format
	}{
		{"explicit format wins", FileMetadata{Filename: "art.png", Format: "pdf"}, FormatPDF},
		{"jpeg normalised", FileMetadata{Filename: "photo.jpeg", Format: "jpeg"}, FormatJPG},
		{"extension fallback", FileMetadata{Filename: "LOGO.PNG"}, FormatPNG},
		{"jpeg extension fallback", FileMetadata{Filename: "photo.JPEG"}, FormatJPG},
		{"no format or extension", FileMetadata{Filename: "artwork"}, Format("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.EffectiveFormat(); got != tt.want {
				t.Errorf("EffectiveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveColorSpace(t *testing.T) {
	if got := (FileMetadata{}).EffectiveColorSpace(); got != ColorUnknown {
		t.Errorf("empty colour space = %q, want unknown", got)
	}
	if got := (FileMetadata{ColorSpace: "sRGB"}).EffectiveColorSpace(); got != ColorRGB {
		t.Errorf("sRGB = %q, want rgb", got)
	}
}

func TestResolutionAndDimensions(t *testing.T) {
	var m FileMetadata
	if m.HasDPI() || m.Resolution() != 0 {
		t.Error("nil DPI should be unknown")
	}
	m.DPI = DPIValue(0)
	if m.HasDPI() {
		t.Error("zero DPI should be unknown")
	}
	m.DPI = DPIValue(300)
	if !m.HasDPI() || m.Resolution() != 300 {
		t.Errorf("Resolution() = %v, want 300", m.Resolution())
	}

	if m.HasDimensions() {
		t.Error("zero dimensions should be unknown")
	}
	m.Width, m.Height = 216, 144
	if !m.HasDimensions() {
		t.Error("HasDimensions() = false, want true")
	}
	if m.WidthInches() != 3 || m.HeightInches() != 2 {
		t.Errorf("inches = %vx%v, want 3x2", m.WidthInches(), m.HeightInches())
	}
}

func TestSpecsFromMetadata(t *testing.T) {
	base := FileMetadata{
		Filename:    "logo.jpeg",
		FileSize:    2048,
		Width:       216,
		Height:      216,
		DPI:         DPIValue(300),
		ColorSpace:  "srgb",
		HasBleed:    true,
		HasSafeZone: true,
		Fonts:       []string{"Inter", "Roboto"},
	}

	fs := SpecsFromMetadata(base)
	if fs.Format != FormatJPG || fs.ColorMode != ColorRGB || fs.DPI != 300 {
		t.Errorf("projection = %+v", fs)
	}
	if !fs.HasFonts || fs.FontCount != 2 {
		t.Errorf("fonts = %v/%d, want true/2", fs.HasFonts, fs.FontCount)
	}
	if fs.Width != 216 || fs.Height != 216 || fs.FileSize != 2048 || !fs.HasBleed || !fs.HasSafeZone {
		t.Errorf("copied fields = %+v", fs)
	}

	tests := []struct {
		name         string
		alpha, flag  bool
		transparency bool
	}{
		{"opaque", false, false, false},
		{"alpha only", true, false, true},
		{"flag only", false, true, true},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			m.HasAlpha = tt.alpha
			m.HasTransparency = tt.flag
			if got := SpecsFromMetadata(m).HasTransparency; got != tt.transparency {
				t.Errorf("HasTransparency = %v, want %v", got, tt.transparency)
			}
		})
	}
}

func TestSpecsFromMetadata_UnknownDPI(t *testing.T) {
	fs := SpecsFromMetadata(FileMetadata{Filename: "art.pdf"})
	if fs.DPI != 0 || fs.ColorMode != ColorUnknown || fs.HasFonts {
		t.Errorf("projection = %+v", fs)
	}
}
