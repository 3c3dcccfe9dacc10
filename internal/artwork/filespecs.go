package artwork

// FileSpecs is the discrete scoring model's view of an artwork file. It is
// derived from FileMetadata so both scoring models read the same input.
type FileSpecs struct {
	Format          Format     `json:"format"`
	DPI             float64    `json:"dpi"`
	ColorMode       ColorSpace `json:"colorMode"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	FileSize        int64      `json:"fileSize"`
	HasBleed        bool       `json:"hasBleed"`
	HasSafeZone     bool       `json:"hasSafeZone"`
	HasFonts        bool       `json:"hasFonts"`
	FontCount       int        `json:"fontCount"`
	HasTransparency bool       `json:"hasTransparency"`
}

// SpecsFromMetadata projects FileMetadata onto FileSpecs. A file counts as
// transparent when it carries an alpha channel or transparency flag.
func SpecsFromMetadata(m FileMetadata) FileSpecs {
	return FileSpecs{
		Format:          m.EffectiveFormat(),
		DPI:             m.Resolution(),
		ColorMode:       m.EffectiveColorSpace(),
		Width:           m.Width,
		Height:          m.Height,
		FileSize:        m.FileSize,
		HasBleed:        m.HasBleed,
		HasSafeZone:     m.HasSafeZone,
		HasFonts:        m.HasFonts(),
		FontCount:       len(m.Fonts),
		HasTransparency: m.HasAlpha || m.HasTransparency,
	}
}
