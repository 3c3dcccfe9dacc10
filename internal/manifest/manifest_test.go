package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/preflight/internal/artwork"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		path        string
		wantMeta    artwork.FileMetadata
		wantProduct string
		wantErr     bool
		wantInvalid bool
	}{
		{
			name: "yaml_full",
			input: `filename: logo.pdf
format: PDF
fileSize: 1048576
width: 216
height: 216
dpi: 300
colorSpace: CMYK
hasBleed: true
fonts: [Inter]
productType: Sticker
`,
			path: "logo.pdf.preflight.yaml",
			wantMeta: artwork.FileMetadata{
				Filename:   "logo.pdf",
				Format:     artwork.FormatPDF,
				FileSize:   1048576,
				Width:      216,
				Height:     216,
				DPI:        artwork.DPIValue(300),
				ColorSpace: artwork.ColorCMYK,
				HasBleed:   true,
				Fonts:      []string{"Inter"},
			},
			wantProduct: "sticker",
		},
		{
			name:  "json_with_null_dpi",
			input: `{"filename": "photo.jpeg", "format": "jpeg", "fileSize": 10, "dpi": null, "hasAlpha": true}`,
			path:  "photo.preflight.json",
			wantMeta: artwork.FileMetadata{
				Filename: "photo.jpeg",
				Format:   artwork.FormatJPG,
				FileSize: 10,
				HasAlpha: true,
			},
		},
		{
			name:  "filename_defaults_from_path",
			input: "fileSize: 5\n",
			path:  "art/banner.png.preflight.yml",
			wantMeta: artwork.FileMetadata{
				Filename: "banner.png",
				FileSize: 5,
			},
		},
		{
			name:        "negative_size",
			input:       "filename: a.png\nfileSize: -3\n",
			path:        "a.preflight.yaml",
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:        "wrong_type",
			input:       "filename: a.png\nfileSize: 3\nhasBleed: sometimes\n",
			path:        "a.preflight.yaml",
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:        "empty",
			input:       "",
			path:        "a.preflight.yaml",
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:    "malformed_yaml",
			input:   "filename: [unterminated\n",
			path:    "a.preflight.yaml",
			wantErr: true,
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := p.Parse([]byte(tt.input), tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrInvalidManifest), "errors.Is(ErrInvalidManifest) for %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMeta, m.Metadata)
			assert.Equal(t, tt.wantProduct, m.ProductType)
			assert.Equal(t, tt.path, m.Path)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.pdf.preflight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fileSize: 2048\nformat: pdf\n"), 0o644))

	m, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "card.pdf", m.Metadata.Filename)
	assert.Equal(t, artwork.FormatPDF, m.Metadata.Format)

	_, err = NewParser().ParseFile(filepath.Join(dir, "missing.preflight.yaml"))
	assert.Error(t, err)
}

func TestSchemaError(t *testing.T) {
	_, err := NewParser().Parse([]byte("fileSize: -1\n"), "x.png.preflight.yaml")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "x.png.preflight.yaml", schemaErr.Path)
	assert.NotEmpty(t, schemaErr.Errors)
	assert.Contains(t, err.Error(), "fileSize")
}

func TestDefaultFilename(t *testing.T) {
	tests := map[string]string{
		"logo.pdf.preflight.yaml":     "logo.pdf",
		"dir/Logo.PNG.Preflight.JSON": "Logo.PNG",
		"plain.yaml":                  "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, DefaultFilename(in), in)
	}
}

func TestIsManifest(t *testing.T) {
	assert.True(t, IsManifest("a/b.preflight.yaml"))
	assert.True(t, IsManifest("B.PREFLIGHT.JSON"))
	assert.False(t, IsManifest("b.yaml"))
	assert.False(t, IsManifest("b.pdf"))
}
