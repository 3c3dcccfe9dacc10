// Package manifest reads artwork manifests: YAML or JSON documents that carry
// the metadata already extracted from one uploaded file.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/cue"
)

// ErrInvalidManifest is wrapped by every schema violation.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is one decoded artwork manifest.
type Manifest struct {
	Path        string
	ProductType string
	Metadata    artwork.FileMetadata
	Raw         map[string]any
}

// SchemaError lists the schema violations in one manifest.
type SchemaError struct {
	Path   string
	Errors []cue.ValidationError
}

func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	name := e.Path
	if name == "" {
		name = "manifest"
	}
	return fmt.Sprintf("%s: %s: %s", name, ErrInvalidManifest, strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is match ErrInvalidManifest.
func (e *SchemaError) Unwrap() error { return ErrInvalidManifest }

type document struct {
	artwork.FileMetadata `yaml:",inline"`
	ProductType          string `yaml:"productType"`
}

// Parser decodes and validates manifests. A Parser is safe to reuse but not
// for concurrent use; the batch runner gives each worker its own.
type Parser struct {
	validator *cue.Validator
}

// NewParser returns a parser backed by the embedded CUE schemas.
func NewParser() *Parser {
	return &Parser{validator: cue.MustLoad()}
}

// ParseFile reads and parses the manifest at path.
func (p *Parser) ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return p.Parse(data, path)
}

// Parse decodes a manifest. JSON is accepted as a YAML subset. The filename
// defaults to the manifest's base name minus its .preflight suffix.
func (p *Parser) Parse(data []byte, path string) (*Manifest, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	if raw == nil {
		return nil, &SchemaError{Path: path, Errors: []cue.ValidationError{{Message: "manifest is empty"}}}
	}
	if _, ok := raw["filename"]; !ok && path != "" {
		raw["filename"] = DefaultFilename(path)
	}

	return p.FromMap(raw, path)
}

// FromMap validates and decodes an already-unmarshalled manifest.
func (p *Parser) FromMap(raw map[string]any, path string) (*Manifest, error) {
	errs, err := p.validator.ValidateMetadata(raw)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if len(errs) > 0 {
		return nil, &SchemaError{Path: path, Errors: errs}
	}

	// Re-encode the validated map so defaults applied above reach the
	// typed value.
	normalized, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error encoding manifest %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("error decoding manifest %s: %w", path, err)
	}

	meta := doc.FileMetadata
	if meta.Format != "" {
		meta.Format = artwork.ParseFormat(string(meta.Format))
	}
	if meta.ColorSpace != "" {
		meta.ColorSpace = artwork.ParseColorSpace(string(meta.ColorSpace))
	}

	return &Manifest{
		Path:        path,
		ProductType: strings.ToLower(strings.TrimSpace(doc.ProductType)),
		Metadata:    meta,
		Raw:         raw,
	}, nil
}

// DefaultFilename derives the artwork name from a manifest path:
// "art/logo.pdf.preflight.yaml" becomes "logo.pdf".
func DefaultFilename(path string) string {
	base := filepath.Base(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extensions are the recognised manifest suffixes.
var Extensions = []string{".preflight.yaml", ".preflight.yml", ".preflight.json"}

// IsManifest reports whether path has a manifest suffix.
func IsManifest(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
