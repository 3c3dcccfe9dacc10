// Package specs holds the print specification for each product type.
//
// The built-in table is embedded and parsed once; a Registry is immutable
// after construction and lookups never fail, falling back to "custom".
package specs

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/cue"
	"github.com/dotcommander/preflight/internal/types"
)

//go:embed specs.yaml
var builtinTable []byte

// Bleed is the per-edge bleed requirement in inches.
type Bleed struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// PrintSpecification is the print requirement for one product type.
type PrintSpecification struct {
	Name                string             `json:"name" yaml:"name"`
	WidthInches         float64            `json:"widthInches" yaml:"widthInches"`
	HeightInches        float64            `json:"heightInches" yaml:"heightInches"`
	MinDPI              float64            `json:"minDPI" yaml:"minDPI"`
	RecommendedDPI      float64            `json:"recommendedDPI" yaml:"recommendedDPI"`
	MaxDPI              float64            `json:"maxDPI" yaml:"maxDPI"`
	Bleed               Bleed              `json:"bleed" yaml:"bleed"`
	AllowedFormats      []artwork.Format   `json:"allowedFormats" yaml:"allowedFormats"`
	PreferredColorSpace artwork.ColorSpace `json:"preferredColorSpace" yaml:"preferredColorSpace"`
	RequiresCMYK        bool               `json:"requiresCMYK" yaml:"requiresCMYK"`
}

// Allows reports whether the format is in the allowed list.
func (s PrintSpecification) Allows(f artwork.Format) bool {
	return slices.Contains(s.AllowedFormats, f)
}

// Validate checks the DPI ordering invariant.
func (s PrintSpecification) Validate() error {
	if s.MinDPI <= 0 {
		return fmt.Errorf("minDPI must be positive, got %v", s.MinDPI)
	}
	if s.MinDPI > s.RecommendedDPI || s.RecommendedDPI > s.MaxDPI {
		return fmt.Errorf("dpi bounds out of order: min %v, recommended %v, max %v",
			s.MinDPI, s.RecommendedDPI, s.MaxDPI)
	}
	if s.WidthInches <= 0 || s.HeightInches <= 0 {
		return fmt.Errorf("target size must be positive, got %vx%v", s.WidthInches, s.HeightInches)
	}
	return nil
}

func (s PrintSpecification) clone() PrintSpecification {
	s.AllowedFormats = slices.Clone(s.AllowedFormats)
	return s
}

// Registry is an immutable set of specifications keyed by product type.
type Registry struct {
	entries map[string]PrintSpecification
}

var defaultRegistry = mustParseBuiltin()

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// Get looks up a product type in the built-in registry.
func Get(productType string) PrintSpecification {
	return defaultRegistry.Get(productType)
}

// Get returns the specification for productType, or the custom
// specification when the key is unknown.
func (r *Registry) Get(productType string) PrintSpecification {
	key := normalizeKey(productType)
	if spec, ok := r.entries[key]; ok {
		return spec.clone()
	}
	return r.entries[types.ProductCustom].clone()
}

// Has reports whether productType has its own entry.
func (r *Registry) Has(productType string) bool {
	_, ok := r.entries[normalizeKey(productType)]
	return ok
}

// Resolve returns the key Get would use for productType.
func (r *Registry) Resolve(productType string) string {
	if r.Has(productType) {
		return normalizeKey(productType)
	}
	return types.ProductCustom
}

// Names returns the product types in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a YAML or JSON specification file and merges its entries over
// the built-in table. Entries replace built-ins of the same key whole.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification file: %w", err)
	}
	overrides, err := parse(data, cue.MustLoad())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	merged := make(map[string]PrintSpecification, len(defaultRegistry.entries)+len(overrides))
	for k, v := range defaultRegistry.entries {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return &Registry{entries: merged}, nil
}

func mustParseBuiltin() *Registry {
	entries, err := parse(builtinTable, cue.MustLoad())
	if err != nil {
		panic(fmt.Sprintf("built-in print specifications are invalid: %v", err))
	}
	if _, ok := entries[types.ProductCustom]; !ok {
		panic("built-in print specifications must define " + types.ProductCustom)
	}
	return &Registry{entries: entries}
}

// parse decodes a table, schema-checks every entry and enforces the DPI
// invariant.
func parse(data []byte, validator *cue.Validator) (map[string]PrintSpecification, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing specification table: %w", err)
	}
	var decoded map[string]PrintSpecification
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("error parsing specification table: %w", err)
	}

	entries := make(map[string]PrintSpecification, len(decoded))
	for key, spec := range decoded {
		errs, err := validator.ValidateSpecification(raw[key])
		if err != nil {
			return nil, fmt.Errorf("specification %q: %w", key, err)
		}
		if len(errs) > 0 {
			return nil, fmt.Errorf("specification %q: %s", key, errs[0].Error())
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("specification %q: %w", key, err)
		}
		for i, f := range spec.AllowedFormats {
			spec.AllowedFormats[i] = artwork.ParseFormat(string(f))
		}
		spec.PreferredColorSpace = artwork.ParseColorSpace(string(spec.PreferredColorSpace))
		if spec.Name == "" {
			spec.Name = key
		}
		entries[normalizeKey(key)] = spec
	}
	return entries, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
