package cue

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema names, matching the embedded file names.
const (
	SchemaMetadata      = "metadata"
	SchemaSpecification = "specification"
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// MustLoad returns a validator with the embedded schemas loaded. The schemas
// ship with the binary, so a failure here is a build defect.
func MustLoad() *Validator {
	v := NewValidator()
	if err := v.LoadSchemas(); err != nil {
		panic(err)
	}
	return v
}

// LoadSchemas compiles every embedded .cue schema. All schemas share one
// package, so they are compiled together to let definitions reference each
// other.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	var sources []string
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}
		sources = append(sources, stripPackageClause(string(content)))
		names = append(names, strings.TrimSuffix(entry.Name(), ".cue"))
	}

	if len(sources) == 0 {
		return fmt.Errorf("no CUE schemas embedded")
	}

	inst := v.ctx.CompileString("package schemas\n"+strings.Join(sources, "\n"), cue.Filename("schemas.cue"))
	if err := inst.Err(); err != nil {
		return fmt.Errorf("compiling schemas: %w", err)
	}

	for _, name := range names {
		v.schemas[name] = inst
	}
	return nil
}

// ValidateMetadata validates a decoded artwork manifest against #Metadata.
func (v *Validator) ValidateMetadata(data map[string]any) ([]ValidationError, error) {
	return v.validate(SchemaMetadata, data)
}

// ValidateSpecification validates one print specification entry against
// #Specification.
func (v *Validator) ValidateSpecification(data map[string]any) ([]ValidationError, error) {
	return v.validate(SchemaSpecification, data)
}

func (v *Validator) validate(schemaType string, data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas[schemaType]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", schemaType)
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	// metadata -> #Metadata
	defPath := cue.ParsePath("#" + strings.ToUpper(schemaType[:1]) + schemaType[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema definition %s not found", defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrors(err), nil
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(err), nil
	}
	return nil, nil
}

// extractErrors flattens a CUE error into one ValidationError per failing
// path, sorted for stable output.
func extractErrors(err error) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		key := field + "|" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: fmt.Sprintf("schema validation failed: %v", err)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].Message < out[j].Message
	})
	return out
}

func stripPackageClause(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "package ") {
			lines[i] = ""
			break
		}
	}
	return strings.Join(lines, "\n")
}
