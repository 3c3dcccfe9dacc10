// Package outputters selects a report formatter from configuration.
package outputters

import (
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/config"
	"github.com/dotcommander/preflight/internal/output"
)

// Formatter renders a batch summary.
type Formatter = output.Formatter

// FormatterFactory creates formatters by name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters in the output package.
type DefaultFormatterFactory struct {
	config  *config.Config
	version string
	out     io.Writer // nil means stdout
}

// NewDefaultFormatterFactory creates a factory writing to out.
func NewDefaultFormatterFactory(cfg *config.Config, version string, out io.Writer) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{config: cfg, version: version, out: out}
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	cfg := f.config
	switch format {
	case "console":
		return output.NewConsoleFormatter(cfg.Quiet, cfg.Verbose, f.out), nil
	case "compact":
		return output.NewCompactFormatter(cfg.Quiet, cfg.Verbose, f.out), nil
	case "json":
		return output.NewJSONFormatter(true, cfg.Output, f.version, f.out), nil
	case "markdown":
		return output.NewMarkdownFormatter(cfg.Verbose, cfg.Output, cfg.Root, f.out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates an Outputter that writes to stdout.
func NewOutputter(cfg *config.Config, version string) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg, version, nil))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{config: cfg, factory: factory}
}

// Format renders summary in the named format.
func (o *Outputter) Format(summary *batch.Summary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(summary)
}
