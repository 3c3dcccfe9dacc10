package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/specs"
)

var specsCmd = &cobra.Command{
	Use:   "specs [product]",
	Short: "List print specifications",
	Long: `Specs lists the known product types with their target size and DPI range,
or prints the full specification of one product type.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := loadRuntime()
		if err != nil {
			fail(err)
			return
		}
		if err := runSpecs(rt, args, cmd.OutOrStdout()); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(specsCmd)
}

func runSpecs(rt *runtime, args []string, out io.Writer) error {
	if len(args) == 0 {
		return listSpecs(rt.registry, rt.cfg.Format == "json", out)
	}

	name := args[0]
	if !rt.registry.Has(name) {
		return fmt.Errorf("unknown product type %q: known types are %s", name, strings.Join(rt.registry.Names(), ", "))
	}
	spec := rt.registry.Get(name)
	if rt.cfg.Format == "json" {
		return writeJSON(out, spec)
	}
	printSpec(out, rt.registry.Resolve(name), spec)
	return nil
}

func listSpecs(registry *specs.Registry, asJSON bool, out io.Writer) error {
	names := registry.Names()
	if asJSON {
		all := make(map[string]specs.PrintSpecification, len(names))
		for _, name := range names {
			all[name] = registry.Get(name)
		}
		return writeJSON(out, all)
	}

	styles := newPrintStyles()
	fmt.Fprintln(out, styles.header.Render(fmt.Sprintf("  %-16s %-22s %-14s %s", "KEY", "NAME", "SIZE (in)", "DPI min/rec/max")))
	for _, name := range names {
		s := registry.Get(name)
		fmt.Fprintf(out, "  %-16s %-22s %-14s %s\n",
			name, s.Name,
			fmt.Sprintf("%gx%g", s.WidthInches, s.HeightInches),
			fmt.Sprintf("%g/%g/%g", s.MinDPI, s.RecommendedDPI, s.MaxDPI))
	}
	return nil
}

func printSpec(w io.Writer, key string, s specs.PrintSpecification) {
	styles := newPrintStyles()
	formats := make([]string, len(s.AllowedFormats))
	for i, f := range s.AllowedFormats {
		formats[i] = string(f)
	}

	fmt.Fprintf(w, "%s %s\n", styles.header.Render(s.Name), styles.dim.Render("("+key+")"))
	fmt.Fprintf(w, "  Size:          %g x %g in\n", s.WidthInches, s.HeightInches)
	fmt.Fprintf(w, "  Resolution:    min %g, recommended %g, max %g DPI\n", s.MinDPI, s.RecommendedDPI, s.MaxDPI)
	fmt.Fprintf(w, "  Bleed:         %g / %g / %g / %g in (top/right/bottom/left)\n",
		s.Bleed.Top, s.Bleed.Right, s.Bleed.Bottom, s.Bleed.Left)
	fmt.Fprintf(w, "  Formats:       %s\n", strings.Join(formats, ", "))
	fmt.Fprintf(w, "  Color space:   %s", s.PreferredColorSpace)
	if s.RequiresCMYK {
		fmt.Fprint(w, " (CMYK required)")
	}
	fmt.Fprintln(w)
}
