package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/preflight/internal/config"
	"github.com/dotcommander/preflight/internal/project"
	"github.com/dotcommander/preflight/internal/specs"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var (
	rootPath     string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	failOn       string
	strategyName string
	productType  string
	specsFile    string
	concurrency  int
)

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Preflight - print-readiness checks for customer artwork",
	Long: `Preflight validates artwork metadata against the print specification of a
product (sticker, label or custom) and scores how ready the file is for
production.

Artwork is described by manifests (*.preflight.yaml, *.preflight.yml or
*.preflight.json) that carry the metadata extracted at upload time.

By default, preflight checks every manifest below the project root.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		runCheckCommand(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootPath, "root", "r", "", "Project root directory (auto-detected if not specified)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|compact|json|markdown)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file for reports (requires --format)")
	flags.StringVar(&failOn, "fail-on", config.FailOnBlocking, "Fail on specified level (blocking|advisory|none)")
	flags.StringVarP(&strategyName, "strategy", "s", "deduction", "Scoring strategy (deduction|weighted|print-ready)")
	flags.StringVarP(&productType, "product", "p", "", "Product type for every manifest (overrides manifest and path)")
	flags.StringVar(&specsFile, "specs", "", "YAML or JSON file with additional print specifications")
	flags.IntVarP(&concurrency, "concurrency", "j", 10, "Number of manifests checked in parallel")

	_ = viper.BindPFlag("root", flags.Lookup("root"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("failOn", flags.Lookup("fail-on"))
	_ = viper.BindPFlag("strategy", flags.Lookup("strategy"))
	_ = viper.BindPFlag("productType", flags.Lookup("product"))
	_ = viper.BindPFlag("specsFile", flags.Lookup("specs"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
}

// runtime is the state every subcommand starts from.
type runtime struct {
	cfg      *config.Config
	registry *specs.Registry
	log      *slog.Logger
}

// loadRuntime resolves the project root, loads configuration and the
// specification registry, and builds the diagnostic logger.
func loadRuntime() (*runtime, error) {
	root := rootPath
	if root == "" {
		detected, err := project.FindProjectRoot(".")
		if err != nil {
			return nil, fmt.Errorf("error detecting project root: %w", err)
		}
		root = detected
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	registry, err := loadRegistry(cfg.SpecsFile)
	if err != nil {
		return nil, err
	}

	log := newLogger(os.Stderr, logLevel(cfg.Quiet, cfg.Verbose, slog.LevelWarn))
	if info, err := project.Detect(cfg.Root); err == nil {
		log.Debug("project detected", "root", info.Root, "config", info.ConfigFile,
			"baseline", info.HasBaseline, "git", info.HasGit)
	}

	return &runtime{cfg: cfg, registry: registry, log: log}, nil
}

// loadRegistry returns the built-in specifications, merged with path when set.
func loadRegistry(path string) (*specs.Registry, error) {
	if path == "" {
		return specs.Default(), nil
	}
	registry, err := specs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading specifications: %w", err)
	}
	return registry, nil
}

// logLevel maps the output flags onto a log level. base applies when neither
// --quiet nor --verbose is set.
func logLevel(quiet, verbose bool, base slog.Level) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return base
	}
}

// newLogger builds the stderr diagnostic logger.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// fail prints err and exits with status 1.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exitFunc(1)
}
