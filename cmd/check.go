package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/preflight/internal/baseline"
	"github.com/dotcommander/preflight/internal/batch"
	"github.com/dotcommander/preflight/internal/discovery"
	"github.com/dotcommander/preflight/internal/git"
	"github.com/dotcommander/preflight/internal/outputters"
	"github.com/dotcommander/preflight/internal/scoring"
)

// Exit status when the --fail-on threshold trips.
const exitThreshold = 2

var (
	useBaseline    bool
	createBaseline bool
	baselinePath   string
	stagedOnly     bool
	diffOnly       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files|dirs...]",
	Short: "Check artwork manifests for print readiness",
	Long: `Check validates every artwork manifest found in the given files or
directories (the project root when none are given) and reports a score,
grade and findings per file.

Exit status is 1 on errors and 2 when findings reach the --fail-on level.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheckCommand(cmd, args)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&useBaseline, "baseline", false, "Hide findings recorded in the baseline file")
	checkCmd.Flags().BoolVar(&createBaseline, "baseline-create", false, "Record current findings in the baseline file and exit 0")
	checkCmd.Flags().StringVar(&baselinePath, "baseline-path", "", "Baseline file (default from config, relative to the project root)")
	checkCmd.Flags().BoolVar(&stagedOnly, "staged", false, "Only check manifests staged in git")
	checkCmd.Flags().BoolVar(&diffOnly, "diff", false, "Only check manifests with uncommitted changes")
	checkCmd.MarkFlagsMutuallyExclusive("staged", "diff")
	rootCmd.AddCommand(checkCmd)
}

func runCheckCommand(cmd *cobra.Command, args []string) {
	summary, failOnLevel, err := runCheck(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		fail(err)
		return
	}
	if summary != nil && summary.Exceeds(failOnLevel) {
		exitFunc(exitThreshold)
	}
}

// checkRequest carries the resolved inputs of one check run.
type checkRequest struct {
	rt             *runtime
	args           []string
	useBaseline    bool
	createBaseline bool
	baselineFile   string
	staged         bool
	diff           bool
}

func runCheck(ctx context.Context, args []string, out, errOut io.Writer) (*batch.Summary, string, error) {
	rt, err := loadRuntime()
	if err != nil {
		return nil, "", err
	}

	file := baselinePath
	if file == "" {
		file = rt.cfg.Baseline.Path
	}
	summary, err := check(ctx, checkRequest{
		rt:             rt,
		args:           args,
		useBaseline:    useBaseline,
		createBaseline: createBaseline,
		baselineFile:   file,
		staged:         stagedOnly,
		diff:           diffOnly,
	}, out, errOut)
	if err != nil || createBaseline {
		// Creating a baseline accepts the current state.
		return nil, rt.cfg.FailOn, err
	}
	return summary, rt.cfg.FailOn, nil
}

// check discovers manifests, assesses them, writes the report and
// optionally records a new baseline.
func check(ctx context.Context, req checkRequest, out, errOut io.Writer) (*batch.Summary, error) {
	cfg := req.rt.cfg
	if ctx == nil {
		ctx = context.Background()
	}

	baselineFile := req.baselineFile
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(cfg.Root, baselineFile)
	}

	var b *baseline.Baseline
	if req.useBaseline && !req.createBaseline {
		if _, err := os.Stat(baselineFile); err == nil {
			b, err = baseline.LoadBaseline(baselineFile)
			if err != nil {
				if !cfg.Quiet {
					fmt.Fprintf(errOut, "Warning: Failed to load baseline: %v\n", err)
				}
				b = nil
			}
		} else if !cfg.Quiet {
			fmt.Fprintf(errOut, "Warning: baseline file %s not found\n", baselineFile)
		}
	}

	files, err := collectFiles(ctx, req)
	if err != nil {
		return nil, err
	}

	strategy, err := scoring.StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	runner := batch.NewRunner(batch.Options{
		Strategy:    strategy,
		ProductType: cfg.ProductType,
		Concurrency: cfg.Concurrency,
		Registry:    req.rt.registry,
		Baseline:    b,
		Logger:      req.rt.log,
	})
	summary, err := runner.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	factory := outputters.NewDefaultFormatterFactory(cfg, Version, out)
	if err := outputters.NewOutputterWithFactory(cfg, factory).Format(summary, cfg.Format); err != nil {
		return nil, fmt.Errorf("error formatting output: %w", err)
	}

	if req.createBaseline {
		nb := baseline.CreateBaseline(summary.Findings())
		if err := nb.SaveBaseline(baselineFile); err != nil {
			return nil, fmt.Errorf("failed to save baseline: %w", err)
		}
		if !cfg.Quiet {
			fmt.Fprintf(errOut, "\nBaseline created: %s (%d issues)\n", baselineFile, nb.Len())
		}
	}

	return summary, nil
}

// collectFiles expands the arguments, or the manifests git reports as changed
// when --staged or --diff is set.
func collectFiles(ctx context.Context, req checkRequest) ([]discovery.File, error) {
	cfg := req.rt.cfg
	args := req.args

	if req.staged || req.diff {
		var changed []string
		var err error
		if req.staged {
			changed, err = git.StagedManifests(ctx, cfg.Root)
		} else {
			changed, err = git.ChangedManifests(ctx, cfg.Root)
		}
		if err != nil {
			return nil, fmt.Errorf("error listing changed manifests: %w", err)
		}
		req.rt.log.Debug("changed manifests", "count", len(changed), "staged", req.staged)
		if len(changed) == 0 {
			return nil, nil
		}
		args = changed
	}

	files, err := discovery.Expand(args, cfg.Root, cfg.FollowSymlinks)
	if err != nil {
		return nil, fmt.Errorf("error discovering manifests: %w", err)
	}
	return files, nil
}
