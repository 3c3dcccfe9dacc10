// Package batch assesses many artwork manifests concurrently and aggregates
// the results into a run summary.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/baseline"
	"github.com/dotcommander/preflight/internal/config"
	"github.com/dotcommander/preflight/internal/discovery"
	"github.com/dotcommander/preflight/internal/feedback"
	"github.com/dotcommander/preflight/internal/manifest"
	"github.com/dotcommander/preflight/internal/scoring"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

// DefaultConcurrency bounds the worker pool when Options leaves it unset.
const DefaultConcurrency = 10

// Options configures a Runner.
type Options struct {
	Strategy    scoring.Scorer
	ProductType string // overrides manifest and path detection when set
	Concurrency int
	Registry    *specs.Registry
	Baseline    *baseline.Baseline
	Logger      *slog.Logger
}

// FileResult is the assessment of one manifest.
type FileResult struct {
	Path        string                      `json:"path"`
	RelPath     string                      `json:"relPath"`
	ProductType string                      `json:"productType"`
	Metadata    artwork.FileMetadata        `json:"metadata"`
	Assessment  scoring.Assessment          `json:"assessment"`
	Feedback    feedback.PrintReadyFeedback `json:"feedback"`
	Ignored     int                         `json:"baselineIgnored,omitempty"`
	Err         error                       `json:"-"`
	Error       string                      `json:"error,omitempty"`
}

// Failed reports whether the manifest could not be assessed.
func (r FileResult) Failed() bool { return r.Err != nil }

// Blocking returns the blocking issues left after waivers.
func (r FileResult) Blocking() int { return r.Assessment.BlockingCount() }

// Advisory returns the advisory issues left after waivers.
func (r FileResult) Advisory() int { return r.Assessment.AdvisoryCount() }

// Summary aggregates a batch run.
type Summary struct {
	Strategy        string        `json:"strategy"`
	StartTime       time.Time     `json:"startTime"`
	Duration        time.Duration `json:"duration"`
	TotalFiles      int           `json:"totalFiles"`
	ReadyFiles      int           `json:"readyFiles"`
	NotReadyFiles   int           `json:"notReadyFiles"`
	ErroredFiles    int           `json:"erroredFiles"`
	TotalBlocking   int           `json:"totalBlocking"`
	TotalAdvisory   int           `json:"totalAdvisory"`
	AverageScore    float64       `json:"averageScore"`
	BaselineIgnored int           `json:"baselineIgnored"`
	Results         []FileResult  `json:"results"`
}

// Findings flattens every issue for baseline creation.
func (s *Summary) Findings() []baseline.Finding {
	var out []baseline.Finding
	for _, r := range s.Results {
		for _, issue := range r.Assessment.Issues {
			out = append(out, baseline.Finding{File: r.RelPath, Issue: issue})
		}
	}
	return out
}

// Exceeds reports whether the run trips the fail-on threshold. Manifests that
// could not be read count against every threshold except none.
func (s *Summary) Exceeds(failOn string) bool {
	switch failOn {
	case config.FailOnNone:
		return false
	case config.FailOnAdvisory:
		return s.ErroredFiles > 0 || s.TotalBlocking > 0 || s.TotalAdvisory > 0
	default:
		return s.ErroredFiles > 0 || s.TotalBlocking > 0
	}
}

// Runner assesses manifests with one scoring strategy.
type Runner struct {
	opts Options
	log  *slog.Logger
}

// NewRunner fills in defaults for unset options.
func NewRunner(opts Options) *Runner {
	if opts.Strategy == nil {
		opts.Strategy = scoring.NewDeductionStrategy()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Registry == nil {
		opts.Registry = specs.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{opts: opts, log: log}
}

// Run assesses files with at most Concurrency workers. Results keep the
// input order. A manifest that fails to parse is recorded on its FileResult;
// only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, files []discovery.File) (*Summary, error) {
	start := time.Now()
	results := make([]FileResult, len(files))

	workers := min(r.opts.Concurrency, max(len(files), 1))
	parsers := make(chan *manifest.Parser, workers)
	for range workers {
		parsers <- manifest.NewParser()
	}

	r.log.Info("batch started", "files", len(files), "strategy", r.opts.Strategy.Name(), "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := <-parsers
			defer func() { parsers <- p }()
			results[i] = r.assessFile(p, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	summary := summarize(r.opts.Strategy.Name(), results)
	summary.StartTime = start
	summary.Duration = time.Since(start)

	r.log.Info("batch finished",
		"files", summary.TotalFiles,
		"ready", summary.ReadyFiles,
		"errored", summary.ErroredFiles,
		"baseline_ignored", summary.BaselineIgnored,
		"duration", summary.Duration)

	return summary, nil
}

func (r *Runner) assessFile(p *manifest.Parser, f discovery.File) FileResult {
	rel := f.RelPath
	if rel == "" {
		rel = f.Path
	}

	m, err := p.ParseFile(f.Path)
	if err != nil {
		r.log.Warn("manifest rejected", "path", rel, "error", err)
		return FileResult{Path: f.Path, RelPath: rel, Err: err, Error: err.Error()}
	}

	productType := r.ProductType(m.ProductType, f.ProductType)
	result := r.Assess(m.Metadata, productType)
	result.Path = f.Path
	result.RelPath = rel

	if r.opts.Baseline != nil {
		kept, ignored := r.opts.Baseline.Filter(rel, result.Assessment.Issues)
		if ignored > 0 {
			result.Assessment.Issues = kept
			result.Feedback = feedback.FromAssessment(result.Assessment)
			result.Ignored = ignored
		}
	}

	r.log.Debug("manifest assessed",
		"path", rel,
		"product", productType,
		"score", result.Assessment.Score,
		"blocking", result.Blocking(),
		"advisory", result.Advisory())

	return result
}

// ProductType picks the product key: the runner override, then the
// manifest's productType, then the path-derived type, then custom.
func (r *Runner) ProductType(fromManifest, fromPath string) string {
	for _, candidate := range []string{r.opts.ProductType, fromManifest, fromPath} {
		if candidate != "" {
			return r.opts.Registry.Resolve(candidate)
		}
	}
	return types.ProductCustom
}

// Assess scores one metadata value with the runner's strategy.
func (r *Runner) Assess(meta artwork.FileMetadata, productType string) FileResult {
	a := r.opts.Strategy.Assess(meta, r.opts.Registry.Get(productType))
	return FileResult{
		Path:        meta.Filename,
		RelPath:     meta.Filename,
		ProductType: r.opts.Registry.Resolve(productType),
		Metadata:    meta,
		Assessment:  a,
		Feedback:    feedback.FromAssessment(a),
	}
}

func summarize(strategy string, results []FileResult) *Summary {
	s := &Summary{Strategy: strategy, TotalFiles: len(results), Results: results}
	total := 0
	assessed := 0
	for _, r := range results {
		if r.Failed() {
			s.ErroredFiles++
			continue
		}
		assessed++
		total += r.Assessment.Score
		s.TotalBlocking += r.Blocking()
		s.TotalAdvisory += r.Advisory()
		s.BaselineIgnored += r.Ignored
		if r.Assessment.ReadyToPrint {
			s.ReadyFiles++
		} else {
			s.NotReadyFiles++
		}
	}
	if assessed > 0 {
		s.AverageScore = float64(total) / float64(assessed)
	}
	return s
}
