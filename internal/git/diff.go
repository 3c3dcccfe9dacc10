// Package git lists artwork manifests touched in the working tree, so a
// pre-commit hook can check only what changed.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/preflight/internal/manifest"
)

// StagedManifests returns absolute paths of manifests in the staging area.
// Returns an empty slice if rootPath is not in a git repository.
func StagedManifests(ctx context.Context, rootPath string) ([]string, error) {
	top, ok := topLevel(ctx, rootPath)
	if !ok {
		return []string{}, nil
	}

	output, err := run(ctx, rootPath, "diff", "--name-only", "--staged")
	if err != nil {
		return nil, err
	}
	return filterManifests(output, top), nil
}

// ChangedManifests returns absolute paths of manifests with uncommitted
// changes, staged or not. In a repository without commits every tracked
// manifest counts as changed.
func ChangedManifests(ctx context.Context, rootPath string) ([]string, error) {
	top, ok := topLevel(ctx, rootPath)
	if !ok {
		return []string{}, nil
	}

	if _, err := run(ctx, rootPath, "rev-parse", "--verify", "HEAD"); err != nil {
		output, err := run(ctx, rootPath, "ls-files", "--full-name")
		if err != nil {
			return nil, err
		}
		return filterManifests(output, top), nil
	}

	output, err := run(ctx, rootPath, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, err
	}
	return filterManifests(output, top), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(ctx context.Context, rootPath string) bool {
	_, ok := topLevel(ctx, rootPath)
	return ok
}

// topLevel returns the repository root; git reports paths relative to it.
func topLevel(ctx context.Context, rootPath string) (string, bool) {
	output, err := run(ctx, rootPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(output), true
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return string(output), nil
}

// filterManifests keeps existing manifest files from git's name-only output
// and returns them as absolute paths.
func filterManifests(gitOutput, topLevel string) []string {
	files := []string{}
	for _, line := range strings.Split(strings.TrimSpace(gitOutput), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !manifest.IsManifest(line) {
			continue
		}

		absPath := filepath.Join(topLevel, filepath.FromSlash(line))
		// git reports deletions too
		if _, err := os.Stat(absPath); err != nil {
			continue
		}
		files = append(files, absPath)
	}
	return files
}
