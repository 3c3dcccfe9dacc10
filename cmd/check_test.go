package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/preflight/internal/baseline"
	"github.com/dotcommander/preflight/internal/config"
	"github.com/dotcommander/preflight/internal/output"
)

func stickerTree(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"stickers/a-logo.pdf.preflight.yaml":  cleanSticker,
		"stickers/b-photo.jpg.preflight.yaml": alphaJPEG,
	})
}

func TestCheck_JSONReport(t *testing.T) {
	root := stickerTree(t)
	rt := testRuntime(root, withFormat("json"))

	var out, errOut bytes.Buffer
	summary, err := check(context.Background(), checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.ReadyFiles)
	assert.Equal(t, 1, summary.TotalBlocking)
	assert.True(t, summary.Exceeds(config.FailOnBlocking))
	assert.False(t, summary.Exceeds(config.FailOnNone))

	var report output.JSONReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "preflight", report.Header.Tool)
	assert.Equal(t, Version, report.Header.Version)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "sticker", report.Results[0].ProductType)
	assert.Equal(t, 100, report.Results[0].Score)
	assert.Equal(t, 80, report.Results[1].Score)
	assert.Empty(t, errOut.String())
}

func TestCheck_ConsoleOutput(t *testing.T) {
	root := stickerTree(t)
	rt := testRuntime(root, func(c *config.Config) { c.Quiet = false })

	var out, errOut bytes.Buffer
	_, err := check(context.Background(), checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "b-photo.jpg.preflight.yaml")
	assert.Contains(t, out.String(), "1/2 ready")
}

func TestCheck_ExplicitFileArgs(t *testing.T) {
	root := stickerTree(t)
	rt := testRuntime(root, withFormat("json"))

	args := []string{filepath.Join(root, "stickers", "a-logo.pdf.preflight.yaml")}
	var out bytes.Buffer
	summary, err := check(context.Background(), checkRequest{rt: rt, args: args, baselineFile: rt.cfg.Baseline.Path}, &out, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalFiles)
	assert.Equal(t, 1, summary.ReadyFiles)
	assert.False(t, summary.Exceeds(config.FailOnAdvisory))
}

func TestCheck_ProductOverride(t *testing.T) {
	root := writeTree(t, map[string]string{"misc/logo.pdf.preflight.yaml": cleanSticker})
	rt := testRuntime(root, withFormat("json"), func(c *config.Config) { c.ProductType = "sticker" })

	summary, err := check(context.Background(), checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "sticker", summary.Results[0].ProductType)
	assert.True(t, summary.Results[0].Assessment.ReadyToPrint)
}

func TestCheck_UnreadableManifest(t *testing.T) {
	root := writeTree(t, map[string]string{"stickers/broken.preflight.yaml": missingSize})
	rt := testRuntime(root, withFormat("json"))

	summary, err := check(context.Background(), checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ErroredFiles)
	assert.True(t, summary.Exceeds(config.FailOnBlocking))
}

func TestCheck_MissingPath(t *testing.T) {
	rt := testRuntime(t.TempDir())
	_, err := check(context.Background(), checkRequest{
		rt:           rt,
		args:         []string{filepath.Join(rt.cfg.Root, "nope")},
		baselineFile: rt.cfg.Baseline.Path,
	}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error discovering manifests")
}

func TestCheck_InvalidFormat(t *testing.T) {
	rt := testRuntime(stickerTree(t), withFormat("xml"))
	_, err := check(context.Background(), checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestCheck_BaselineRoundTrip(t *testing.T) {
	root := stickerTree(t)
	rt := testRuntime(root, withFormat("json"), func(c *config.Config) { c.Quiet = false })

	var errOut bytes.Buffer
	_, err := check(context.Background(), checkRequest{
		rt:             rt,
		createBaseline: true,
		baselineFile:   rt.cfg.Baseline.Path,
	}, &bytes.Buffer{}, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Baseline created")

	path := filepath.Join(root, config.DefaultBaselinePath)
	b, err := baseline.LoadBaseline(path)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	summary, err := check(context.Background(), checkRequest{
		rt:           rt,
		useBaseline:  true,
		baselineFile: rt.cfg.Baseline.Path,
	}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.BaselineIgnored)
	assert.Equal(t, 0, summary.TotalBlocking)
	assert.False(t, summary.Exceeds(config.FailOnBlocking))
}

func TestCheck_MissingBaselineWarns(t *testing.T) {
	rt := testRuntime(stickerTree(t), withFormat("json"), func(c *config.Config) { c.Quiet = false })

	var errOut bytes.Buffer
	summary, err := check(context.Background(), checkRequest{
		rt:           rt,
		useBaseline:  true,
		baselineFile: "does-not-exist.json",
	}, &bytes.Buffer{}, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Warning: baseline file")
	assert.Equal(t, 1, summary.TotalBlocking)
}

func TestCheck_CorruptBaselineWarns(t *testing.T) {
	root := stickerTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "waivers.json"), []byte("{not json"), 0o644))
	rt := testRuntime(root, withFormat("json"), func(c *config.Config) { c.Quiet = false })

	var errOut bytes.Buffer
	_, err := check(context.Background(), checkRequest{
		rt:           rt,
		useBaseline:  true,
		baselineFile: "waivers.json",
	}, &bytes.Buffer{}, &errOut)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Warning: Failed to load baseline")
}

func TestCheck_Cancelled(t *testing.T) {
	rt := testRuntime(stickerTree(t), withFormat("json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := check(ctx, checkRequest{rt: rt, baselineFile: rt.cfg.Baseline.Path}, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck_StagedOutsideGit(t *testing.T) {
	root := stickerTree(t)
	rt := testRuntime(root, withFormat("json"))

	summary, err := check(context.Background(), checkRequest{rt: rt, staged: true, baselineFile: rt.cfg.Baseline.Path}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	// Outside a repository nothing counts as changed.
	if summary.TotalFiles != 0 {
		t.Skip("temp dir is inside a git repository")
	}
	assert.False(t, summary.Exceeds(config.FailOnAdvisory))
}
