package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/preflight/internal/manifest"
	"github.com/dotcommander/preflight/internal/types"
)

// ManifestPattern matches every manifest below the root.
const ManifestPattern = "**/*.{preflight.yaml,preflight.yml,preflight.json}"

// ProductPattern maps a glob pattern to a product type.
// Patterns are matched in order; first match wins.
type ProductPattern struct {
	Pattern     string
	ProductType string
}

// productPatterns infer the product from the directory a manifest lives in.
var productPatterns = []ProductPattern{
	{"**/stickers/**", types.ProductSticker},
	{"**/sticker/**", types.ProductSticker},
	{"**/labels/**", types.ProductLabel},
	{"**/label/**", types.ProductLabel},
	{"**/custom/**", types.ProductCustom},
}

// DetectProductType infers the product type from a manifest path relative to
// rootPath. It returns "" when no directory names a product.
//
// Example:
//
//	DetectProductType("/shop/orders/stickers/logo.pdf.preflight.yaml", "/shop")
//	// "sticker"
func DetectProductType(absPath, rootPath string) string {
	relPath, err := filepath.Rel(rootPath, absPath)
	if err != nil {
		return ""
	}
	relPath = strings.ToLower(filepath.ToSlash(relPath))
	if strings.HasPrefix(relPath, "..") {
		return ""
	}
	for _, pp := range productPatterns {
		// Prefix "x/" so a top-level directory also matches **/dir/**.
		matched, err := doublestar.Match(pp.Pattern, "x/"+relPath)
		if err != nil {
			continue
		}
		if matched {
			return pp.ProductType
		}
	}
	return ""
}

// ValidateFilePath checks that path is a readable, non-empty text manifest
// and returns its absolute path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	// Artwork itself is binary; only its manifest is accepted here.
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary artwork, not a manifest: %s", absPath)
	}

	return absPath, nil
}

// File is a discovered manifest.
type File struct {
	Path        string
	RelPath     string
	Size        int64
	ProductType string // inferred from the path; "" if none
}

// ManifestDiscovery finds manifests below a root directory.
type ManifestDiscovery struct {
	rootPath       string
	followSymlinks bool
}

// NewManifestDiscovery creates a new ManifestDiscovery instance
func NewManifestDiscovery(rootPath string, followSymlinks bool) *ManifestDiscovery {
	return &ManifestDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
	}
}

// Discover returns every manifest below the root, sorted by relative path.
func (md *ManifestDiscovery) Discover() ([]File, error) {
	return md.DiscoverPatterns([]string{ManifestPattern})
}

// DiscoverPatterns returns files matching any of the glob patterns, sorted
// and de-duplicated.
func (md *ManifestDiscovery) DiscoverPatterns(patterns []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(md.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			f, ok := md.processMatch(match)
			if ok {
				seen[match] = true
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the
// match should be skipped.
func (md *ManifestDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(md.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolved, resolvedInfo, ok := md.resolveSymlink(fullPath)
		if !ok || resolvedInfo.IsDir() {
			return File{}, false
		}
		fullPath = resolved
		info = resolvedInfo
	}

	return File{
		Path:        fullPath,
		RelPath:     filepath.ToSlash(match),
		Size:        info.Size(),
		ProductType: DetectProductType(filepath.Join(md.rootPath, match), md.rootPath),
	}, true
}

// resolveSymlink follows a symlink if configured. Targets outside the root
// are skipped.
func (md *ManifestDiscovery) resolveSymlink(fullPath string) (string, os.FileInfo, bool) {
	if !md.followSymlinks {
		return "", nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", nil, false
	}
	realRoot, err := filepath.EvalSymlinks(md.rootPath)
	if err != nil {
		realRoot = md.rootPath
	}
	if !strings.HasPrefix(realPath, realRoot) {
		return "", nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", nil, false
	}
	return realPath, info, true
}

// Expand turns CLI arguments into manifests. Directories are searched
// recursively; files must carry a manifest suffix. With no arguments the
// root is searched.
func Expand(args []string, rootPath string, followSymlinks bool) ([]File, error) {
	if len(args) == 0 {
		args = []string{rootPath}
	}

	var files []File
	seen := make(map[string]bool)
	add := func(f File) {
		if !seen[f.Path] {
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			dir, err := filepath.Abs(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid path %q: %w", arg, err)
			}
			found, err := NewManifestDiscovery(dir, followSymlinks).Discover()
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				if f.ProductType == "" {
					f.ProductType = DetectProductType(f.Path, rootPath)
				}
				add(f)
			}
			continue
		}

		if !manifest.IsManifest(arg) {
			return nil, fmt.Errorf("unsupported file: %s is not a manifest (expected %s)", arg, strings.Join(manifest.Extensions, ", "))
		}
		absPath, err := ValidateFilePath(arg)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(rootPath, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = arg
		}
		add(File{
			Path:        absPath,
			RelPath:     filepath.ToSlash(rel),
			Size:        info.Size(),
			ProductType: DetectProductType(absPath, rootPath),
		})
	}
	return files, nil
}
