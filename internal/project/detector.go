package project

import (
	"os"
	"path/filepath"
)

// configMarkers are the preflight config file names, in lookup order.
var configMarkers = []string{".preflightrc.json", ".preflightrc.yaml", ".preflightrc.yml"}

// baselineMarker is the default waiver file name.
const baselineMarker = ".preflight-baseline.json"

// Info contains information about the detected artwork project.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root        string
	HasGit      bool
	ConfigFile  string // "" when the project has no .preflightrc
	HasBaseline bool
	FilesFound  []string
}

// HasConfig reports whether a .preflightrc file was found.
func (i *Info) HasConfig() bool { return i.ConfigFile != "" }

// FindProjectRoot searches for a project root starting from the given path
// and climbing up the directory tree if needed.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	// Default to the start path if no project root found
	return absPath, nil
}

// isProjectRoot reports whether path holds a preflight config, a baseline or
// a .git directory.
func isProjectRoot(path string) bool {
	for _, name := range configMarkers {
		if exists(filepath.Join(path, name)) {
			return true
		}
	}
	if exists(filepath.Join(path, baselineMarker)) {
		return true
	}
	return exists(filepath.Join(path, ".git"))
}

// Detect detects project information at the given path.
// Named 'Detect' instead of 'DetectProjectInfo' to avoid stuttering.
func Detect(rootPath string) (*Info, error) {
	info := &Info{Root: rootPath}

	for _, name := range configMarkers {
		if exists(filepath.Join(rootPath, name)) {
			info.ConfigFile = name
			info.FilesFound = append(info.FilesFound, name)
			break
		}
	}
	if exists(filepath.Join(rootPath, baselineMarker)) {
		info.HasBaseline = true
		info.FilesFound = append(info.FilesFound, baselineMarker)
	}
	if exists(filepath.Join(rootPath, ".git")) {
		info.HasGit = true
		info.FilesFound = append(info.FilesFound, ".git/")
	}

	return info, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
