package domain

import (
	"path/filepath"
	"strings"
)

// Project maps a watch root to the directory its build artifacts are copied to.
// A Project is created once from configuration and never modified afterwards.
type Project struct {
	// WatchRoot is the absolute directory whose file changes trigger a build.
	// The build command runs with this as its working directory.
	WatchRoot string

	// ArtifactDestination is the absolute directory artifacts are copied to.
	ArtifactDestination string

	// Command overrides the default build command for this project (optional).
	Command string

	// ArtifactDir overrides the default artifact subdirectory (optional).
	// Relative values are resolved against WatchRoot.
	ArtifactDir string

	// SkipPublish marks a project whose build is the whole job, such as a
	// per-file compiler writing in place. Nothing is copied after a successful
	// build and ArtifactDestination may be empty.
	SkipPublish bool
}

// Root returns the cleaned watch root used for path matching.
func (p Project) Root() string {
	return filepath.Clean(p.WatchRoot)
}

// Contains reports whether path lies at or below the project's watch root.
// Matching is segment-aware: root /foo/ba does not contain /foo/bar/x.
func (p Project) Contains(path string) bool {
	return IsUnder(p.Root(), filepath.Clean(path))
}

// IsUnder reports whether the cleaned path equals root or is nested below it.
// Both arguments must already be cleaned.
func IsUnder(root, path string) bool {
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
