package domain

import (
	"path/filepath"
	"time"
)

// ChangeEvent is a notification that a file under a watch root was modified.
// Events are consumed once by the dispatcher and then discarded.
type ChangeEvent struct {
	// Path is the absolute path of the modified file.
	Path string

	// Time is when the change was observed. Used for ordering only.
	Time time.Time
}

// FileFilter selects which changed files qualify for a rebuild.
// Patterns are filepath.Match globs applied to the file's base name
// (e.g. "*.cpp"). An empty filter matches every file.
type FileFilter struct {
	Patterns []string
}

// NewFileFilter creates a filter from glob patterns, dropping empty entries.
func NewFileFilter(patterns ...string) FileFilter {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return FileFilter{Patterns: kept}
}

// Match reports whether path qualifies for dispatch.
func (f FileFilter) Match(path string) bool {
	if len(f.Patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, p := range f.Patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Validate checks that every pattern is a well-formed glob.
func (f FileFilter) Validate() error {
	for _, p := range f.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return err
		}
	}
	return nil
}
