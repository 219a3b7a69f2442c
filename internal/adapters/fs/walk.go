package fs

import (
	iofs "io/fs"
	"path/filepath"
)

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{".git", ".hg", ".svn", "node_modules"}

func ignoreSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// walkTree calls visit for every entry under root, skipping ignored
// directories below root. Unreadable subtrees are skipped. An error is
// returned only when root itself cannot be read.
func walkTree(root string, ignore map[string]bool, visit func(path string, d iofs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && path != root && ignore[d.Name()] {
			return filepath.SkipDir
		}
		return visit(path, d)
	})
}
