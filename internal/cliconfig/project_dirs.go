package cliconfig

import (
	"fmt"
	"strings"

	"github.com/bft-labs/buildship/internal/domain"
)

// Delimiters of the project_dirs format: "root->dest|root->dest".
const (
	entrySeparator   = "|"
	mappingSeparator = "->"
)

// ParseProjectDirs parses a project_dirs value. Blank entries are skipped.
// An entry without "->" is a bare root with no destination, for projects
// that do not publish. More than one "->" or an empty side is an error
// matching domain.ErrInvalidConfig.
func ParseProjectDirs(value string) ([]ProjectDir, error) {
	var dirs []ProjectDir
	for _, entry := range strings.Split(value, entrySeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, mappingSeparator)
		if len(parts) == 1 {
			dirs = append(dirs, ProjectDir{Root: entry})
			continue
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: project dir entry %q: want root%sdest",
				domain.ErrInvalidConfig, entry, mappingSeparator)
		}
		root := strings.TrimSpace(parts[0])
		dest := strings.TrimSpace(parts[1])
		if root == "" || dest == "" {
			return nil, fmt.Errorf("%w: project dir entry %q: root and dest must not be empty",
				domain.ErrInvalidConfig, entry)
		}
		dirs = append(dirs, ProjectDir{Root: root, Dest: dest})
	}
	return dirs, nil
}

// FormatProjectDirs renders dirs in the project_dirs format.
func FormatProjectDirs(dirs []ProjectDir) string {
	entries := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d.Dest == "" {
			entries = append(entries, d.Root)
			continue
		}
		entries = append(entries, d.Root+mappingSeparator+d.Dest)
	}
	return strings.Join(entries, entrySeparator)
}
