// Package registry holds the watch-root to artifact-destination mappings and
// resolves changed paths to the project that owns them.
//
// A Registry is populated once at startup and is read-only afterwards, so it
// is safe for concurrent use by in-flight builds without locking.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/buildship/internal/domain"
)

// Registry maps watch roots to projects.
type Registry struct {
	projects map[string]domain.Project
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{projects: make(map[string]domain.Project)}
}

// Register adds a mapping, overwriting any prior mapping for the same root.
func (r *Registry) Register(watchRoot, artifactDestination string) error {
	return r.RegisterProject(domain.Project{
		WatchRoot:           watchRoot,
		ArtifactDestination: artifactDestination,
	})
}

// RegisterProject adds a project, overwriting any prior project registered
// under the same watch root (last-write-wins). The artifact destination may
// be empty only for projects that skip publishing.
func (r *Registry) RegisterProject(p domain.Project) error {
	p.WatchRoot = strings.TrimSpace(p.WatchRoot)
	p.ArtifactDestination = strings.TrimSpace(p.ArtifactDestination)

	if err := checkAbs("watch root", p.WatchRoot); err != nil {
		return err
	}
	if !p.SkipPublish || p.ArtifactDestination != "" {
		if err := checkAbs("artifact destination", p.ArtifactDestination); err != nil {
			return err
		}
	}

	r.projects[p.WatchRoot] = p
	return nil
}

func checkAbs(what, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is empty", domain.ErrInvalidConfig, what)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s %q is not an absolute path", domain.ErrInvalidConfig, what, path)
	}
	return nil
}

// Lookup returns the project registered under watchRoot.
func (r *Registry) Lookup(watchRoot string) (domain.Project, bool) {
	p, ok := r.projects[watchRoot]
	return p, ok
}

// AllWatchRoots returns every registered root in sorted order.
func (r *Registry) AllWatchRoots() []string {
	roots := make([]string, 0, len(r.projects))
	for root := range r.projects {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// Projects returns every registered project ordered by watch root.
func (r *Registry) Projects() []domain.Project {
	roots := r.AllWatchRoots()
	out := make([]domain.Project, 0, len(roots))
	for _, root := range roots {
		out = append(out, r.projects[root])
	}
	return out
}

// Len returns the number of registered projects.
func (r *Registry) Len() int {
	return len(r.projects)
}
