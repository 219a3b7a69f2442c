package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/buildship/internal/domain"
)

// Resolve returns the project owning changedPath.
//
// Every registered root that contains the path (segment-aware) is a candidate.
// The longest cleaned root wins, so a nested project shadows its ancestor.
// Distinct registrations that tie for longest yield ErrAmbiguousConfig.
// No candidate yields ErrUnmatched.
func (r *Registry) Resolve(changedPath string) (domain.Project, error) {
	path := filepath.Clean(changedPath)

	var (
		best    domain.Project
		bestLen = -1
		tied    []string
	)
	for key, p := range r.projects {
		root := p.Root()
		if !domain.IsUnder(root, path) {
			continue
		}
		switch {
		case len(root) > bestLen:
			best, bestLen = p, len(root)
			tied = []string{key}
		case len(root) == bestLen:
			tied = append(tied, key)
		}
	}

	switch {
	case bestLen < 0:
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrUnmatched, changedPath)
	case len(tied) > 1:
		return domain.Project{}, fmt.Errorf("%w: %s is claimed by %s",
			domain.ErrAmbiguousConfig, changedPath, quoteJoin(sortedCopy(tied)))
	}
	return best, nil
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
