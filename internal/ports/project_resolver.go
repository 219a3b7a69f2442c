package ports

import "github.com/bft-labs/buildship/internal/domain"

// ProjectResolver maps a changed path to the project that owns it.
// Implementations must be safe for concurrent reads.
type ProjectResolver interface {
	// Resolve returns the owning project, or an error matching
	// domain.ErrUnmatched or domain.ErrAmbiguousConfig.
	Resolve(changedPath string) (domain.Project, error)

	// AllWatchRoots returns every registered watch root.
	AllWatchRoots() []string
}
