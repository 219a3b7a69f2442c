package ports

import (
	"context"

	"github.com/bft-labs/buildship/internal/domain"
)

// ChangeSource observes watch roots and emits a change event per modified file.
type ChangeSource interface {
	// Watch begins observing roots. The returned channel is closed once ctx
	// is canceled and the source has released its resources.
	// Returns an error only if observation could not be set up at all.
	Watch(ctx context.Context, roots []string) (<-chan domain.ChangeEvent, error)
}
